package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/export"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"go.uber.org/zap"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		logger:        logger,
	}
}

// ListLines godoc
// @Summary List budget lines
// @Description Budget lines with their expenses and spent totals
// @Tags Budget
// @Produce json
// @Param code path string true "Project code"
// @Success 200 {array} domain.BudgetLineDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines [get]
func (h *BudgetHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.budgetService.Lines(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

// AddLine godoc
// @Summary Add budget line
// @Tags Budget
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.BudgetLineRequest true "Budget line"
// @Success 201 {object} domain.EditResponse[domain.BudgetLine]
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines [post]
func (h *BudgetHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.BudgetLineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.budgetService.AddLine(r.Context(), edit, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UpdateLine godoc
// @Summary Update budget line
// @Tags Budget
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param lineId path string true "Budget line ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.BudgetLineRequest true "Budget line"
// @Success 200 {object} domain.EditResponse[domain.BudgetLine]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines/{lineId} [put]
func (h *BudgetHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.BudgetLineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.budgetService.UpdateLine(r.Context(), edit, chi.URLParam(r, "lineId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// DeleteLine godoc
// @Summary Delete budget line
// @Description Lines that still carry expenses cannot be deleted
// @Tags Budget
// @Param code path string true "Project code"
// @Param lineId path string true "Budget line ID"
// @Param If-Match header string false "Expected project version"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines/{lineId} [delete]
func (h *BudgetHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	version, err := h.budgetService.DeleteLine(r.Context(), edit, chi.URLParam(r, "lineId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondDeleted(w, version)
}

// AddExpense godoc
// @Summary Record expense
// @Tags Budget
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param lineId path string true "Budget line ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ExpenseRequest true "Expense"
// @Success 201 {object} domain.EditResponse[domain.Expense]
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines/{lineId}/expenses [post]
func (h *BudgetHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.budgetService.AddExpense(r.Context(), edit, chi.URLParam(r, "lineId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UpdateExpense godoc
// @Summary Update expense
// @Description Editing a rejected expense reopens it
// @Tags Budget
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param lineId path string true "Budget line ID"
// @Param expenseId path string true "Expense ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ExpenseRequest true "Expense"
// @Success 200 {object} domain.EditResponse[domain.Expense]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines/{lineId}/expenses/{expenseId} [put]
func (h *BudgetHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.budgetService.UpdateExpense(r.Context(), edit,
		chi.URLParam(r, "lineId"), chi.URLParam(r, "expenseId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// DeleteExpense godoc
// @Summary Delete expense
// @Tags Budget
// @Param code path string true "Project code"
// @Param lineId path string true "Budget line ID"
// @Param expenseId path string true "Expense ID"
// @Param If-Match header string false "Expected project version"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines/{lineId}/expenses/{expenseId} [delete]
func (h *BudgetHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	version, err := h.budgetService.DeleteExpense(r.Context(), edit,
		chi.URLParam(r, "lineId"), chi.URLParam(r, "expenseId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondDeleted(w, version)
}

// ReviewExpense godoc
// @Summary Review expense
// @Description Accept, reject or reopen an expense. Staff only.
// @Tags Budget
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param lineId path string true "Budget line ID"
// @Param expenseId path string true "Expense ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ReviewRequest true "Review"
// @Success 200 {object} domain.EditResponse[domain.Expense]
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/lines/{lineId}/expenses/{expenseId}/review [put]
func (h *BudgetHandler) ReviewExpense(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.budgetService.ReviewExpense(r.Context(), edit,
		chi.URLParam(r, "lineId"), chi.URLParam(r, "expenseId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// ExportExpenses godoc
// @Summary Export expenses as CSV
// @Description One row per expense. Use encoding=latin1 for spreadsheets that expect Windows-1252.
// @Tags Budget
// @Produce text/csv
// @Param code path string true "Project code"
// @Param encoding query string false "utf8 or latin1" default(utf8)
// @Success 200 {file} file
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/budget/expenses.csv [get]
func (h *BudgetHandler) ExportExpenses(w http.ResponseWriter, r *http.Request) {
	enc, err := export.ParseEncoding(r.URL.Query().Get("encoding"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	code := chi.URLParam(r, "code")

	// The CSV is built in memory first so a failure can still be answered as JSON.
	var buf bytes.Buffer
	if err := h.budgetService.ExportExpenses(r.Context(), code, &buf, enc); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset="+enc.Charset())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-expenses.csv"`, code))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
