package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// List godoc
// @Summary List projects
// @Description Paginated list of the projects visible to the caller
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param organizationId query string false "Filter by organization" format(uuid)
// @Param callId query string false "Filter by call" format(uuid)
// @Param search query string false "Search code, acronym or name"
// @Param sortBy query string false "Sort field" Enums(code, acronym, name, createdAt, updatedAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ProjectSummaryDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	filters := repository.ProjectFilters{
		Search: strings.TrimSpace(q.Get("search")),
		Sort: repository.SortConfig{
			Field: q.Get("sortBy"),
			Order: repository.ParseSortOrder(q.Get("sortOrder")),
		},
	}
	if v := q.Get("organizationId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid organizationId: must be a valid UUID")
			return
		}
		filters.OrganizationID = &id
	}
	if v := q.Get("callId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid callId: must be a valid UUID")
			return
		}
		filters.CallID = &id
	}

	result, err := h.projectService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create project
// @Description Register a project. Staff only.
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body domain.CreateProjectRequest true "Project data"
// @Success 201 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Code or acronym already in use"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/projects/"+project.Code)
	respondEdit(w, http.StatusCreated, project.Version, project)
}

// Get godoc
// @Summary Get project
// @Description Full project document with its derived schedule status
// @Tags Projects
// @Produce json
// @Param code path string true "Project code"
// @Success 200 {object} domain.ProjectDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectService.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, project.Version, project)
}

// Update godoc
// @Summary Update project
// @Description Edit the descriptive fields of a project. Send If-Match with the version to guard against concurrent edits.
// @Tags Projects
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.UpdateProjectRequest true "Project data"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.UpdateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.Update(r.Context(), edit, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, project.Version, project)
}

// GetStatus godoc
// @Summary Get project status
// @Description Derived schedule status and next milestone as of today
// @Tags Projects
// @Produce json
// @Param code path string true "Project code"
// @Success 200 {object} domain.ProjectStatusDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/status [get]
func (h *ProjectHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	row, err := h.projectService.Status(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// SetStatus godoc
// @Summary Cancel or reinstate project
// @Tags Projects
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.UpdateProjectStatusRequest true "Cancellation flag"
// @Success 200 {object} domain.ProjectDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/status [put]
func (h *ProjectHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.UpdateProjectStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.SetCancelled(r.Context(), edit, req.Cancelled)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, project.Version, project)
}

// SetInstallments godoc
// @Summary Replace installment schedule
// @Tags Projects
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.SetInstallmentsRequest true "Installments"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/installments [put]
func (h *ProjectHandler) SetInstallments(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.SetInstallmentsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.SetInstallments(r.Context(), edit, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, project.Version, project)
}

// SubmitReport godoc
// @Summary Submit progress report
// @Description Record the submission of report N. Without a date the current day is used.
// @Tags Reports
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param number path int true "Report number"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.SubmitReportRequest false "Submission date"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/reports/{number}/submit [post]
func (h *ProjectHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	n, ok := intParam(w, r, "number")
	if !ok {
		return
	}
	var req domain.SubmitReportRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.projectService.SubmitReport(r.Context(), edit, n, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, project.Version, project)
}

// MonitorReport godoc
// @Summary Close progress report
// @Description Mark report N as monitored once it was submitted and fully accepted. Staff only.
// @Tags Reports
// @Produce json
// @Param code path string true "Project code"
// @Param number path int true "Report number"
// @Param If-Match header string false "Expected project version"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/reports/{number}/monitor [post]
func (h *ProjectHandler) MonitorReport(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	n, ok := intParam(w, r, "number")
	if !ok {
		return
	}

	project, err := h.projectService.MonitorReport(r.Context(), edit, n)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, project.Version, project)
}

// ReportReview godoc
// @Summary Review state of a report
// @Description Aggregated review state of every activity report and expense filed under report N
// @Tags Reports
// @Produce json
// @Param code path string true "Project code"
// @Param number path int true "Report number"
// @Success 200 {object} domain.ReportReviewDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/reports/{number}/review [get]
func (h *ProjectHandler) ReportReview(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "number")
	if !ok {
		return
	}
	review, err := h.projectService.ReportReview(r.Context(), chi.URLParam(r, "code"), n)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}
