package handler

import (
	"net/http"
	"strconv"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// StatusBoard godoc
// @Summary Project status board
// @Description Evaluates the schedule status of every visible project.
// @Description
// @Description Rows are one of: On time, Late, Completed, Cancelled, No schedule, Date error.
// @Description A project whose schedule cannot be read gets a degraded row with a warning instead of failing the board.
// @Tags Dashboard
// @Produce json
// @Param today query string false "Evaluate as of this day (DD/MM/YYYY)"
// @Param lateOnly query bool false "Only late projects"
// @Success 200 {object} domain.DashboardDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard/status [get]
func (h *DashboardHandler) StatusBoard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var opts service.DashboardOptions
	if v := q.Get("today"); v != "" {
		today, err := domain.ParseDate(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid today: must be a date in DD/MM/YYYY format")
			return
		}
		opts.Today = &today
	}
	if v := q.Get("lateOnly"); v != "" {
		lateOnly, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid lateOnly: must be true or false")
			return
		}
		opts.LateOnly = lateOnly
	}

	board, err := h.dashboardService.StatusBoard(r.Context(), opts)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}
