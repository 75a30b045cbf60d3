package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"go.uber.org/zap"
)

// MonitoringHandler serves indicator contributions, impacts and locations
type MonitoringHandler struct {
	monitoringService *service.MonitoringService
	logger            *zap.Logger
}

func NewMonitoringHandler(monitoringService *service.MonitoringService, logger *zap.Logger) *MonitoringHandler {
	return &MonitoringHandler{
		monitoringService: monitoringService,
		logger:            logger,
	}
}

// UpsertIndicator godoc
// @Summary Set indicator contribution
// @Description Creates or replaces the project's contribution to a catalog indicator
// @Tags Monitoring
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param indicatorId path string true "Catalog indicator ID" format(uuid)
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ProjectIndicatorRequest true "Contribution"
// @Success 200 {object} domain.EditResponse[domain.ProjectIndicator]
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/indicators/{indicatorId} [put]
func (h *MonitoringHandler) UpsertIndicator(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ProjectIndicatorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.monitoringService.UpsertIndicator(r.Context(), edit, chi.URLParam(r, "indicatorId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// DeleteIndicator godoc
// @Summary Remove indicator contribution
// @Tags Monitoring
// @Param code path string true "Project code"
// @Param indicatorId path string true "Catalog indicator ID"
// @Param If-Match header string false "Expected project version"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/indicators/{indicatorId} [delete]
func (h *MonitoringHandler) DeleteIndicator(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	version, err := h.monitoringService.DeleteIndicator(r.Context(), edit, chi.URLParam(r, "indicatorId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondDeleted(w, version)
}

func impactTerm(r *http.Request) domain.ImpactTerm {
	return domain.ImpactTerm(chi.URLParam(r, "term"))
}

// ListImpacts godoc
// @Summary List impacts
// @Tags Monitoring
// @Produce json
// @Param code path string true "Project code"
// @Param term path string true "Impact term" Enums(short, long)
// @Success 200 {array} domain.Impact
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/impacts/{term} [get]
func (h *MonitoringHandler) ListImpacts(w http.ResponseWriter, r *http.Request) {
	impacts, err := h.monitoringService.Impacts(r.Context(), chi.URLParam(r, "code"), impactTerm(r))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, impacts)
}

// AddImpact godoc
// @Summary Add impact
// @Tags Monitoring
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param term path string true "Impact term" Enums(short, long)
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ImpactRequest true "Impact"
// @Success 201 {object} domain.EditResponse[domain.Impact]
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/impacts/{term} [post]
func (h *MonitoringHandler) AddImpact(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ImpactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.monitoringService.AddImpact(r.Context(), edit, impactTerm(r), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UpdateImpact godoc
// @Summary Update impact
// @Tags Monitoring
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param term path string true "Impact term" Enums(short, long)
// @Param impactId path string true "Impact ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ImpactRequest true "Impact"
// @Success 200 {object} domain.EditResponse[domain.Impact]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/impacts/{term}/{impactId} [put]
func (h *MonitoringHandler) UpdateImpact(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ImpactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.monitoringService.UpdateImpact(r.Context(), edit, impactTerm(r), chi.URLParam(r, "impactId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// DeleteImpact godoc
// @Summary Delete impact
// @Tags Monitoring
// @Param code path string true "Project code"
// @Param term path string true "Impact term" Enums(short, long)
// @Param impactId path string true "Impact ID"
// @Param If-Match header string false "Expected project version"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/impacts/{term}/{impactId} [delete]
func (h *MonitoringHandler) DeleteImpact(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	version, err := h.monitoringService.DeleteImpact(r.Context(), edit, impactTerm(r), chi.URLParam(r, "impactId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondDeleted(w, version)
}

// SetLocations godoc
// @Summary Replace project locations
// @Description Map files are managed through uploads and are kept as they are
// @Tags Monitoring
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.Locations true "Locations"
// @Success 200 {object} domain.EditResponse[domain.Locations]
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/locations [put]
func (h *MonitoringHandler) SetLocations(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.Locations
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.monitoringService.SetLocations(r.Context(), edit, req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}
