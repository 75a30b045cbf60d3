package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"go.uber.org/zap"
)

// WorkPlanHandler serves the component > deliverable > activity > report tree
type WorkPlanHandler struct {
	workPlanService *service.WorkPlanService
	logger          *zap.Logger
}

func NewWorkPlanHandler(workPlanService *service.WorkPlanService, logger *zap.Logger) *WorkPlanHandler {
	return &WorkPlanHandler{
		workPlanService: workPlanService,
		logger:          logger,
	}
}

func activityPath(r *http.Request) service.ActivityPath {
	return service.ActivityPath{
		ComponentID:   chi.URLParam(r, "componentId"),
		DeliverableID: chi.URLParam(r, "deliverableId"),
		ActivityID:    chi.URLParam(r, "activityId"),
	}
}

func reportPath(r *http.Request) service.ReportPath {
	return service.ReportPath{ActivityPath: activityPath(r), ReportID: chi.URLParam(r, "reportId")}
}

// respondDeleted answers a successful delete with the new project version
func respondDeleted(w http.ResponseWriter, version int) {
	setVersion(w, version)
	w.WriteHeader(http.StatusNoContent)
}

// Get godoc
// @Summary Get work plan
// @Tags Work plan
// @Produce json
// @Param code path string true "Project code"
// @Success 200 {array} domain.Component
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components [get]
func (h *WorkPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.workPlanService.Get(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// AddComponent godoc
// @Summary Add component
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ComponentRequest true "Component"
// @Success 201 {object} domain.EditResponse[domain.Component]
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components [post]
func (h *WorkPlanHandler) AddComponent(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ComponentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.AddComponent(r.Context(), edit, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UpdateComponent godoc
// @Summary Rename component
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ComponentRequest true "Component"
// @Success 200 {object} domain.EditResponse[domain.Component]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId} [put]
func (h *WorkPlanHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ComponentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.UpdateComponent(r.Context(), edit, chi.URLParam(r, "componentId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// DeleteComponent godoc
// @Summary Delete component
// @Tags Work plan
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param If-Match header string false "Expected project version"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId} [delete]
func (h *WorkPlanHandler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	version, err := h.workPlanService.DeleteComponent(r.Context(), edit, chi.URLParam(r, "componentId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondDeleted(w, version)
}

// AddDeliverable godoc
// @Summary Add deliverable
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.DeliverableRequest true "Deliverable"
// @Success 201 {object} domain.EditResponse[domain.Deliverable]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables [post]
func (h *WorkPlanHandler) AddDeliverable(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.DeliverableRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.AddDeliverable(r.Context(), edit, chi.URLParam(r, "componentId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UpdateDeliverable godoc
// @Summary Update deliverable
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.DeliverableRequest true "Deliverable"
// @Success 200 {object} domain.EditResponse[domain.Deliverable]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId} [put]
func (h *WorkPlanHandler) UpdateDeliverable(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.DeliverableRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.UpdateDeliverable(r.Context(), edit,
		chi.URLParam(r, "componentId"), chi.URLParam(r, "deliverableId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// DeleteDeliverable godoc
// @Summary Delete deliverable
// @Tags Work plan
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param If-Match header string false "Expected project version"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId} [delete]
func (h *WorkPlanHandler) DeleteDeliverable(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	version, err := h.workPlanService.DeleteDeliverable(r.Context(), edit,
		chi.URLParam(r, "componentId"), chi.URLParam(r, "deliverableId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondDeleted(w, version)
}

// SetMonitoringRows godoc
// @Summary Replace deliverable monitoring rows
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.MonitoringRowsRequest true "Rows"
// @Success 200 {object} domain.EditResponse[domain.Deliverable]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/monitoring [put]
func (h *WorkPlanHandler) SetMonitoringRows(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.MonitoringRowsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.SetMonitoringRows(r.Context(), edit,
		chi.URLParam(r, "componentId"), chi.URLParam(r, "deliverableId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// AddActivity godoc
// @Summary Add activity
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ActivityRequest true "Activity"
// @Success 201 {object} domain.EditResponse[domain.Activity]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/activities [post]
func (h *WorkPlanHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.AddActivity(r.Context(), edit,
		chi.URLParam(r, "componentId"), chi.URLParam(r, "deliverableId"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UpdateActivity godoc
// @Summary Update activity
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param activityId path string true "Activity ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ActivityRequest true "Activity"
// @Success 200 {object} domain.EditResponse[domain.Activity]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/activities/{activityId} [put]
func (h *WorkPlanHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.UpdateActivity(r.Context(), edit, activityPath(r), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// DeleteActivity godoc
// @Summary Delete activity
// @Tags Work plan
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param activityId path string true "Activity ID"
// @Param If-Match header string false "Expected project version"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/activities/{activityId} [delete]
func (h *WorkPlanHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	version, err := h.workPlanService.DeleteActivity(r.Context(), edit, activityPath(r))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondDeleted(w, version)
}

// AddReport godoc
// @Summary File activity report
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param activityId path string true "Activity ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ActivityReportRequest true "Report"
// @Success 201 {object} domain.EditResponse[domain.ActivityReport]
// @Failure 400 {object} domain.APIError "Report number has no installment"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/activities/{activityId}/reports [post]
func (h *WorkPlanHandler) AddReport(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ActivityReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.AddActivityReport(r.Context(), edit, activityPath(r), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusCreated, res.Version, res)
}

// UpdateReport godoc
// @Summary Update activity report
// @Description Editing a rejected report reopens it
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param activityId path string true "Activity ID"
// @Param reportId path string true "Report ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ActivityReportRequest true "Report"
// @Success 200 {object} domain.EditResponse[domain.ActivityReport]
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/activities/{activityId}/reports/{reportId} [put]
func (h *WorkPlanHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ActivityReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.UpdateActivityReport(r.Context(), edit, reportPath(r), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}

// DeleteReport godoc
// @Summary Delete activity report
// @Tags Work plan
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param activityId path string true "Activity ID"
// @Param reportId path string true "Report ID"
// @Param If-Match header string false "Expected project version"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/activities/{activityId}/reports/{reportId} [delete]
func (h *WorkPlanHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	version, err := h.workPlanService.DeleteActivityReport(r.Context(), edit, reportPath(r))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondDeleted(w, version)
}

// ReviewReport godoc
// @Summary Review activity report
// @Description Accept, reject or reopen an activity report. Staff only.
// @Tags Work plan
// @Accept json
// @Produce json
// @Param code path string true "Project code"
// @Param componentId path string true "Component ID"
// @Param deliverableId path string true "Deliverable ID"
// @Param activityId path string true "Activity ID"
// @Param reportId path string true "Report ID"
// @Param If-Match header string false "Expected project version"
// @Param request body domain.ReviewRequest true "Review"
// @Success 200 {object} domain.EditResponse[domain.ActivityReport]
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{code}/components/{componentId}/deliverables/{deliverableId}/activities/{activityId}/reports/{reportId}/review [put]
func (h *WorkPlanHandler) ReviewReport(w http.ResponseWriter, r *http.Request) {
	edit, ok := requireEdit(w, r)
	if !ok {
		return
	}
	var req domain.ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.workPlanService.ReviewActivityReport(r.Context(), edit, reportPath(r), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondEdit(w, http.StatusOK, res.Version, res)
}
