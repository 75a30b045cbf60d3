package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"go.uber.org/zap"
)

// CatalogHandler serves the shared reference data: organizations, funders,
// calls for proposals and indicators.
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

func listCatalog[T any](h *CatalogHandler, w http.ResponseWriter, r *http.Request, list func(context.Context, string) ([]T, error)) {
	items, err := list(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	respondJSON(w, http.StatusOK, items)
}

func getCatalog[T any](h *CatalogHandler, w http.ResponseWriter, r *http.Request, get func(context.Context, uuid.UUID) (*T, error)) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	item, err := get(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func createCatalog[Req, T any](h *CatalogHandler, w http.ResponseWriter, r *http.Request, create func(context.Context, *Req) (*T, error)) {
	var req Req
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item, err := create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func updateCatalog[Req, T any](h *CatalogHandler, w http.ResponseWriter, r *http.Request, update func(context.Context, uuid.UUID, *Req) (*T, error)) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req Req
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item, err := update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// ============================================================================
// Organizations
// ============================================================================

// ListOrganizations godoc
// @Summary List organizations
// @Tags Catalogs
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {array} domain.Organization
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /organizations [get]
func (h *CatalogHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	listCatalog(h, w, r, h.catalogService.ListOrganizations)
}

// CreateOrganization godoc
// @Summary Create organization
// @Description Administrators only
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param request body domain.OrganizationRequest true "Organization"
// @Success 201 {object} domain.Organization
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /organizations [post]
func (h *CatalogHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	createCatalog(h, w, r, h.catalogService.CreateOrganization)
}

// GetOrganization godoc
// @Summary Get organization
// @Tags Catalogs
// @Produce json
// @Param id path string true "Organization ID" format(uuid)
// @Success 200 {object} domain.Organization
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /organizations/{id} [get]
func (h *CatalogHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	getCatalog(h, w, r, h.catalogService.GetOrganization)
}

// UpdateOrganization godoc
// @Summary Update organization
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param id path string true "Organization ID" format(uuid)
// @Param request body domain.OrganizationRequest true "Organization"
// @Success 200 {object} domain.Organization
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /organizations/{id} [put]
func (h *CatalogHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	updateCatalog(h, w, r, h.catalogService.UpdateOrganization)
}

// ============================================================================
// Funders
// ============================================================================

// ListFunders godoc
// @Summary List funders
// @Tags Catalogs
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {array} domain.Funder
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /funders [get]
func (h *CatalogHandler) ListFunders(w http.ResponseWriter, r *http.Request) {
	listCatalog(h, w, r, h.catalogService.ListFunders)
}

// CreateFunder godoc
// @Summary Create funder
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param request body domain.FunderRequest true "Funder"
// @Success 201 {object} domain.Funder
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /funders [post]
func (h *CatalogHandler) CreateFunder(w http.ResponseWriter, r *http.Request) {
	createCatalog(h, w, r, h.catalogService.CreateFunder)
}

// GetFunder godoc
// @Summary Get funder
// @Tags Catalogs
// @Produce json
// @Param id path string true "Funder ID" format(uuid)
// @Success 200 {object} domain.Funder
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /funders/{id} [get]
func (h *CatalogHandler) GetFunder(w http.ResponseWriter, r *http.Request) {
	getCatalog(h, w, r, h.catalogService.GetFunder)
}

// UpdateFunder godoc
// @Summary Update funder
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param id path string true "Funder ID" format(uuid)
// @Param request body domain.FunderRequest true "Funder"
// @Success 200 {object} domain.Funder
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /funders/{id} [put]
func (h *CatalogHandler) UpdateFunder(w http.ResponseWriter, r *http.Request) {
	updateCatalog(h, w, r, h.catalogService.UpdateFunder)
}

// ============================================================================
// Calls
// ============================================================================

// ListCalls godoc
// @Summary List calls for proposals
// @Tags Catalogs
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {array} domain.Call
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /calls [get]
func (h *CatalogHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	listCatalog(h, w, r, h.catalogService.ListCalls)
}

// CreateCall godoc
// @Summary Create call for proposals
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param request body domain.CallRequest true "Call"
// @Success 201 {object} domain.Call
// @Failure 404 {object} domain.APIError "Funder not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /calls [post]
func (h *CatalogHandler) CreateCall(w http.ResponseWriter, r *http.Request) {
	createCatalog(h, w, r, h.catalogService.CreateCall)
}

// GetCall godoc
// @Summary Get call for proposals
// @Tags Catalogs
// @Produce json
// @Param id path string true "Call ID" format(uuid)
// @Success 200 {object} domain.Call
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /calls/{id} [get]
func (h *CatalogHandler) GetCall(w http.ResponseWriter, r *http.Request) {
	getCatalog(h, w, r, h.catalogService.GetCall)
}

// UpdateCall godoc
// @Summary Update call for proposals
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param id path string true "Call ID" format(uuid)
// @Param request body domain.CallRequest true "Call"
// @Success 200 {object} domain.Call
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /calls/{id} [put]
func (h *CatalogHandler) UpdateCall(w http.ResponseWriter, r *http.Request) {
	updateCatalog(h, w, r, h.catalogService.UpdateCall)
}

// ============================================================================
// Indicators
// ============================================================================

// ListIndicators godoc
// @Summary List catalog indicators
// @Tags Catalogs
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {array} domain.Indicator
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /indicators [get]
func (h *CatalogHandler) ListIndicators(w http.ResponseWriter, r *http.Request) {
	listCatalog(h, w, r, h.catalogService.ListIndicators)
}

// CreateIndicator godoc
// @Summary Create catalog indicator
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param request body domain.IndicatorRequest true "Indicator"
// @Success 201 {object} domain.Indicator
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /indicators [post]
func (h *CatalogHandler) CreateIndicator(w http.ResponseWriter, r *http.Request) {
	createCatalog(h, w, r, h.catalogService.CreateIndicator)
}

// GetIndicator godoc
// @Summary Get catalog indicator
// @Tags Catalogs
// @Produce json
// @Param id path string true "Indicator ID" format(uuid)
// @Success 200 {object} domain.Indicator
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /indicators/{id} [get]
func (h *CatalogHandler) GetIndicator(w http.ResponseWriter, r *http.Request) {
	getCatalog(h, w, r, h.catalogService.GetIndicator)
}

// UpdateIndicator godoc
// @Summary Update catalog indicator
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param id path string true "Indicator ID" format(uuid)
// @Param request body domain.IndicatorRequest true "Indicator"
// @Success 200 {object} domain.Indicator
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /indicators/{id} [put]
func (h *CatalogHandler) UpdateIndicator(w http.ResponseWriter, r *http.Request) {
	updateCatalog(h, w, r, h.catalogService.UpdateIndicator)
}
