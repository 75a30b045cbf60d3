package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"go.uber.org/zap"
)

type PersonHandler struct {
	personService *service.PersonService
	logger        *zap.Logger
}

func NewPersonHandler(personService *service.PersonService, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{
		personService: personService,
		logger:        logger,
	}
}

// List godoc
// @Summary List people
// @Description Staff only
// @Tags People
// @Produce json
// @Param role query string false "Filter by role" Enums(administrator, staff, beneficiary, visitor)
// @Param status query string false "Filter by status" Enums(active, invited, inactive)
// @Param projectCode query string false "Members of a project"
// @Param search query string false "Search name or email"
// @Success 200 {array} domain.Person
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /people [get]
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := repository.PersonFilters{
		ProjectCode: strings.TrimSpace(q.Get("projectCode")),
		Search:      strings.TrimSpace(q.Get("search")),
	}
	if v := q.Get("role"); v != "" {
		role := domain.Role(v)
		if !role.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid role: "+v)
			return
		}
		filters.Role = &role
	}
	if v := q.Get("status"); v != "" {
		status := domain.PersonStatus(v)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: "+v)
			return
		}
		filters.Status = &status
	}

	people, err := h.personService.List(r.Context(), filters)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, people)
}

// Create godoc
// @Summary Invite person
// @Description Administrators only. New people start as invited.
// @Tags People
// @Accept json
// @Produce json
// @Param request body domain.PersonRequest true "Person"
// @Success 201 {object} domain.Person
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already in use"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /people [post]
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.PersonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	person, err := h.personService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/people/"+person.ID.String())
	respondJSON(w, http.StatusCreated, person)
}

// Get godoc
// @Summary Get person
// @Description Staff can read anyone; everyone else only themselves
// @Tags People
// @Produce json
// @Param id path string true "Person ID" format(uuid)
// @Success 200 {object} domain.Person
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /people/{id} [get]
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	person, err := h.personService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, person)
}

// Update godoc
// @Summary Update person
// @Tags People
// @Accept json
// @Produce json
// @Param id path string true "Person ID" format(uuid)
// @Param request body domain.PersonRequest true "Person"
// @Success 200 {object} domain.Person
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /people/{id} [put]
func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req domain.PersonRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	person, err := h.personService.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, person)
}

// AssignProject godoc
// @Summary Add person to project
// @Tags People
// @Produce json
// @Param id path string true "Person ID" format(uuid)
// @Param code path string true "Project code"
// @Success 200 {object} domain.Person
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /people/{id}/projects/{code} [put]
func (h *PersonHandler) AssignProject(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	person, err := h.personService.AssignProject(r.Context(), id, chi.URLParam(r, "code"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, person)
}

// UnassignProject godoc
// @Summary Remove person from project
// @Tags People
// @Produce json
// @Param id path string true "Person ID" format(uuid)
// @Param code path string true "Project code"
// @Success 200 {object} domain.Person
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /people/{id}/projects/{code} [delete]
func (h *PersonHandler) UnassignProject(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	person, err := h.personService.UnassignProject(r.Context(), id, chi.URLParam(r, "code"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, person)
}
