package handler

import (
	"net/http"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"go.uber.org/zap"
)

type AuthHandler struct {
	logger *zap.Logger
}

func NewAuthHandler(logger *zap.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the caller with the roles and project memberships used for access checks
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.AuthUserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	codes := user.ProjectCodes
	if codes == nil {
		codes = []string{}
	}
	respondJSON(w, http.StatusOK, domain.AuthUserDTO{
		ID:           user.PersonID,
		Name:         user.Name,
		Email:        user.Email,
		Roles:        user.Roles,
		ProjectCodes: codes,
		IsSystem:     user.IsSystem,
		CanEditAll:   user.IsStaff(),
	})
}
