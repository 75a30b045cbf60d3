package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
)

// SystemUserID identifies calls authenticated with the API key
var SystemUserID = uuid.MustParse("00000000-0000-0000-0000-000000000000")

// UserContext holds authenticated user information
type UserContext struct {
	PersonID     uuid.UUID
	Name         string
	Email        string
	Roles        []domain.Role
	ProjectCodes []string
	IsSystem     bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// SystemUser is the identity of API-key and CLI callers
func SystemUser() *UserContext {
	return &UserContext{
		PersonID: SystemUserID,
		Name:     "System",
		Email:    "system@cepf.local",
		Roles:    []domain.Role{domain.RoleAdministrator},
		IsSystem: true,
	}
}

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// CurrentUser returns the caller, treating a context without one as the system
func CurrentUser(ctx context.Context) *UserContext {
	if user, ok := FromContext(ctx); ok {
		return user
	}
	return SystemUser()
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.Role) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsStaff reports whether the user manages every project
func (u *UserContext) IsStaff() bool {
	return u.IsSystem || u.HasAnyRole(domain.RoleAdministrator, domain.RoleStaff)
}

// IsAdmin reports whether the user may manage people and catalogs
func (u *UserContext) IsAdmin() bool {
	return u.IsSystem || u.HasRole(domain.RoleAdministrator)
}

func (u *UserContext) isMember(code string) bool {
	for _, c := range u.ProjectCodes {
		if c == code {
			return true
		}
	}
	return false
}

// CanView checks read access to a project
func (u *UserContext) CanView(code string) bool {
	if u.IsStaff() || u.HasRole(domain.RoleVisitor) {
		return true
	}
	return u.HasRole(domain.RoleBeneficiary) && u.isMember(code)
}

// CanEdit checks write access to a project. Visitors never write.
func (u *UserContext) CanEdit(code string) bool {
	if u.IsStaff() {
		return true
	}
	return u.HasRole(domain.RoleBeneficiary) && u.isMember(code)
}

// VisibleProjects returns the project codes a listing must be restricted to,
// or nil when every project is visible.
func (u *UserContext) VisibleProjects() []string {
	if u.IsStaff() || u.HasRole(domain.RoleVisitor) {
		return nil
	}
	if u.HasRole(domain.RoleBeneficiary) {
		return append([]string{}, u.ProjectCodes...)
	}
	return []string{}
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}
