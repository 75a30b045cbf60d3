package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-with-enough-entropy"

type fakePeople map[uuid.UUID]*domain.Person

func (f fakePeople) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func testConfig(apiKey string) *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			APIKey:        apiKey,
			JWTSecret:     testSecret,
			Issuer:        "cepf-test",
			TokenTTLHours: 1,
		},
	}
}

func newPerson(roles []string, codes ...string) *domain.Person {
	p := &domain.Person{
		Name:         "Ana Souza",
		Email:        "ana@example.org",
		Roles:        roles,
		Status:       domain.PersonStatusActive,
		ProjectCodes: codes,
	}
	p.EnsureID()
	return p
}

// ============================================================================
// UserContext
// ============================================================================

func TestUserContext_ProjectAccess(t *testing.T) {
	tests := []struct {
		name     string
		user     *auth.UserContext
		code     string
		canView  bool
		canEdit  bool
		visibles []string
	}{
		{
			name:    "administrator",
			user:    &auth.UserContext{Roles: []domain.Role{domain.RoleAdministrator}},
			code:    "CEPF-1",
			canView: true, canEdit: true,
		},
		{
			name:    "staff",
			user:    &auth.UserContext{Roles: []domain.Role{domain.RoleStaff}},
			code:    "CEPF-1",
			canView: true, canEdit: true,
		},
		{
			name:     "beneficiary of the project",
			user:     &auth.UserContext{Roles: []domain.Role{domain.RoleBeneficiary}, ProjectCodes: []string{"CEPF-1"}},
			code:     "CEPF-1",
			canView:  true, canEdit: true,
			visibles: []string{"CEPF-1"},
		},
		{
			name:     "beneficiary of another project",
			user:     &auth.UserContext{Roles: []domain.Role{domain.RoleBeneficiary}, ProjectCodes: []string{"CEPF-2"}},
			code:     "CEPF-1",
			visibles: []string{"CEPF-2"},
		},
		{
			name:    "visitor",
			user:    &auth.UserContext{Roles: []domain.Role{domain.RoleVisitor}},
			code:    "CEPF-1",
			canView: true,
		},
		{
			name:    "system",
			user:    auth.SystemUser(),
			code:    "CEPF-9",
			canView: true, canEdit: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canView, tt.user.CanView(tt.code))
			assert.Equal(t, tt.canEdit, tt.user.CanEdit(tt.code))
			assert.Equal(t, tt.visibles, tt.user.VisibleProjects())
		})
	}
}

func TestUserContext_NoRolesSeesNothing(t *testing.T) {
	user := &auth.UserContext{}
	assert.False(t, user.CanView("CEPF-1"))
	assert.Equal(t, []string{}, user.VisibleProjects())
}

func TestCurrentUser_DefaultsToSystem(t *testing.T) {
	user := auth.CurrentUser(context.Background())
	assert.True(t, user.IsSystem)

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{Name: "Ana"})
	assert.Equal(t, "Ana", auth.CurrentUser(ctx).Name)
}

// ============================================================================
// JWT
// ============================================================================

func TestJWTValidator_IssueAndValidate(t *testing.T) {
	v := auth.NewJWTValidator(&testConfig("").Auth)
	person := newPerson([]string{"staff", "unknown"})

	token, err := v.IssueToken(person)
	require.NoError(t, err)

	userCtx, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, person.ID, userCtx.PersonID)
	assert.Equal(t, person.Email, userCtx.Email)
	assert.Equal(t, []domain.Role{domain.RoleStaff}, userCtx.Roles)
}

func TestJWTValidator_RejectsExpiredToken(t *testing.T) {
	v := auth.NewJWTValidator(&testConfig("").Auth)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"iss": "cepf-test",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = v.ValidateToken(signed)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestJWTValidator_RejectsWrongSecretAndIssuer(t *testing.T) {
	v := auth.NewJWTValidator(&testConfig("").Auth)

	claims := jwt.MapClaims{
		"sub": uuid.NewString(),
		"iss": "cepf-test",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = v.ValidateToken(wrongKey)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	claims["iss"] = "someone-else"
	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = v.ValidateToken(wrongIssuer)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTValidator_NoSecret(t *testing.T) {
	v := auth.NewJWTValidator(&config.AuthConfig{})
	_, err := v.IssueToken(newPerson([]string{"staff"}))
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}

func TestExtractRoles(t *testing.T) {
	tests := []struct {
		name     string
		claims   jwt.MapClaims
		expected []domain.Role
	}{
		{"array", jwt.MapClaims{"roles": []interface{}{"staff", "visitor"}}, []domain.Role{domain.RoleStaff, domain.RoleVisitor}},
		{"single string", jwt.MapClaims{"role": "beneficiary"}, []domain.Role{domain.RoleBeneficiary}},
		{"unknown dropped", jwt.MapClaims{"roles": []interface{}{"root"}}, []domain.Role{}},
		{"missing", jwt.MapClaims{}, []domain.Role{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.ExtractRoles(tt.claims))
		})
	}
}

// ============================================================================
// Middleware
// ============================================================================

func serve(t *testing.T, m *auth.Middleware, req *http.Request) (*httptest.ResponseRecorder, *auth.UserContext) {
	var captured *auth.UserContext
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, captured
}

func TestMiddleware_APIKey(t *testing.T) {
	m := auth.NewMiddleware(testConfig("key-123"), fakePeople{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("x-api-key", "key-123")
	w, user := serve(t, m, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, user)
	assert.True(t, user.IsSystem)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("x-api-key", "wrong")
	w, user = serve(t, m, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, user)
}

func TestMiddleware_BearerLoadsStoredPerson(t *testing.T) {
	person := newPerson([]string{"beneficiary"}, "CEPF-7")
	m := auth.NewMiddleware(testConfig(""), fakePeople{person.ID: person}, zap.NewNop())

	// The token carries staff, the stored person is a beneficiary.
	tokenPerson := *person
	tokenPerson.Roles = []string{"staff"}
	token, err := auth.NewJWTValidator(&testConfig("").Auth).IssueToken(&tokenPerson)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, user := serve(t, m, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, user)
	assert.Equal(t, []domain.Role{domain.RoleBeneficiary}, user.Roles)
	assert.Equal(t, []string{"CEPF-7"}, user.ProjectCodes)
}

func TestMiddleware_RejectsUnknownOrInactivePerson(t *testing.T) {
	inactive := newPerson([]string{"staff"})
	inactive.Status = domain.PersonStatusInactive
	stranger := newPerson([]string{"staff"})
	m := auth.NewMiddleware(testConfig(""), fakePeople{inactive.ID: inactive}, zap.NewNop())
	v := auth.NewJWTValidator(&testConfig("").Auth)

	for _, p := range []*domain.Person{inactive, stranger} {
		token, err := v.IssueToken(p)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w, _ := serve(t, m, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestMiddleware_MissingOrMalformedHeader(t *testing.T) {
	m := auth.NewMiddleware(testConfig(""), fakePeople{}, zap.NewNop())

	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w, _ := serve(t, m, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	m := auth.NewMiddleware(testConfig(""), fakePeople{}, zap.NewNop())
	handler := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		user *auth.UserContext
		code int
	}{
		{"no user", nil, http.StatusForbidden},
		{"staff", &auth.UserContext{Roles: []domain.Role{domain.RoleStaff}}, http.StatusForbidden},
		{"administrator", &auth.UserContext{Roles: []domain.Role{domain.RoleAdministrator}}, http.StatusOK},
		{"system", auth.SystemUser(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/people", nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUserContext(req.Context(), tt.user))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}
