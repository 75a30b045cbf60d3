package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func hit(h http.Handler, path, remote string, ctx context.Context) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remote
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
	h := rl.LimitByIP(okHandler)

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "/api/v1/projects", "10.0.0.1:1234", nil))
	}
}

func TestRateLimiter_LimitExceeded(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}, zap.NewNop())
	h := rl.LimitByIP(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "/api/v1/projects", "10.0.0.1:1234", nil))
	assert.Equal(t, http.StatusOK, hit(h, "/api/v1/projects", "10.0.0.1:1234", nil))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var body domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate_limited", body.Type)

	// another client has its own budget
	assert.Equal(t, http.StatusOK, hit(h, "/api/v1/projects", "10.0.0.2:1234", nil))
}

func TestRateLimiter_Whitelists(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		WhitelistIPs:      []string{"127.0.0.1"},
		WhitelistPaths:    []string{"/health", "/swagger/*"},
	}, zap.NewNop())
	h := rl.LimitByIP(okHandler)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "/api/v1/projects", "127.0.0.1:1", nil))
		assert.Equal(t, http.StatusOK, hit(h, "/health", "10.0.0.9:1", nil))
		assert.Equal(t, http.StatusOK, hit(h, "/swagger/index.html", "10.0.0.9:1", nil))
	}
}

func TestRateLimiter_PeopleHaveSeparateBuckets(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     1,
		RequestsPerMinuteAuth: 2,
	}, zap.NewNop())
	h := rl.Limit(okHandler)

	ana := auth.WithUserContext(context.Background(), &auth.UserContext{PersonID: uuid.New()})
	bia := auth.WithUserContext(context.Background(), &auth.UserContext{PersonID: uuid.New()})

	// same IP, different people
	assert.Equal(t, http.StatusOK, hit(h, "/api/v1/projects", "10.0.0.1:1", ana))
	assert.Equal(t, http.StatusOK, hit(h, "/api/v1/projects", "10.0.0.1:1", ana))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "/api/v1/projects", "10.0.0.1:1", ana))
	assert.Equal(t, http.StatusOK, hit(h, "/api/v1/projects", "10.0.0.1:1", bia))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.0.5:4444"
	assert.Equal(t, "192.168.0.5", clientIP(req))

	req.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", clientIP(req))

	sys := auth.WithUserContext(context.Background(), auth.SystemUser())
	key, err := keyByPersonOrIP(req.WithContext(sys))
	require.NoError(t, err)
	assert.Equal(t, "ip:198.51.100.1", key)
}
