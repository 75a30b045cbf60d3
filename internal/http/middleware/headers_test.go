package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSecurityHeaders_HSTSAndCSP(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            600,
		HSTSIncludeSubdomains: true,
		HSTSPreload:           true,
		ContentSecurityPolicy: "default-src 'self'",
		FrameOptions:          "DENY",
	}
	h := SecurityHeaders(cfg)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, "max-age=600; includeSubDomains; preload", rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("X-XSS-Protection"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func preflight(h http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects/CEPF-1", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "If-Match")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS_Origins(t *testing.T) {
	base := config.CORSConfig{
		AllowedMethods: []string{"GET", "PUT"},
		AllowedHeaders: []string{"Content-Type"},
	}

	tests := []struct {
		name        string
		origins     []string
		environment string
		origin      string
		allowed     bool
	}{
		{"development allows any origin", nil, "development", "http://localhost:3000", true},
		{"production without origins denies", nil, "production", "https://app.example.org", false},
		{"explicit origin allowed", []string{"https://app.example.org"}, "production", "https://app.example.org", true},
		{"explicit list rejects others", []string{"https://app.example.org"}, "production", "https://evil.example.com", false},
		{"wildcard", []string{"*"}, "production", "https://anything.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.AllowedOrigins = tt.origins
			h := CORS(&cfg, tt.environment, zap.NewNop())(okHandler)

			rec := preflight(h, tt.origin)
			if tt.allowed {
				assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
				// If-Match is allowed even though the config does not list it
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "If-Match")
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
