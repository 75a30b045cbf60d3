package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"go.uber.org/zap"
)

// AuditConfig holds configuration for the edit trail
type AuditConfig struct {
	// SkipPaths contains path prefixes that should not be recorded
	SkipPaths []string
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{"/health", "/swagger"},
	}
}

// AuditMiddleware writes one structured log line per successful write:
// who changed what, and which project version the change produced.
type AuditMiddleware struct {
	config *AuditConfig
	logger *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		config: config,
		logger: logger.Named("audit"),
	}
}

// Audit records modifications after the handler has run
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		rw := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}
		m.record(r, rw)
	})
}

func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return false
	}
	for _, skipPath := range m.config.SkipPaths {
		if strings.HasPrefix(r.URL.Path, skipPath) {
			return false
		}
	}
	return true
}

func (m *AuditMiddleware) record(r *http.Request, rw *responseCapture) {
	user := auth.CurrentUser(r.Context())
	fields := []zap.Field{
		zap.String("action", methodToAction(r.Method)),
		zap.String("entity", entityFromPath(r.URL.Path)),
		zap.String("path", r.URL.Path),
		zap.String("person_id", user.PersonID.String()),
		zap.String("person_email", user.Email),
		zap.Int("status_code", rw.statusCode),
	}
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			fields = append(fields, zap.String("route", pattern))
		}
		if code := routeCtx.URLParam("code"); code != "" {
			fields = append(fields, zap.String("project_code", code))
		}
	}
	if etag := rw.Header().Get("ETag"); etag != "" {
		fields = append(fields, zap.String("project_version", strings.Trim(etag, `"`)))
	}
	m.logger.Info("write recorded", fields...)
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodDelete:
		return "delete"
	default:
		return "update"
	}
}

// entityFromPath names the innermost collection addressed by a path
func entityFromPath(path string) string {
	entityMap := map[string]string{
		"projects":      "project",
		"installments":  "installments",
		"reports":       "report",
		"components":    "component",
		"deliverables":  "deliverable",
		"activities":    "activity",
		"monitoring":    "monitoring_rows",
		"lines":         "budget_line",
		"expenses":      "expense",
		"indicators":    "indicator",
		"impacts":       "impact",
		"locations":     "locations",
		"files":         "file",
		"people":        "person",
		"organizations": "organization",
		"funders":       "funder",
		"calls":         "call",
	}

	entity := "unknown"
	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if e, ok := entityMap[part]; ok {
			entity = e
		}
	}
	return entity
}

// responseCapture wraps ResponseWriter to capture the status code
type responseCapture struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseCapture) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
