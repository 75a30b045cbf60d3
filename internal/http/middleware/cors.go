package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"go.uber.org/zap"
)

func isDevEnvironment(environment string) bool {
	return environment == "" || environment == "development" || environment == "local" || environment == "test"
}

// CORS lets the browser front end call the API. If-Match, ETag and Location
// always cross origins since project edits depend on them.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   withHeader(cfg.AllowedHeaders, "If-Match"),
		ExposedHeaders:   withHeader(withHeader(cfg.ExposedHeaders, "ETag"), "Location"),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	anyOrigin := func(r *http.Request, origin string) bool { return origin != "" }

	switch {
	case containsString(cfg.AllowedOrigins, "*"):
		if !isDevEnvironment(environment) {
			logger.Warn("CORS allows any origin outside development", zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS origins", zap.Strings("origins", cfg.AllowedOrigins))
	case isDevEnvironment(environment):
		options.AllowOriginFunc = anyOrigin
	default:
		// An empty AllowedOrigins means "*" to go-chi/cors, so deny explicitly.
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
		logger.Warn("CORS has no allowed origins; cross-origin requests are denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// withHeader appends name unless headers already cover it
func withHeader(headers []string, name string) []string {
	for _, h := range headers {
		if strings.EqualFold(h, name) || h == "*" {
			return headers
		}
	}
	return append(append([]string{}, headers...), name)
}
