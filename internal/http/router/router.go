package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/database"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/http/handler"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/renatoeco/app-cepf-gestao-sub000/docs" // Import generated swagger docs
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Project    *handler.ProjectHandler
	WorkPlan   *handler.WorkPlanHandler
	Budget     *handler.BudgetHandler
	Monitoring *handler.MonitoringHandler
	File       *handler.FileHandler
	Dashboard  *handler.DashboardHandler
	Person     *handler.PersonHandler
	Catalog    *handler.CatalogHandler
	Auth       *handler.AuthHandler
}

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	auditMiddleware *middleware.AuditMiddleware
	h               Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		auditMiddleware: auditMiddleware,
		h:               handlers,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
				"checks": map[string]interface{}{
					"database": map[string]string{"status": "unhealthy", "error": err.Error()},
				},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"checks": map[string]interface{}{
				"database": map[string]string{"status": "healthy"},
			},
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// Stored objects. Ids are slash paths, so the whole tail is the id.
	r.Group(func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Get("/files/*", rt.h.File.Download)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.rateLimiter.Limit)
		r.Use(rt.auditMiddleware.Audit)

		r.Get("/auth/me", rt.h.Auth.Me)
		r.Get("/dashboard/status", rt.h.Dashboard.StatusBoard)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", rt.h.Project.List)
			r.Post("/", rt.h.Project.Create)

			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", rt.h.Project.Get)
				r.Put("/", rt.h.Project.Update)
				r.Get("/status", rt.h.Project.GetStatus)
				r.Put("/status", rt.h.Project.SetStatus)
				r.Put("/installments", rt.h.Project.SetInstallments)
				r.Post("/files", rt.h.File.UploadProjectFile)

				r.Route("/reports/{number}", func(r chi.Router) {
					r.Post("/submit", rt.h.Project.SubmitReport)
					r.Post("/monitor", rt.h.Project.MonitorReport)
					r.Get("/review", rt.h.Project.ReportReview)
				})

				rt.workPlanRoutes(r)
				rt.budgetRoutes(r)

				r.Put("/indicators/{indicatorId}", rt.h.Monitoring.UpsertIndicator)
				r.Delete("/indicators/{indicatorId}", rt.h.Monitoring.DeleteIndicator)
				r.Route("/impacts/{term}", func(r chi.Router) {
					r.Get("/", rt.h.Monitoring.ListImpacts)
					r.Post("/", rt.h.Monitoring.AddImpact)
					r.Put("/{impactId}", rt.h.Monitoring.UpdateImpact)
					r.Delete("/{impactId}", rt.h.Monitoring.DeleteImpact)
				})
				r.Put("/locations", rt.h.Monitoring.SetLocations)
			})
		})

		r.Route("/people", func(r chi.Router) {
			r.Get("/", rt.h.Person.List)
			r.Post("/", rt.h.Person.Create)
			r.Get("/{id}", rt.h.Person.Get)
			r.Put("/{id}", rt.h.Person.Update)
			r.Put("/{id}/projects/{code}", rt.h.Person.AssignProject)
			r.Delete("/{id}/projects/{code}", rt.h.Person.UnassignProject)
		})

		rt.catalogRoutes(r)
	})

	return r
}

func (rt *Router) workPlanRoutes(r chi.Router) {
	wp := rt.h.WorkPlan
	r.Route("/components", func(r chi.Router) {
		r.Get("/", wp.Get)
		r.Post("/", wp.AddComponent)
		r.Route("/{componentId}", func(r chi.Router) {
			r.Put("/", wp.UpdateComponent)
			r.Delete("/", wp.DeleteComponent)
			r.Route("/deliverables", func(r chi.Router) {
				r.Post("/", wp.AddDeliverable)
				r.Route("/{deliverableId}", func(r chi.Router) {
					r.Put("/", wp.UpdateDeliverable)
					r.Delete("/", wp.DeleteDeliverable)
					r.Put("/monitoring", wp.SetMonitoringRows)
					r.Route("/activities", func(r chi.Router) {
						r.Post("/", wp.AddActivity)
						r.Route("/{activityId}", func(r chi.Router) {
							r.Put("/", wp.UpdateActivity)
							r.Delete("/", wp.DeleteActivity)
							r.Route("/reports", func(r chi.Router) {
								r.Post("/", wp.AddReport)
								r.Route("/{reportId}", func(r chi.Router) {
									r.Put("/", wp.UpdateReport)
									r.Delete("/", wp.DeleteReport)
									r.Put("/review", wp.ReviewReport)
									r.Post("/files", rt.h.File.UploadReportFile)
								})
							})
						})
					})
				})
			})
		})
	})
}

func (rt *Router) budgetRoutes(r chi.Router) {
	b := rt.h.Budget
	r.Route("/budget", func(r chi.Router) {
		r.Get("/expenses.csv", b.ExportExpenses)
		r.Route("/lines", func(r chi.Router) {
			r.Get("/", b.ListLines)
			r.Post("/", b.AddLine)
			r.Route("/{lineId}", func(r chi.Router) {
				r.Put("/", b.UpdateLine)
				r.Delete("/", b.DeleteLine)
				r.Route("/expenses", func(r chi.Router) {
					r.Post("/", b.AddExpense)
					r.Route("/{expenseId}", func(r chi.Router) {
						r.Put("/", b.UpdateExpense)
						r.Delete("/", b.DeleteExpense)
						r.Put("/review", b.ReviewExpense)
						r.Post("/files", rt.h.File.UploadExpenseReceipt)
					})
				})
			})
		})
	})
}

func (rt *Router) catalogRoutes(r chi.Router) {
	c := rt.h.Catalog
	r.Route("/organizations", func(r chi.Router) {
		r.Get("/", c.ListOrganizations)
		r.Post("/", c.CreateOrganization)
		r.Get("/{id}", c.GetOrganization)
		r.Put("/{id}", c.UpdateOrganization)
	})
	r.Route("/funders", func(r chi.Router) {
		r.Get("/", c.ListFunders)
		r.Post("/", c.CreateFunder)
		r.Get("/{id}", c.GetFunder)
		r.Put("/{id}", c.UpdateFunder)
	})
	r.Route("/calls", func(r chi.Router) {
		r.Get("/", c.ListCalls)
		r.Post("/", c.CreateCall)
		r.Get("/{id}", c.GetCall)
		r.Put("/{id}", c.UpdateCall)
	})
	r.Route("/indicators", func(r chi.Router) {
		r.Get("/", c.ListIndicators)
		r.Post("/", c.CreateIndicator)
		r.Get("/{id}", c.GetIndicator)
		r.Put("/{id}", c.UpdateIndicator)
	})
}
