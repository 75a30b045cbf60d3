package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/docs"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/database"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/http/handler"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/http/middleware"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/http/router"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/jobs"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/logger"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/storage"
	"go.uber.org/zap"
)

// @title CEPF Gestão API
// @version 1.0
// @description Back office for CEPF Brazil grants: projects, work plans, budgets, reports and monitoring

// @contact.name CEPF Brazil support
// @contact.email suporte@cepf.org.br

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// In staging/production with USE_AZURE_KEY_VAULT=true, secrets come from Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	store, err := storage.NewObjectStore(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized",
		zap.String("mode", cfg.Storage.Mode),
		zap.String("root_folder", cfg.Storage.RootFolder),
	)

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	personRepo := repository.NewPersonRepository(db)
	organizationRepo := repository.NewOrganizationRepository(db)
	funderRepo := repository.NewFunderRepository(db)
	callRepo := repository.NewCallRepository(db)
	indicatorRepo := repository.NewIndicatorRepository(db)

	// Services
	clock := service.Clock(time.Now)
	projectService := service.NewProjectService(projectRepo, organizationRepo, callRepo, clock, log)
	workPlanService := service.NewWorkPlanService(projectRepo, log)
	budgetService := service.NewBudgetService(projectRepo, log)
	monitoringService := service.NewMonitoringService(projectRepo, indicatorRepo, log)
	fileService := service.NewFileService(projectRepo, store, cfg.Storage.RootFolder, clock, log)
	dashboardService := service.NewDashboardService(projectRepo, clock, log)
	personService := service.NewPersonService(personRepo, projectRepo, organizationRepo, log)
	catalogService := service.NewCatalogService(organizationRepo, funderRepo, callRepo, indicatorRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, personRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(nil, log)

	handlers := router.Handlers{
		Project:    handler.NewProjectHandler(projectService, log),
		WorkPlan:   handler.NewWorkPlanHandler(workPlanService, log),
		Budget:     handler.NewBudgetHandler(budgetService, log),
		Monitoring: handler.NewMonitoringHandler(monitoringService, log),
		File:       handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log),
		Dashboard:  handler.NewDashboardHandler(dashboardService, log),
		Person:     handler.NewPersonHandler(personService, log),
		Catalog:    handler.NewCatalogHandler(catalogService, log),
		Auth:       handler.NewAuthHandler(log),
	}

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, auditMiddleware, handlers)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.StatusDigestEnabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterStatusDigestJob(
			scheduler,
			dashboardService,
			log,
			cfg.Jobs.StatusDigestCron,
			cfg.Jobs.StatusDigestTimeoutDuration(),
		); err != nil {
			log.Error("Failed to register status digest job", zap.Error(err))
			scheduler = nil
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("Status digest disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}
		log.Info("Server stopped gracefully")
	}

	return nil
}
