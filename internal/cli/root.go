// Package cli implements cepfctl, the operator command line for the back office.
package cli

import (
	"fmt"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/database"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/logger"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Env holds what the commands work with. Commands run as the system user.
type Env struct {
	Dashboard *service.DashboardService
	Budget    *service.BudgetService
	People    *repository.PersonRepository
	Tokens    *auth.JWTValidator
	Logger    *zap.Logger
}

// NewEnv wires the services the commands use over db
func NewEnv(cfg *config.Config, db *gorm.DB, log *zap.Logger, clock service.Clock) *Env {
	projects := repository.NewProjectRepository(db)
	return &Env{
		Dashboard: service.NewDashboardService(projects, clock, log),
		Budget:    service.NewBudgetService(projects, log),
		People:    repository.NewPersonRepository(db),
		Tokens:    auth.NewJWTValidator(&cfg.Auth),
		Logger:    log,
	}
}

// Opener builds an Env, returning a func that releases it
type Opener func(verbose bool) (*Env, func(), error)

// OpenFromConfig loads configuration the way the API does and connects to
// the configured database.
func OpenFromConfig(verbose bool) (*Env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewCLILogger(verbose)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = log.Sync()
	}
	return NewEnv(cfg, db, log, nil), closeFn, nil
}

// NewRootCmd builds the cepfctl command tree. open is called once, before
// the first subcommand runs.
func NewRootCmd(open Opener) *cobra.Command {
	var (
		verbose bool
		env     *Env
		release func()
	)

	root := &cobra.Command{
		Use:           "cepfctl",
		Short:         "Operator tools for the CEPF grant back office",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			env, release, err = open(verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if release != nil {
				release()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	current := func() *Env { return env }
	root.AddCommand(statusCmd(current))
	root.AddCommand(exportExpensesCmd(current))
	root.AddCommand(tokenCmd(current))
	return root
}
