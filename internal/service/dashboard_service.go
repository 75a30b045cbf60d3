package service

import (
	"context"
	"fmt"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/mapper"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/status"
	"go.uber.org/zap"
)

// DashboardOptions narrows a status board
type DashboardOptions struct {
	// Today overrides the clock, e.g. to look at a past or future day
	Today *time.Time
	// LateOnly keeps only rows whose status is Late
	LateOnly bool
}

type DashboardService struct {
	projectRepo *repository.ProjectRepository
	clock       Clock
	logger      *zap.Logger
}

func NewDashboardService(projectRepo *repository.ProjectRepository, clock Clock, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		clock:       clock,
		logger:      logger,
	}
}

// StatusBoard evaluates every project visible to the caller. One malformed
// project never aborts the batch: it gets a degraded row with a warning,
// which is also logged for operators.
func (s *DashboardService) StatusBoard(ctx context.Context, opts DashboardOptions) (*domain.DashboardDTO, error) {
	filters := repository.ProjectFilters{Codes: auth.CurrentUser(ctx).VisibleProjects()}
	projects, err := s.projectRepo.ListAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	today := s.clock.now()
	if opts.Today != nil {
		today = *opts.Today
	}

	board := BuildStatusBoard(projects, today)
	for _, row := range board.Rows {
		if row.Warning != "" {
			s.logger.Warn("project status degraded",
				zap.String("code", row.Code),
				zap.String("status", row.Status),
				zap.String("warning", row.Warning),
			)
		}
	}

	if opts.LateOnly {
		late := make([]domain.ProjectStatusDTO, 0, len(board.Rows))
		for _, row := range board.Rows {
			if row.Status == status.Late {
				late = append(late, row)
			}
		}
		board.Rows = late
	}
	return board, nil
}

// BuildStatusBoard runs the status engine over projects as seen on today
func BuildStatusBoard(projects []domain.Project, today time.Time) *domain.DashboardDTO {
	board := &domain.DashboardDTO{
		Today:  domain.FormatDate(today),
		Rows:   make([]domain.ProjectStatusDTO, 0, len(projects)),
		Counts: make(map[string]int),
	}
	for i := range projects {
		row := mapper.ToProjectStatusDTO(&projects[i], status.Evaluate(&projects[i], today))
		board.Rows = append(board.Rows, row)
		board.Counts[row.Status]++
		if row.Warning != "" {
			board.Warnings++
		}
	}
	return board
}
