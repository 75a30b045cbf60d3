package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/workplan"
	"go.uber.org/zap"
)

// MonitoringService edits a project's indicator contributions, expected
// impacts and geographic footprint.
type MonitoringService struct {
	editor        *projectEditor
	indicatorRepo *repository.IndicatorRepository
	logger        *zap.Logger
}

// NewMonitoringService creates a new MonitoringService
func NewMonitoringService(projectRepo *repository.ProjectRepository, indicatorRepo *repository.IndicatorRepository, logger *zap.Logger) *MonitoringService {
	return &MonitoringService{
		editor:        &projectEditor{projectRepo: projectRepo, logger: logger},
		indicatorRepo: indicatorRepo,
		logger:        logger,
	}
}

// ============================================================================
// Indicators
// ============================================================================

// UpsertIndicator sets the project's contribution to a catalog indicator,
// replacing an existing contribution to the same indicator.
func (s *MonitoringService) UpsertIndicator(ctx context.Context, edit Edit, indicatorID string, req *domain.ProjectIndicatorRequest) (*domain.EditResponse[domain.ProjectIndicator], error) {
	id, err := uuid.Parse(indicatorID)
	if err != nil {
		return nil, invalidInput("indicator id %q is not a valid id", indicatorID)
	}
	if err := checkCatalogRef(ctx, s.indicatorRepo, &id, ErrIndicatorNotFound); err != nil {
		return nil, err
	}

	contribution := domain.ProjectIndicator{
		IndicatorID:             id.String(),
		ContributionValue:       req.ContributionValue,
		ContributionDescription: req.ContributionDescription,
		IntermediateResult:      req.IntermediateResult,
		FinalResult:             req.FinalResult,
	}

	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		var indicators []domain.ProjectIndicator
		var err error
		if _, exists := workplan.Find(p.Indicators, contribution.IndicatorID); exists {
			indicators, err = workplan.Replace(p.Indicators, contribution.IndicatorID, func(domain.ProjectIndicator) (domain.ProjectIndicator, error) {
				return contribution, nil
			})
		} else {
			indicators, err = workplan.Append(p.Indicators, contribution)
		}
		if err != nil {
			return nil, err
		}
		p.Indicators = indicators
		return []repository.ProjectField{repository.FieldIndicators}, nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.ProjectIndicator]{Data: contribution, Version: project.Version}, nil
}

func (s *MonitoringService) DeleteIndicator(ctx context.Context, edit Edit, indicatorID string) (int, error) {
	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		indicators, err := workplan.Remove(p.Indicators, indicatorID)
		if err != nil {
			return nil, err
		}
		p.Indicators = indicators
		return []repository.ProjectField{repository.FieldIndicators}, nil
	})
	if err != nil {
		return 0, err
	}
	return project.Version, nil
}

// ============================================================================
// Impacts
// ============================================================================

func impactField(term domain.ImpactTerm) (repository.ProjectField, error) {
	switch term {
	case domain.ImpactShortTerm:
		return repository.FieldImpactsShortTerm, nil
	case domain.ImpactLongTerm:
		return repository.FieldImpactsLongTerm, nil
	}
	return "", invalidInput("impact term must be %q or %q", domain.ImpactShortTerm, domain.ImpactLongTerm)
}

// impactList returns a pointer to the list of p that holds term
func impactList(p *domain.Project, term domain.ImpactTerm) *domain.Impacts {
	if term == domain.ImpactLongTerm {
		return &p.ImpactsLongTerm
	}
	return &p.ImpactsShortTerm
}

func (s *MonitoringService) editImpacts(ctx context.Context, edit Edit, term domain.ImpactTerm, fn func(domain.Impacts) ([]domain.Impact, error)) (int, error) {
	field, err := impactField(term)
	if err != nil {
		return 0, err
	}
	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		list := impactList(p, term)
		impacts, err := fn(*list)
		if err != nil {
			return nil, err
		}
		*list = impacts
		return []repository.ProjectField{field}, nil
	})
	if err != nil {
		return 0, err
	}
	return project.Version, nil
}

// Impacts returns the impact list of one term
func (s *MonitoringService) Impacts(ctx context.Context, code string, term domain.ImpactTerm) ([]domain.Impact, error) {
	if _, err := impactField(term); err != nil {
		return nil, err
	}
	project, err := s.editor.view(ctx, code)
	if err != nil {
		return nil, err
	}
	impacts := *impactList(project, term)
	if impacts == nil {
		return []domain.Impact{}, nil
	}
	return impacts, nil
}

func (s *MonitoringService) AddImpact(ctx context.Context, edit Edit, term domain.ImpactTerm, req *domain.ImpactRequest) (*domain.EditResponse[domain.Impact], error) {
	impact := domain.Impact{ID: workplan.NewID(), Text: strings.TrimSpace(req.Text)}
	version, err := s.editImpacts(ctx, edit, term, func(impacts domain.Impacts) ([]domain.Impact, error) {
		return workplan.Append(impacts, impact)
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Impact]{Data: impact, Version: version}, nil
}

func (s *MonitoringService) UpdateImpact(ctx context.Context, edit Edit, term domain.ImpactTerm, impactID string, req *domain.ImpactRequest) (*domain.EditResponse[domain.Impact], error) {
	var updated domain.Impact
	version, err := s.editImpacts(ctx, edit, term, func(impacts domain.Impacts) ([]domain.Impact, error) {
		return workplan.Replace(impacts, impactID, func(i domain.Impact) (domain.Impact, error) {
			i.Text = strings.TrimSpace(req.Text)
			updated = i
			return i, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Impact]{Data: updated, Version: version}, nil
}

func (s *MonitoringService) DeleteImpact(ctx context.Context, edit Edit, term domain.ImpactTerm, impactID string) (int, error) {
	return s.editImpacts(ctx, edit, term, func(impacts domain.Impacts) ([]domain.Impact, error) {
		return workplan.Remove(impacts, impactID)
	})
}

// ============================================================================
// Locations
// ============================================================================

// SetLocations replaces the geographic footprint. Map files are managed by
// uploads and carried over untouched.
func (s *MonitoringService) SetLocations(ctx context.Context, edit Edit, locations domain.Locations) (*domain.EditResponse[domain.Locations], error) {
	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		locations.MapFiles = p.Locations.MapFiles
		p.Locations = locations
		return []repository.ProjectField{repository.FieldLocations}, nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Locations]{Data: project.Locations, Version: project.Version}, nil
}
