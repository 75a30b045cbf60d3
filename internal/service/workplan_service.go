package service

import (
	"context"
	"strings"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/workplan"
	"go.uber.org/zap"
)

// ActivityPath addresses one activity inside the work plan
type ActivityPath struct {
	ComponentID   string
	DeliverableID string
	ActivityID    string
}

// ReportPath addresses one activity report inside the work plan
type ReportPath struct {
	ActivityPath
	ReportID string
}

// WorkPlanService edits the component, deliverable, activity and report tree
// of a project. Every edit rewrites the whole work plan column with exactly
// one node changed.
type WorkPlanService struct {
	editor *projectEditor
	logger *zap.Logger
}

// NewWorkPlanService creates a new WorkPlanService
func NewWorkPlanService(projectRepo *repository.ProjectRepository, logger *zap.Logger) *WorkPlanService {
	return &WorkPlanService{
		editor: &projectEditor{projectRepo: projectRepo, logger: logger},
		logger: logger,
	}
}

// Get returns the work plan of a project
func (s *WorkPlanService) Get(ctx context.Context, code string) ([]domain.Component, error) {
	project, err := s.editor.view(ctx, code)
	if err != nil {
		return nil, err
	}
	if project.WorkPlan == nil {
		return []domain.Component{}, nil
	}
	return project.WorkPlan, nil
}

func (s *WorkPlanService) editWorkPlan(ctx context.Context, edit Edit, fn func(p *domain.Project) (domain.Components, error)) (int, error) {
	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		components, err := fn(p)
		if err != nil {
			return nil, err
		}
		p.WorkPlan = components
		return []repository.ProjectField{repository.FieldWorkPlan}, nil
	})
	if err != nil {
		return 0, err
	}
	return project.Version, nil
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return workplan.NewID()
}

// ============================================================================
// Components
// ============================================================================

func (s *WorkPlanService) AddComponent(ctx context.Context, edit Edit, req *domain.ComponentRequest) (*domain.EditResponse[domain.Component], error) {
	component := domain.Component{ID: idOrNew(req.ID), Name: strings.TrimSpace(req.Name)}
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.Append(p.WorkPlan, component)
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Component]{Data: component, Version: version}, nil
}

func (s *WorkPlanService) UpdateComponent(ctx context.Context, edit Edit, componentID string, req *domain.ComponentRequest) (*domain.EditResponse[domain.Component], error) {
	var updated domain.Component
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.Replace(p.WorkPlan, componentID, func(c domain.Component) (domain.Component, error) {
			c.Name = strings.TrimSpace(req.Name)
			updated = c
			return c, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Component]{Data: updated, Version: version}, nil
}

func (s *WorkPlanService) DeleteComponent(ctx context.Context, edit Edit, componentID string) (int, error) {
	return s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.Remove(p.WorkPlan, componentID)
	})
}

// ============================================================================
// Deliverables
// ============================================================================

func (s *WorkPlanService) AddDeliverable(ctx context.Context, edit Edit, componentID string, req *domain.DeliverableRequest) (*domain.EditResponse[domain.Deliverable], error) {
	deliverable := domain.Deliverable{
		ID:              idOrNew(req.ID),
		Name:            strings.TrimSpace(req.Name),
		DonorIndicators: req.DonorIndicators,
	}
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.Replace(p.WorkPlan, componentID, func(c domain.Component) (domain.Component, error) {
			deliverables, err := workplan.Append(c.Deliverables, deliverable)
			if err != nil {
				return c, err
			}
			c.Deliverables = deliverables
			return c, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Deliverable]{Data: deliverable, Version: version}, nil
}

func (s *WorkPlanService) UpdateDeliverable(ctx context.Context, edit Edit, componentID, deliverableID string, req *domain.DeliverableRequest) (*domain.EditResponse[domain.Deliverable], error) {
	var updated domain.Deliverable
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.UpdateDeliverable(p.WorkPlan, componentID, deliverableID, func(d domain.Deliverable) (domain.Deliverable, error) {
			d.Name = strings.TrimSpace(req.Name)
			d.DonorIndicators = req.DonorIndicators
			updated = d
			return d, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Deliverable]{Data: updated, Version: version}, nil
}

func (s *WorkPlanService) DeleteDeliverable(ctx context.Context, edit Edit, componentID, deliverableID string) (int, error) {
	return s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.Replace(p.WorkPlan, componentID, func(c domain.Component) (domain.Component, error) {
			deliverables, err := workplan.Remove(c.Deliverables, deliverableID)
			if err != nil {
				return c, err
			}
			c.Deliverables = deliverables
			return c, nil
		})
	})
}

// SetMonitoringRows replaces the project indicators tracked under a
// deliverable. Rows without an id get one.
func (s *WorkPlanService) SetMonitoringRows(ctx context.Context, edit Edit, componentID, deliverableID string, req *domain.MonitoringRowsRequest) (*domain.EditResponse[domain.Deliverable], error) {
	rows := make([]domain.MonitoringRow, 0, len(req.Rows))
	seen := make(map[string]bool, len(req.Rows))
	for _, row := range req.Rows {
		if strings.TrimSpace(row.Indicator) == "" {
			return nil, invalidInput("monitoring row indicator is required")
		}
		row.ID = idOrNew(row.ID)
		if seen[row.ID] {
			return nil, ErrDuplicateNode
		}
		seen[row.ID] = true
		rows = append(rows, row)
	}

	var updated domain.Deliverable
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.UpdateDeliverable(p.WorkPlan, componentID, deliverableID, func(d domain.Deliverable) (domain.Deliverable, error) {
			d.ProjectIndicators = rows
			updated = d
			return d, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Deliverable]{Data: updated, Version: version}, nil
}

// ============================================================================
// Activities
// ============================================================================

func (s *WorkPlanService) AddActivity(ctx context.Context, edit Edit, componentID, deliverableID string, req *domain.ActivityRequest) (*domain.EditResponse[domain.Activity], error) {
	if err := checkDateRange("activity", req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	activity := domain.Activity{
		ID:        idOrNew(req.ID),
		Name:      strings.TrimSpace(req.Name),
		StartDate: strings.TrimSpace(req.StartDate),
		EndDate:   strings.TrimSpace(req.EndDate),
	}
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.UpdateActivities(p.WorkPlan, componentID, deliverableID, func(activities []domain.Activity) ([]domain.Activity, error) {
			return workplan.Append(activities, activity)
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Activity]{Data: activity, Version: version}, nil
}

func (s *WorkPlanService) UpdateActivity(ctx context.Context, edit Edit, path ActivityPath, req *domain.ActivityRequest) (*domain.EditResponse[domain.Activity], error) {
	if err := checkDateRange("activity", req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	var updated domain.Activity
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.UpdateActivity(p.WorkPlan, path.ComponentID, path.DeliverableID, path.ActivityID, func(a domain.Activity) (domain.Activity, error) {
			a.Name = strings.TrimSpace(req.Name)
			a.StartDate = strings.TrimSpace(req.StartDate)
			a.EndDate = strings.TrimSpace(req.EndDate)
			updated = a
			return a, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Activity]{Data: updated, Version: version}, nil
}

func (s *WorkPlanService) DeleteActivity(ctx context.Context, edit Edit, path ActivityPath) (int, error) {
	return s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.UpdateActivities(p.WorkPlan, path.ComponentID, path.DeliverableID, func(activities []domain.Activity) ([]domain.Activity, error) {
			return workplan.Remove(activities, path.ActivityID)
		})
	})
}

// ============================================================================
// Activity reports
// ============================================================================

// AddActivityReport files a narrative for an activity under report number n.
// The report number must pair with an installment.
func (s *WorkPlanService) AddActivityReport(ctx context.Context, edit Edit, path ActivityPath, req *domain.ActivityReportRequest) (*domain.EditResponse[domain.ActivityReport], error) {
	report := domain.ActivityReport{
		ID:           workplan.NewID(),
		ReportNumber: req.ReportNumber,
		Narrative:    req.Narrative,
		When:         strings.TrimSpace(req.When),
		Where:        strings.TrimSpace(req.Where),
		ReviewStatus: domain.ReviewOpen,
	}
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		if err := checkReportNumber(p, req.ReportNumber); err != nil {
			return nil, err
		}
		return workplan.UpdateActivityReports(p.WorkPlan, path.ComponentID, path.DeliverableID, path.ActivityID, func(reports []domain.ActivityReport) ([]domain.ActivityReport, error) {
			return workplan.Append(reports, report)
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.ActivityReport]{Data: report, Version: version}, nil
}

// UpdateActivityReport edits the narrative of a report. A rejected report
// goes back to open once it is edited.
func (s *WorkPlanService) UpdateActivityReport(ctx context.Context, edit Edit, path ReportPath, req *domain.ActivityReportRequest) (*domain.EditResponse[domain.ActivityReport], error) {
	var updated domain.ActivityReport
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		if err := checkReportNumber(p, req.ReportNumber); err != nil {
			return nil, err
		}
		return workplan.UpdateActivityReport(p.WorkPlan, path.ComponentID, path.DeliverableID, path.ActivityID, path.ReportID, func(r domain.ActivityReport) (domain.ActivityReport, error) {
			r.ReportNumber = req.ReportNumber
			r.Narrative = req.Narrative
			r.When = strings.TrimSpace(req.When)
			r.Where = strings.TrimSpace(req.Where)
			if r.ReviewStatus == domain.ReviewRejected {
				r.ReviewStatus = domain.ReviewOpen
			}
			updated = r
			return r, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.ActivityReport]{Data: updated, Version: version}, nil
}

func (s *WorkPlanService) DeleteActivityReport(ctx context.Context, edit Edit, path ReportPath) (int, error) {
	return s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.UpdateActivityReports(p.WorkPlan, path.ComponentID, path.DeliverableID, path.ActivityID, func(reports []domain.ActivityReport) ([]domain.ActivityReport, error) {
			return workplan.Remove(reports, path.ReportID)
		})
	})
}

// ReviewActivityReport accepts, rejects or reopens a report
func (s *WorkPlanService) ReviewActivityReport(ctx context.Context, edit Edit, path ReportPath, req *domain.ReviewRequest) (*domain.EditResponse[domain.ActivityReport], error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	if !req.Status.IsValid() {
		return nil, invalidInput("unknown review status %q", req.Status)
	}

	var updated domain.ActivityReport
	version, err := s.editWorkPlan(ctx, edit, func(p *domain.Project) (domain.Components, error) {
		return workplan.UpdateActivityReport(p.WorkPlan, path.ComponentID, path.DeliverableID, path.ActivityID, path.ReportID, func(r domain.ActivityReport) (domain.ActivityReport, error) {
			r.ReviewStatus = req.Status
			r.ReviewNote = req.Note
			updated = r
			return r, nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity report reviewed",
		zap.String("code", edit.Code),
		zap.String("report_id", path.ReportID),
		zap.String("status", string(req.Status)),
	)
	return &domain.EditResponse[domain.ActivityReport]{Data: updated, Version: version}, nil
}
