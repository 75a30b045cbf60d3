package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/mapper"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/status"
	"go.uber.org/zap"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	editor   *projectEditor
	orgRepo  *repository.OrganizationRepository
	callRepo *repository.CallRepository
	clock    Clock
	logger   *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo *repository.ProjectRepository,
	orgRepo *repository.OrganizationRepository,
	callRepo *repository.CallRepository,
	clock Clock,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		editor:   &projectEditor{projectRepo: projectRepo, logger: logger},
		orgRepo:  orgRepo,
		callRepo: callRepo,
		clock:    clock,
		logger:   logger,
	}
}

// Create registers a new project. Code and acronym are checked for uniqueness
// before insert; the unique indexes back the check up.
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	acronym := strings.TrimSpace(req.Acronym)
	if code == "" || acronym == "" {
		return nil, invalidInput("code and acronym are required")
	}
	if err := checkDateRange("contract", req.ContractStart, req.ContractEnd); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.OrganizationID, req.CallID); err != nil {
		return nil, err
	}

	codeTaken, acronymTaken, err := s.editor.projectRepo.ExistsByCodeOrAcronym(ctx, code, acronym)
	if err != nil {
		return nil, fmt.Errorf("failed to check project uniqueness: %w", err)
	}
	if codeTaken {
		return nil, ErrDuplicateCode
	}
	if acronymTaken {
		return nil, ErrDuplicateAcronym
	}

	project := &domain.Project{
		Code:             code,
		Acronym:          acronym,
		Name:             strings.TrimSpace(req.Name),
		OrganizationID:   req.OrganizationID,
		CallID:           req.CallID,
		GeneralObjective: req.GeneralObjective,
		DurationMonths:   req.DurationMonths,
		ContractStart:    strings.TrimSpace(req.ContractStart),
		ContractEnd:      strings.TrimSpace(req.ContractEnd),
	}

	if err := s.editor.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("code", project.Code),
		zap.String("acronym", project.Acronym),
		zap.String("by", auth.CurrentUser(ctx).Email),
	)

	dto := s.toDTO(project)
	return &dto, nil
}

// GetByCode returns the full project document with its derived schedule
func (s *ProjectService) GetByCode(ctx context.Context, code string) (*domain.ProjectDTO, error) {
	project, err := s.editor.view(ctx, code)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(project)
	return &dto, nil
}

// List returns a page of projects visible to the caller
func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters repository.ProjectFilters) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}

	filters.Codes = restrictCodes(filters.Codes, auth.CurrentUser(ctx).VisibleProjects())

	projects, total, err := s.editor.projectRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectSummaryDTO, len(projects))
	for i := range projects {
		dtos[i] = mapper.ToProjectSummaryDTO(&projects[i])
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update edits the descriptive fields of a project
func (s *ProjectService) Update(ctx context.Context, edit Edit, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	acronym := strings.TrimSpace(req.Acronym)
	if acronym == "" {
		return nil, invalidInput("acronym is required")
	}
	if err := checkDateRange("contract", req.ContractStart, req.ContractEnd); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.OrganizationID, req.CallID); err != nil {
		return nil, err
	}

	taken, err := s.editor.projectRepo.AcronymTakenByOther(ctx, acronym, edit.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check acronym: %w", err)
	}
	if taken {
		return nil, ErrDuplicateAcronym
	}

	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		p.Acronym = acronym
		p.Name = strings.TrimSpace(req.Name)
		p.OrganizationID = req.OrganizationID
		p.CallID = req.CallID
		p.GeneralObjective = req.GeneralObjective
		p.DurationMonths = req.DurationMonths
		p.ContractStart = strings.TrimSpace(req.ContractStart)
		p.ContractEnd = strings.TrimSpace(req.ContractEnd)
		return []repository.ProjectField{
			repository.FieldAcronym, repository.FieldName,
			repository.FieldOrganizationID, repository.FieldCallID,
			repository.FieldGeneralObjective, repository.FieldDurationMonths,
			repository.FieldContractStart, repository.FieldContractEnd,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	dto := s.toDTO(project)
	return &dto, nil
}

// SetCancelled sets or clears the cancellation override
func (s *ProjectService) SetCancelled(ctx context.Context, edit Edit, cancelled bool) (*domain.ProjectDTO, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}

	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		if cancelled {
			p.Status = domain.ProjectStatusCancelled
		} else {
			p.Status = ""
		}
		return []repository.ProjectField{repository.FieldStatus}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project cancellation changed",
		zap.String("code", edit.Code),
		zap.Bool("cancelled", cancelled),
	)

	dto := s.toDTO(project)
	return &dto, nil
}

// Status derives the current schedule status of one project
func (s *ProjectService) Status(ctx context.Context, code string) (*domain.ProjectStatusDTO, error) {
	project, err := s.editor.view(ctx, code)
	if err != nil {
		return nil, err
	}
	row := mapper.ToProjectStatusDTO(project, status.Evaluate(project, s.clock.now()))
	if row.Warning != "" {
		s.logger.Warn("project status degraded", zap.String("code", code), zap.String("warning", row.Warning))
	}
	return &row, nil
}

// SetInstallments replaces the disbursement schedule. Rows keep the order
// given; report progress recorded on an installment survives when the same
// number is still present with a report due date.
func (s *ProjectService) SetInstallments(ctx context.Context, edit Edit, req *domain.SetInstallmentsRequest) (*domain.ProjectDTO, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(req.Installments))
	for _, in := range req.Installments {
		if in.Number < 1 {
			return nil, invalidInput("installment number must be positive")
		}
		if seen[in.Number] {
			return nil, invalidInput("installment %d appears twice", in.Number)
		}
		seen[in.Number] = true
		if _, err := domain.ParseDate(in.DueDate); err != nil {
			return nil, invalidInput("installment %d due date: %v", in.Number, err)
		}
		if domain.IsDateSet(in.ReportDueDate) {
			if _, err := domain.ParseDate(in.ReportDueDate); err != nil {
				return nil, invalidInput("installment %d report due date: %v", in.Number, err)
			}
		}
	}

	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		previous := make(map[int]domain.Installment, len(p.Installments))
		for _, inst := range p.Installments {
			previous[inst.Number] = inst
		}

		schedule := make(domain.Installments, 0, len(req.Installments))
		for _, in := range req.Installments {
			inst := domain.Installment{
				Number:        in.Number,
				DueDate:       strings.TrimSpace(in.DueDate),
				Amount:        in.Amount,
				ReportDueDate: strings.TrimSpace(in.ReportDueDate),
			}
			if old, ok := previous[in.Number]; ok && domain.IsDateSet(inst.ReportDueDate) {
				inst.ReportSubmittedDate = old.ReportSubmittedDate
				inst.ReportMonitored = old.ReportMonitored
			}
			schedule = append(schedule, inst)
		}
		p.Installments = schedule
		return []repository.ProjectField{repository.FieldInstallments}, nil
	})
	if err != nil {
		return nil, err
	}

	dto := s.toDTO(project)
	return &dto, nil
}

// SubmitReport records the submission of progress report number n. Without
// an explicit date the current day is used.
func (s *ProjectService) SubmitReport(ctx context.Context, edit Edit, n int, req *domain.SubmitReportRequest) (*domain.ProjectDTO, error) {
	submitted := domain.FormatDate(s.clock.now())
	if req != nil && domain.IsDateSet(req.SubmittedDate) {
		if _, err := domain.ParseDate(req.SubmittedDate); err != nil {
			return nil, invalidInput("submitted date: %v", err)
		}
		submitted = strings.TrimSpace(req.SubmittedDate)
	}

	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		return updateInstallment(p, n, func(inst *domain.Installment) error {
			if !domain.IsDateSet(inst.ReportDueDate) {
				return ErrReportNotDue
			}
			inst.ReportSubmittedDate = submitted
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("report submitted",
		zap.String("code", edit.Code),
		zap.Int("report", n),
		zap.String("date", submitted),
	)

	dto := s.toDTO(project)
	return &dto, nil
}

// MonitorReport closes report n once it was submitted and everything filed
// under it has been accepted.
func (s *ProjectService) MonitorReport(ctx context.Context, edit Edit, n int) (*domain.ProjectDTO, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}

	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		review := status.ReviewReport(p, n)
		return updateInstallment(p, n, func(inst *domain.Installment) error {
			if !domain.IsDateSet(inst.ReportSubmittedDate) {
				return ErrReportNotSubmitted
			}
			if review.Status != domain.ReviewAccepted {
				return ErrReportNotAccepted
			}
			inst.ReportMonitored = true
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("report monitored", zap.String("code", edit.Code), zap.Int("report", n))

	dto := s.toDTO(project)
	return &dto, nil
}

// ReportReview aggregates the review state of report n
func (s *ProjectService) ReportReview(ctx context.Context, code string, n int) (*domain.ReportReviewDTO, error) {
	project, err := s.editor.view(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := checkReportNumber(project, n); err != nil {
		return nil, err
	}
	dto := mapper.ToReportReviewDTO(status.ReviewReport(project, n))
	return &dto, nil
}

func (s *ProjectService) toDTO(project *domain.Project) domain.ProjectDTO {
	dto := mapper.ToProjectDTO(project)
	row := mapper.ToProjectStatusDTO(project, status.Evaluate(project, s.clock.now()))
	dto.Schedule = &row
	return dto
}

func (s *ProjectService) checkRefs(ctx context.Context, orgID, callID *uuid.UUID) error {
	if err := checkCatalogRef(ctx, s.orgRepo, orgID, ErrOrganizationNotFound); err != nil {
		return err
	}
	return checkCatalogRef(ctx, s.callRepo, callID, ErrCallNotFound)
}

// updateInstallment edits installment n in place, keeping schedule order
func updateInstallment(p *domain.Project, n int, fn func(*domain.Installment) error) ([]repository.ProjectField, error) {
	schedule := make(domain.Installments, len(p.Installments))
	copy(schedule, p.Installments)
	for i := range schedule {
		if schedule[i].Number != n {
			continue
		}
		if err := fn(&schedule[i]); err != nil {
			return nil, err
		}
		p.Installments = schedule
		return []repository.ProjectField{repository.FieldInstallments}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInstallmentNotFound, n)
}

// restrictCodes intersects a requested code filter with the caller's
// visibility. nil means unrestricted on either side.
func restrictCodes(requested, visible []string) []string {
	if visible == nil {
		return requested
	}
	if requested == nil {
		return visible
	}
	allowed := make(map[string]bool, len(visible))
	for _, c := range visible {
		allowed[c] = true
	}
	out := []string{}
	for _, c := range requested {
		if allowed[c] {
			out = append(out, c)
		}
	}
	return out
}
