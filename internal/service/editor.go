package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/workplan"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Clock returns the current instant. Services take one so that schedule
// derivation can be pinned in tests and in the CLI.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Edit addresses a write to one project. ExpectedVersion, when set, turns the
// write into a compare-and-swap on the stored version.
type Edit struct {
	Code            string
	ExpectedVersion *int
}

// EditOf is an unconditional edit of the project with the given code
func EditOf(code string) Edit {
	return Edit{Code: code}
}

// mutation changes p in memory and names the columns it touched
type mutation func(p *domain.Project) ([]repository.ProjectField, error)

// projectEditor runs load, access check, mutate and replace for every
// project-scoped write.
type projectEditor struct {
	projectRepo *repository.ProjectRepository
	logger      *zap.Logger
}

func (e *projectEditor) load(ctx context.Context, code string) (*domain.Project, error) {
	project, err := e.projectRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

// view loads a project the caller may read
func (e *projectEditor) view(ctx context.Context, code string) (*domain.Project, error) {
	project, err := e.load(ctx, code)
	if err != nil {
		return nil, err
	}
	if !auth.CurrentUser(ctx).CanView(code) {
		return nil, ErrPermissionDenied
	}
	return project, nil
}

// apply runs one mutation and persists the touched columns as a single
// replace. The returned project reflects the write, including its new version.
func (e *projectEditor) apply(ctx context.Context, edit Edit, fn mutation) (*domain.Project, error) {
	user := auth.CurrentUser(ctx)
	project, err := e.load(ctx, edit.Code)
	if err != nil {
		return nil, err
	}
	if !user.CanEdit(edit.Code) {
		return nil, ErrPermissionDenied
	}
	if edit.ExpectedVersion != nil && *edit.ExpectedVersion != project.Version {
		return nil, ErrVersionConflict
	}

	fields, err := fn(project)
	if err != nil {
		return nil, mutationError(err)
	}
	if len(fields) == 0 {
		return project, nil
	}

	values := make(map[repository.ProjectField]interface{}, len(fields))
	for _, f := range fields {
		values[f] = fieldValue(project, f)
	}

	version, err := e.projectRepo.ReplaceFields(ctx, edit.Code, values, edit.ExpectedVersion)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrProjectNotFound
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	project.Version = version

	e.logger.Debug("project edited",
		zap.String("code", edit.Code),
		zap.Int("version", version),
		zap.Any("fields", fields),
		zap.String("by", user.Email),
	)
	return project, nil
}

// requireStaff rejects callers that do not manage every project
func requireStaff(ctx context.Context) error {
	if !auth.CurrentUser(ctx).IsStaff() {
		return ErrPermissionDenied
	}
	return nil
}

func requireAdmin(ctx context.Context) error {
	if !auth.CurrentUser(ctx).IsAdmin() {
		return ErrPermissionDenied
	}
	return nil
}

func mutationError(err error) error {
	switch {
	case errors.Is(err, workplan.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNodeNotFound, err)
	case errors.Is(err, workplan.ErrDuplicateID):
		return fmt.Errorf("%w: %w", ErrDuplicateNode, err)
	}
	return err
}

func fieldValue(p *domain.Project, f repository.ProjectField) interface{} {
	switch f {
	case repository.FieldAcronym:
		return p.Acronym
	case repository.FieldName:
		return p.Name
	case repository.FieldOrganizationID:
		return p.OrganizationID
	case repository.FieldCallID:
		return p.CallID
	case repository.FieldGeneralObjective:
		return p.GeneralObjective
	case repository.FieldDurationMonths:
		return p.DurationMonths
	case repository.FieldContractStart:
		return p.ContractStart
	case repository.FieldContractEnd:
		return p.ContractEnd
	case repository.FieldStatus:
		return p.Status
	case repository.FieldInstallments:
		return p.Installments
	case repository.FieldWorkPlan:
		return p.WorkPlan
	case repository.FieldBudgetLines:
		return p.BudgetLines
	case repository.FieldIndicators:
		return p.Indicators
	case repository.FieldImpactsShortTerm:
		return p.ImpactsShortTerm
	case repository.FieldImpactsLongTerm:
		return p.ImpactsLongTerm
	case repository.FieldLocations:
		return p.Locations
	case repository.FieldContracts:
		return p.Contracts
	}
	panic(fmt.Sprintf("unknown project field %q", f))
}

// hasInstallment reports whether report number n pairs with an installment
func hasInstallment(p *domain.Project, n int) bool {
	for _, inst := range p.Installments {
		if inst.Number == n {
			return true
		}
	}
	return false
}

func checkReportNumber(p *domain.Project, n int) error {
	if !hasInstallment(p, n) {
		return fmt.Errorf("%w: %d", ErrReportNumberUnknown, n)
	}
	return nil
}

// checkDateRange validates optional DD/MM/YYYY bounds
func checkDateRange(field, start, end string) error {
	var from, to time.Time
	var err error
	if domain.IsDateSet(start) {
		if from, err = domain.ParseDate(start); err != nil {
			return invalidInput("%s start: %v", field, err)
		}
	}
	if domain.IsDateSet(end) {
		if to, err = domain.ParseDate(end); err != nil {
			return invalidInput("%s end: %v", field, err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return invalidInput("%s ends before it starts", field)
	}
	return nil
}
