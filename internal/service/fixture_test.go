package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	projects   *repository.ProjectRepository
	people     *repository.PersonRepository
	orgs       *repository.OrganizationRepository
	funders    *repository.FunderRepository
	calls      *repository.CallRepository
	indicators *repository.IndicatorRepository
	today      time.Time
}

func newFixture(t *testing.T) *fixture {
	db := testutil.SetupTestDB(t)
	return &fixture{
		db:         db,
		projects:   repository.NewProjectRepository(db),
		people:     repository.NewPersonRepository(db),
		orgs:       repository.NewOrganizationRepository(db),
		funders:    repository.NewFunderRepository(db),
		calls:      repository.NewCallRepository(db),
		indicators: repository.NewIndicatorRepository(db),
		today:      time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC),
	}
}

func (f *fixture) clock() service.Clock {
	return func() time.Time { return f.today }
}

func (f *fixture) projectService() *service.ProjectService {
	return service.NewProjectService(f.projects, f.orgs, f.calls, f.clock(), testutil.Logger())
}

func (f *fixture) workPlanService() *service.WorkPlanService {
	return service.NewWorkPlanService(f.projects, testutil.Logger())
}

func (f *fixture) budgetService() *service.BudgetService {
	return service.NewBudgetService(f.projects, testutil.Logger())
}

func (f *fixture) monitoringService() *service.MonitoringService {
	return service.NewMonitoringService(f.projects, f.indicators, testutil.Logger())
}

func (f *fixture) dashboardService() *service.DashboardService {
	return service.NewDashboardService(f.projects, f.clock(), testutil.Logger())
}

func (f *fixture) personService() *service.PersonService {
	return service.NewPersonService(f.people, f.projects, f.orgs, testutil.Logger())
}

func (f *fixture) catalogService() *service.CatalogService {
	return service.NewCatalogService(f.orgs, f.funders, f.calls, f.indicators, testutil.Logger())
}

// reload reads a project back from the store
func (f *fixture) reload(t *testing.T, code string) *domain.Project {
	t.Helper()
	p, err := f.projects.GetByCode(context.Background(), code)
	require.NoError(t, err)
	return p
}

// scheduledProject has two installments with reports and a one-component
// work plan with two deliverables.
func (f *fixture) scheduledProject(t *testing.T, code string) *domain.Project {
	return testutil.CreateTestProject(t, f.db, &domain.Project{
		Code:        code,
		ContractEnd: "31/12/2025",
		Installments: domain.Installments{
			{Number: 1, DueDate: "01/01/2024", Amount: 10000, ReportDueDate: "10/03/2024"},
			{Number: 2, DueDate: "01/07/2024", Amount: 10000, ReportDueDate: "10/09/2024"},
		},
		WorkPlan: domain.Components{
			{ID: "c1", Name: "Restoration", Deliverables: []domain.Deliverable{
				{ID: "d1", Name: "Nursery", Activities: []domain.Activity{
					{ID: "a1", Name: "Collect seeds"},
					{ID: "a2", Name: "Plant seedlings"},
				}},
				{ID: "d2", Name: "Training", DonorIndicators: []string{"IND-7"}},
			}},
		},
		BudgetLines: domain.BudgetLines{
			{ID: "l1", Category: "Services", ExpenseName: "Consulting", PlannedAmount: 5000},
			{ID: "l2", Category: "Travel", ExpenseName: "Field trips", PlannedAmount: 2000},
		},
	})
}

func beneficiaryOf(codes ...string) context.Context {
	return testutil.ContextAs([]domain.Role{domain.RoleBeneficiary}, codes...)
}

func visitor() context.Context {
	return testutil.ContextAs([]domain.Role{domain.RoleVisitor})
}

func staff() context.Context {
	return testutil.ContextAs([]domain.Role{domain.RoleStaff})
}

func intPtr(i int) *int { return &i }
