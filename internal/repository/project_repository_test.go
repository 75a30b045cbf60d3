package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()

	p := &domain.Project{
		Code:        "CEPF-100",
		Acronym:     "MATA",
		Name:        "Atlantic forest restoration",
		ContractEnd: "31/12/2025",
		Installments: domain.Installments{
			{Number: 1, DueDate: "01/02/2024", Amount: 1000, ReportDueDate: "01/06/2024"},
		},
		WorkPlan: domain.Components{{ID: "c1", Name: "Restoration", Deliverables: []domain.Deliverable{
			{ID: "d1", Name: "Nursery", DonorIndicators: []string{"IND-1"}},
		}}},
		Locations: domain.Locations{States: []domain.LocationRef{{Ref: "BA", Label: "Bahia"}}},
	}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, 1, p.Version)

	got, err := repo.GetByCode(ctx, "CEPF-100")
	require.NoError(t, err)
	assert.Equal(t, "MATA", got.Acronym)
	assert.Equal(t, p.Installments, got.Installments)
	assert.Equal(t, p.WorkPlan, got.WorkPlan)
	assert.Equal(t, p.Locations, got.Locations)
	assert.Empty(t, got.BudgetLines)

	_, err = repo.GetByCode(ctx, "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProjectRepository_ExistsByCodeOrAcronym(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, &domain.Project{Code: "CEPF-1", Acronym: "ABC"})

	codeTaken, acronymTaken, err := repo.ExistsByCodeOrAcronym(ctx, "CEPF-1", "XYZ")
	require.NoError(t, err)
	assert.True(t, codeTaken)
	assert.False(t, acronymTaken)

	codeTaken, acronymTaken, err = repo.ExistsByCodeOrAcronym(ctx, "CEPF-2", "abc")
	require.NoError(t, err)
	assert.False(t, codeTaken)
	assert.True(t, acronymTaken)

	taken, err := repo.AcronymTakenByOther(ctx, "ABC", "CEPF-1")
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.AcronymTakenByOther(ctx, "ABC", "CEPF-2")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestProjectRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()
	org := uuid.New()

	testutil.CreateTestProject(t, db, &domain.Project{Code: "CEPF-3", Acronym: "C", Name: "Caatinga"})
	testutil.CreateTestProject(t, db, &domain.Project{Code: "CEPF-1", Acronym: "A", Name: "Amazon", OrganizationID: &org})
	testutil.CreateTestProject(t, db, &domain.Project{Code: "CEPF-2", Acronym: "B", Name: "Bahia coast", OrganizationID: &org})

	projects, total, err := repo.List(ctx, 1, 2, repository.ProjectFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, projects, 2)
	assert.Equal(t, "CEPF-1", projects[0].Code)

	projects, total, err = repo.List(ctx, 1, 10, repository.ProjectFilters{OrganizationID: &org, Search: "bahia"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "CEPF-2", projects[0].Code)

	all, err := repo.ListAll(ctx, repository.ProjectFilters{Codes: []string{"CEPF-3", "CEPF-2"}})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "CEPF-2", all[0].Code)

	none, err := repo.ListAll(ctx, repository.ProjectFilters{Codes: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProjectRepository_ReplaceFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, &domain.Project{
		Code:        "CEPF-9",
		ContractEnd: "31/12/2025",
		BudgetLines: domain.BudgetLines{{ID: "l1", Category: "Staff"}},
	})

	components := domain.Components{{ID: "c1", Name: "New component"}}
	version, err := repo.ReplaceFields(ctx, "CEPF-9", map[repository.ProjectField]interface{}{
		repository.FieldWorkPlan: components,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	got, err := repo.GetByCode(ctx, "CEPF-9")
	require.NoError(t, err)
	assert.Equal(t, components, got.WorkPlan)
	assert.Equal(t, "31/12/2025", got.ContractEnd)
	require.Len(t, got.BudgetLines, 1)
	assert.Equal(t, "Staff", got.BudgetLines[0].Category)
	assert.Equal(t, 2, got.Version)
}

func TestProjectRepository_ReplaceFieldsCompareAndSwap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()
	testutil.CreateTestProject(t, db, &domain.Project{Code: "CEPF-7"})

	stale := 1
	version, err := repo.ReplaceFields(ctx, "CEPF-7", map[repository.ProjectField]interface{}{
		repository.FieldName: "First writer",
	}, &stale)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	_, err = repo.ReplaceFields(ctx, "CEPF-7", map[repository.ProjectField]interface{}{
		repository.FieldName: "Second writer",
	}, &stale)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	got, err := repo.GetByCode(ctx, "CEPF-7")
	require.NoError(t, err)
	assert.Equal(t, "First writer", got.Name)
	assert.Equal(t, 2, got.Version)

	_, err = repo.ReplaceFields(ctx, "missing", map[repository.ProjectField]interface{}{
		repository.FieldName: "x",
	}, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProjectRepository_ListSorted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewProjectRepository(db)
	ctx := context.Background()

	testutil.CreateTestProject(t, db, &domain.Project{Code: "CEPF-1", Acronym: "ZETA", Name: "Cerrado"})
	testutil.CreateTestProject(t, db, &domain.Project{Code: "CEPF-2", Acronym: "ALFA", Name: "Amazon"})

	projects, _, err := repo.List(ctx, 1, 10, repository.ProjectFilters{
		Sort: repository.SortConfig{Field: "acronym", Order: repository.SortOrderAsc},
	})
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "CEPF-2", projects[0].Code)

	projects, _, err = repo.List(ctx, 1, 10, repository.ProjectFilters{
		Sort: repository.SortConfig{Field: "code", Order: repository.SortOrderDesc},
	})
	require.NoError(t, err)
	assert.Equal(t, "CEPF-2", projects[0].Code)

	// unknown fields fall back to code order
	projects, _, err = repo.List(ctx, 1, 10, repository.ProjectFilters{
		Sort: repository.SortConfig{Field: "code; DROP TABLE projects"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CEPF-1", projects[0].Code)
}

func TestBuildOrderClause(t *testing.T) {
	fields := map[string]string{"name": "name", "updatedAt": "updated_at"}

	assert.Equal(t, "updated_at DESC", repository.BuildOrderClause(
		repository.SortConfig{Field: "updatedAt", Order: repository.ParseSortOrder("DESC")}, fields, "code"))
	assert.Equal(t, "code ASC", repository.BuildOrderClause(
		repository.SortConfig{Field: "password", Order: repository.ParseSortOrder("sideways")}, fields, "code"))
}
