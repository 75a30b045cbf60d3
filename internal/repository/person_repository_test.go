package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPersonRepository_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPersonRepository(db)
	ctx := context.Background()

	p := &domain.Person{
		Name:   "Ana Souza",
		Email:  "ana@example.org",
		Roles:  domain.StringList{string(domain.RoleBeneficiary)},
		Status: domain.PersonStatusInvited,
	}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByEmail(ctx, "ANA@example.org")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, got.HasRole(domain.RoleBeneficiary))
	assert.NotNil(t, got.ProjectCodes)

	require.NoError(t, repo.SetProjectCodes(ctx, p.ID, domain.StringList{"CEPF-1", "CEPF-2"}))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"CEPF-1", "CEPF-2"}, got.ProjectCodes)

	got.Phone = "+55 71 0000-0000"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "+55 71 0000-0000", got.Phone)

	assert.ErrorIs(t, repo.SetProjectCodes(ctx, uuid.New(), nil), gorm.ErrRecordNotFound)
}

func TestPersonRepository_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPersonRepository(db)
	ctx := context.Background()

	testutil.CreateTestPerson(t, db, "admin@example.org", []domain.Role{domain.RoleAdministrator})
	testutil.CreateTestPerson(t, db, "bene1@example.org", []domain.Role{domain.RoleBeneficiary}, "CEPF-1")
	testutil.CreateTestPerson(t, db, "bene2@example.org", []domain.Role{domain.RoleBeneficiary}, "CEPF-2")

	all, err := repo.List(ctx, repository.PersonFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	role := domain.RoleBeneficiary
	beneficiaries, err := repo.List(ctx, repository.PersonFilters{Role: &role})
	require.NoError(t, err)
	assert.Len(t, beneficiaries, 2)

	members, err := repo.List(ctx, repository.PersonFilters{ProjectCode: "CEPF-2"})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "bene2@example.org", members[0].Email)

	found, err := repo.List(ctx, repository.PersonFilters{Search: "ADMIN"})
	require.NoError(t, err)
	require.Len(t, found, 1)
}
