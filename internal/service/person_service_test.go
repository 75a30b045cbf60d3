package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/auth"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personRequest(email string, roles ...domain.Role) *domain.PersonRequest {
	return &domain.PersonRequest{Name: "Ana Souza", Email: email, Roles: roles}
}

func TestPersonService_Create(t *testing.T) {
	f := newFixture(t)
	svc := f.personService()
	ctx := context.Background()

	person, err := svc.Create(ctx, personRequest(" Ana@Example.org ", domain.RoleBeneficiary, domain.RoleBeneficiary))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.org", person.Email)
	assert.Equal(t, domain.PersonStatusInvited, person.Status)
	assert.Equal(t, domain.StringList{"beneficiary"}, person.Roles)
	assert.Empty(t, person.ProjectCodes)

	_, err = svc.Create(ctx, personRequest("ANA@example.org", domain.RoleStaff))
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)

	_, err = svc.Create(ctx, personRequest("bia@example.org"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Create(ctx, personRequest("bia@example.org", "owner"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	missing := uuid.New()
	req := personRequest("bia@example.org", domain.RoleStaff)
	req.OrganizationID = &missing
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrOrganizationNotFound)

	_, err = svc.Create(staff(), personRequest("caio@example.org", domain.RoleStaff))
	assert.ErrorIs(t, err, service.ErrPermissionDenied, "only administrators manage people")
}

func TestPersonService_GetByID(t *testing.T) {
	f := newFixture(t)
	svc := f.personService()
	person := testutil.CreateTestPerson(t, f.db, "ana@example.org", []domain.Role{domain.RoleBeneficiary})

	self := auth.WithUserContext(context.Background(), auth.FromPerson(person))
	got, err := svc.GetByID(self, person.ID)
	require.NoError(t, err)
	assert.Equal(t, person.Email, got.Email)

	_, err = svc.GetByID(beneficiaryOf(), person.ID)
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	_, err = svc.GetByID(staff(), uuid.New())
	assert.ErrorIs(t, err, service.ErrPersonNotFound)
}

func TestPersonService_UpdateKeepsEmailUnique(t *testing.T) {
	f := newFixture(t)
	svc := f.personService()
	ctx := context.Background()
	ana := testutil.CreateTestPerson(t, f.db, "ana@example.org", []domain.Role{domain.RoleBeneficiary})
	testutil.CreateTestPerson(t, f.db, "bia@example.org", []domain.Role{domain.RoleStaff})

	req := personRequest("ana@example.org", domain.RoleBeneficiary, domain.RoleVisitor)
	req.Status = domain.PersonStatusInactive
	updated, err := svc.Update(ctx, ana.ID, req)
	require.NoError(t, err)
	assert.Equal(t, domain.PersonStatusInactive, updated.Status)
	assert.True(t, updated.HasRole(domain.RoleVisitor))

	_, err = svc.Update(ctx, ana.ID, personRequest("bia@example.org", domain.RoleBeneficiary))
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
}

func TestPersonService_ProjectMembership(t *testing.T) {
	f := newFixture(t)
	svc := f.personService()
	ctx := context.Background()
	f.scheduledProject(t, "CEPF-1")
	ana := testutil.CreateTestPerson(t, f.db, "ana@example.org", []domain.Role{domain.RoleBeneficiary})

	_, err := svc.AssignProject(ctx, ana.ID, "CEPF-404")
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	person, err := svc.AssignProject(ctx, ana.ID, "CEPF-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"CEPF-1"}, person.ProjectCodes)

	person, err = svc.AssignProject(ctx, ana.ID, "CEPF-1")
	require.NoError(t, err)
	assert.Len(t, person.ProjectCodes, 1, "assignment is idempotent")

	members, err := svc.List(ctx, repository.PersonFilters{ProjectCode: "CEPF-1"})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, ana.ID, members[0].ID)

	_, err = svc.AssignProject(beneficiaryOf("CEPF-1"), ana.ID, "CEPF-1")
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	person, err = svc.UnassignProject(ctx, ana.ID, "CEPF-1")
	require.NoError(t, err)
	assert.Empty(t, person.ProjectCodes)

	_, err = svc.UnassignProject(ctx, ana.ID, "CEPF-1")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPersonService_ListFilters(t *testing.T) {
	f := newFixture(t)
	svc := f.personService()
	testutil.CreateTestPerson(t, f.db, "ana@example.org", []domain.Role{domain.RoleBeneficiary})
	testutil.CreateTestPerson(t, f.db, "bia@example.org", []domain.Role{domain.RoleStaff})

	role := domain.RoleStaff
	people, err := svc.List(staff(), repository.PersonFilters{Role: &role})
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "bia@example.org", people[0].Email)

	people, err = svc.List(staff(), repository.PersonFilters{Search: "ANA"})
	require.NoError(t, err)
	assert.Len(t, people, 1)

	_, err = svc.List(visitor(), repository.PersonFilters{})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}
