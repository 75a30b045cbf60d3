package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Organizations(t *testing.T) {
	f := newFixture(t)
	svc := f.catalogService()
	ctx := context.Background()

	org, err := svc.CreateOrganization(ctx, &domain.OrganizationRequest{Name: " Instituto Terra ", Email: "Contato@Terra.org"})
	require.NoError(t, err)
	assert.Equal(t, "Instituto Terra", org.Name)
	assert.Equal(t, "contato@terra.org", org.Email)

	_, err = svc.CreateOrganization(ctx, &domain.OrganizationRequest{Name: "Associação Mico-Leão"})
	require.NoError(t, err)

	found, err := svc.ListOrganizations(visitor(), "terra")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, org.ID, found[0].ID)

	updated, err := svc.UpdateOrganization(ctx, org.ID, &domain.OrganizationRequest{Name: "Instituto Terra", Acronym: "IT"})
	require.NoError(t, err)
	assert.Equal(t, "IT", updated.Acronym)

	_, err = svc.GetOrganization(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrOrganizationNotFound)

	_, err = svc.CreateOrganization(staff(), &domain.OrganizationRequest{Name: "x"})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)
}

func TestCatalogService_CallsNeedAFunder(t *testing.T) {
	f := newFixture(t)
	svc := f.catalogService()
	ctx := context.Background()

	_, err := svc.CreateCall(ctx, &domain.CallRequest{Code: "E-01", Name: "Call 1", FunderID: uuid.New(), Year: 2024})
	assert.ErrorIs(t, err, service.ErrFunderNotFound)

	funder, err := svc.CreateFunder(ctx, &domain.FunderRequest{Name: "Critical Ecosystem Partnership Fund", Acronym: "CEPF"})
	require.NoError(t, err)

	call, err := svc.CreateCall(ctx, &domain.CallRequest{Code: "E-01", Name: "Call 1", FunderID: funder.ID, Year: 2024})
	require.NoError(t, err)

	got, err := svc.GetCall(ctx, call.ID)
	require.NoError(t, err)
	assert.Equal(t, funder.ID, got.FunderID)

	_, err = svc.UpdateCall(ctx, call.ID, &domain.CallRequest{Code: "E-01", Name: "Call 1", FunderID: uuid.New(), Year: 2024})
	assert.ErrorIs(t, err, service.ErrFunderNotFound)

	renamed, err := svc.UpdateFunder(ctx, funder.ID, &domain.FunderRequest{Name: "CEPF"})
	require.NoError(t, err)
	assert.Equal(t, "CEPF", renamed.Name)
}

func TestCatalogService_Indicators(t *testing.T) {
	f := newFixture(t)
	svc := f.catalogService()
	ctx := context.Background()

	indicator, err := svc.CreateIndicator(ctx, &domain.IndicatorRequest{Code: "2.1", Name: "Hectares protected", Unit: "ha"})
	require.NoError(t, err)

	updated, err := svc.UpdateIndicator(ctx, indicator.ID, &domain.IndicatorRequest{Code: "2.1", Name: "Hectares newly protected", Unit: "ha"})
	require.NoError(t, err)
	assert.Equal(t, "Hectares newly protected", updated.Name)

	list, err := svc.ListIndicators(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.UpdateIndicator(ctx, uuid.New(), &domain.IndicatorRequest{Code: "x", Name: "x"})
	assert.ErrorIs(t, err, service.ErrIndicatorNotFound)
}
