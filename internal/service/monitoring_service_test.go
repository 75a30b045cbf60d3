package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitoringService_UpsertIndicator(t *testing.T) {
	f := newFixture(t)
	svc := f.monitoringService()
	ctx := context.Background()
	f.scheduledProject(t, "CEPF-1")
	edit := service.EditOf("CEPF-1")

	indicator := &domain.Indicator{Code: "1.1", Name: "Hectares under improved management", Unit: "ha"}
	require.NoError(t, f.indicators.Create(ctx, indicator))
	id := indicator.ID.String()

	res, err := svc.UpsertIndicator(ctx, edit, id, &domain.ProjectIndicatorRequest{ContributionValue: 120})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Version)

	_, err = svc.UpsertIndicator(ctx, edit, id, &domain.ProjectIndicatorRequest{ContributionValue: 150, FinalResult: "150 ha"})
	require.NoError(t, err)

	stored := f.reload(t, "CEPF-1")
	require.Len(t, stored.Indicators, 1, "upsert replaces the existing contribution")
	assert.Equal(t, 150.0, stored.Indicators[0].ContributionValue)

	_, err = svc.UpsertIndicator(ctx, edit, uuid.NewString(), &domain.ProjectIndicatorRequest{})
	assert.ErrorIs(t, err, service.ErrIndicatorNotFound)

	_, err = svc.UpsertIndicator(ctx, edit, "not-an-id", &domain.ProjectIndicatorRequest{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.DeleteIndicator(ctx, edit, id)
	require.NoError(t, err)
	assert.Empty(t, f.reload(t, "CEPF-1").Indicators)

	_, err = svc.DeleteIndicator(ctx, edit, id)
	assert.ErrorIs(t, err, service.ErrNodeNotFound)
}

func TestMonitoringService_Impacts(t *testing.T) {
	f := newFixture(t)
	svc := f.monitoringService()
	ctx := context.Background()
	f.scheduledProject(t, "CEPF-1")
	edit := service.EditOf("CEPF-1")

	short, err := svc.AddImpact(ctx, edit, domain.ImpactShortTerm, &domain.ImpactRequest{Text: "  Nursery running "})
	require.NoError(t, err)
	assert.Equal(t, "Nursery running", short.Data.Text)

	_, err = svc.AddImpact(ctx, edit, domain.ImpactLongTerm, &domain.ImpactRequest{Text: "Corridor restored"})
	require.NoError(t, err)

	_, err = svc.AddImpact(ctx, edit, "medium", &domain.ImpactRequest{Text: "x"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.UpdateImpact(ctx, edit, domain.ImpactShortTerm, short.Data.ID, &domain.ImpactRequest{Text: "Two nurseries running"})
	require.NoError(t, err)

	_, err = svc.UpdateImpact(ctx, edit, domain.ImpactLongTerm, short.Data.ID, &domain.ImpactRequest{Text: "x"})
	assert.ErrorIs(t, err, service.ErrNodeNotFound, "ids are looked up in the selected term only")

	list, err := svc.Impacts(visitor(), "CEPF-1", domain.ImpactShortTerm)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Two nurseries running", list[0].Text)

	_, err = svc.DeleteImpact(ctx, edit, domain.ImpactShortTerm, short.Data.ID)
	require.NoError(t, err)

	list, err = svc.Impacts(ctx, "CEPF-1", domain.ImpactShortTerm)
	require.NoError(t, err)
	assert.Equal(t, []domain.Impact{}, list)

	long, err := svc.Impacts(ctx, "CEPF-1", domain.ImpactLongTerm)
	require.NoError(t, err)
	assert.Len(t, long, 1)
}

func TestMonitoringService_SetLocationsKeepsMapFiles(t *testing.T) {
	f := newFixture(t)
	svc := f.monitoringService()
	ctx := context.Background()
	f.scheduledProject(t, "CEPF-1")

	mapFile := domain.Attachment{FileID: "f1", Name: "area.kml"}
	_, err := svc.SetLocations(ctx, service.EditOf("CEPF-1"), domain.Locations{MapFiles: []domain.Attachment{mapFile}})
	require.NoError(t, err)
	assert.Empty(t, f.reload(t, "CEPF-1").Locations.MapFiles, "map files only arrive through uploads")

	_, err = f.projects.ReplaceFields(ctx, "CEPF-1", map[repository.ProjectField]interface{}{
		repository.FieldLocations: domain.Locations{MapFiles: []domain.Attachment{mapFile}},
	}, nil)
	require.NoError(t, err)

	lat := -20.3
	res, err := svc.SetLocations(ctx, service.EditOf("CEPF-1"), domain.Locations{
		States:     []domain.LocationRef{{Ref: "ES", Label: "Espírito Santo"}},
		Localities: []domain.Locality{{Label: "Santa Teresa", Latitude: &lat}},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Attachment{mapFile}, res.Data.MapFiles)
	assert.Equal(t, "Espírito Santo", res.Data.States[0].Label)

	stored := f.reload(t, "CEPF-1")
	assert.Len(t, stored.Locations.MapFiles, 1)
	assert.Len(t, stored.Locations.Localities, 1)
}
