package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubBoard struct {
	board *domain.DashboardDTO
	err   error
}

func (s stubBoard) StatusBoard(context.Context, service.DashboardOptions) (*domain.DashboardDTO, error) {
	return s.board, s.err
}

func TestStatusDigestJob_LogsLateProjects(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	offset := -12
	board := &domain.DashboardDTO{
		Today: "01/03/2024",
		Rows: []domain.ProjectStatusDTO{
			{Code: "CEPF-1", Acronym: "MATA", Status: status.Late, NextEventLabel: "Report 1", NextEventDate: "18/02/2024", DayOffset: &offset},
			{Code: "CEPF-2", Acronym: "CERR", Status: status.OnTime},
			{Code: "CEPF-3", Acronym: "BAD", Status: status.DateError, Warning: "date error"},
		},
		Counts:   map[string]int{status.Late: 1, status.OnTime: 1, status.DateError: 1},
		Warnings: 1,
	}

	NewStatusDigestJob(stubBoard{board: board}, zap.New(core), time.Second).Run()

	late := logs.FilterMessage("project late").All()
	require.Len(t, late, 1)
	fields := late[0].ContextMap()
	assert.Equal(t, "CEPF-1", fields["code"])
	assert.EqualValues(t, 12, fields["days_late"])

	summary := logs.FilterMessage("status digest completed").All()
	require.Len(t, summary, 1)
	fields = summary[0].ContextMap()
	assert.EqualValues(t, 3, fields["projects"])
	assert.EqualValues(t, 1, fields["late"])
	assert.EqualValues(t, 1, fields["degraded"])
}

func TestStatusDigestJob_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	NewStatusDigestJob(stubBoard{err: errors.New("db down")}, zap.New(core), time.Second).Run()

	assert.Equal(t, 1, logs.FilterMessage("status digest failed").Len())
	assert.Equal(t, 0, logs.FilterMessage("status digest completed").Len())
}

func TestScheduler_AddAndRemoveJobs(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, RegisterStatusDigestJob(s, stubBoard{}, zap.NewNop(), "0 0 7 * * *", time.Second))
	assert.Error(t, s.AddJob(StatusDigestJobName, "@every 1h", func() {}))
	assert.Error(t, s.AddJob("broken", "not a cron", func() {}))
	require.NoError(t, s.AddJob("another", "@every 1h", func() {}))

	assert.Equal(t, []string{"another", StatusDigestJobName}, s.JobNames())

	_, ok := s.NextRun(StatusDigestJobName)
	assert.True(t, ok)
	_, ok = s.NextRun("missing")
	assert.False(t, ok)

	require.NoError(t, s.RemoveJob("another"))
	assert.Error(t, s.RemoveJob("another"))
	assert.Equal(t, []string{StatusDigestJobName}, s.JobNames())
}
