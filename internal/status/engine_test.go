package status_test

import (
	"testing"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func twoReportProject() *domain.Project {
	return &domain.Project{
		Code:        "CEPF-001",
		ContractEnd: "31/12/2025",
		Installments: domain.Installments{
			{Number: 1, DueDate: "01/12/2023", ReportDueDate: "10/01/2024", ReportSubmittedDate: "09/01/2024"},
			{Number: 2, DueDate: "01/01/2024", ReportDueDate: "10/02/2024"},
		},
	}
}

func TestEvaluate_PendingReportOnTime(t *testing.T) {
	res := status.Evaluate(twoReportProject(), day(t, "15/01/2024"))

	assert.Equal(t, status.OnTime, res.Status)
	assert.Equal(t, "Report 2", res.NextEventLabel)
	require.NotNil(t, res.NextEventDate)
	assert.Equal(t, "10/02/2024", domain.FormatDate(*res.NextEventDate))
	require.NotNil(t, res.DayOffset)
	assert.Equal(t, 26, *res.DayOffset)
	assert.False(t, res.HasWarning())
}

func TestEvaluate_PendingReportLate(t *testing.T) {
	res := status.Evaluate(twoReportProject(), day(t, "15/02/2024"))

	assert.Equal(t, status.Late, res.Status)
	assert.Equal(t, "Report 2", res.NextEventLabel)
	require.NotNil(t, res.DayOffset)
	assert.Equal(t, -5, *res.DayOffset)
}

func TestEvaluate_ZeroOffsetIsOnTime(t *testing.T) {
	p := &domain.Project{
		Code: "CEPF-002",
		Installments: domain.Installments{
			{Number: 1, ReportDueDate: "20/03/2024"},
		},
	}

	res := status.Evaluate(p, day(t, "20/03/2024"))

	assert.Equal(t, status.OnTime, res.Status)
	require.NotNil(t, res.DayOffset)
	assert.Equal(t, 0, *res.DayOffset)
}

func TestEvaluate_IgnoresTimeOfDay(t *testing.T) {
	p := &domain.Project{
		Code:         "CEPF-003",
		Installments: domain.Installments{{Number: 1, ReportDueDate: "20/03/2024"}},
	}
	lateEvening := time.Date(2024, time.March, 19, 23, 59, 0, 0, time.UTC)

	res := status.Evaluate(p, lateEvening)

	require.NotNil(t, res.DayOffset)
	assert.Equal(t, 1, *res.DayOffset)
}

func TestEvaluate_DocumentOrderWins(t *testing.T) {
	p := &domain.Project{
		Code: "CEPF-004",
		Installments: domain.Installments{
			{Number: 1, ReportDueDate: "10/06/2024"},
			{Number: 2, ReportDueDate: "10/03/2024"},
		},
	}

	res := status.Evaluate(p, day(t, "01/03/2024"))

	assert.Equal(t, "Report 1", res.NextEventLabel)
	assert.Equal(t, "10/06/2024", domain.FormatDate(*res.NextEventDate))
	assert.Equal(t, status.OnTime, res.Status)
}

func TestEvaluate_CancelledOverride(t *testing.T) {
	tests := []struct {
		name    string
		project *domain.Project
	}{
		{
			name:    "no schedule",
			project: &domain.Project{Code: "X", Status: domain.ProjectStatusCancelled},
		},
		{
			name: "late schedule",
			project: &domain.Project{
				Code:         "X",
				Status:       domain.ProjectStatusCancelled,
				Installments: domain.Installments{{Number: 1, ReportDueDate: "01/01/2020"}},
			},
		},
		{
			name: "malformed dates",
			project: &domain.Project{
				Code:         "X",
				Status:       domain.ProjectStatusCancelled,
				ContractEnd:  "soon",
				Installments: domain.Installments{{Number: 1, ReportDueDate: "2020-01-01"}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := status.Evaluate(tc.project, day(t, "15/01/2024"))
			assert.Equal(t, status.Result{Status: status.Cancelled}, res)
		})
	}
}

func TestEvaluate_NoSchedule(t *testing.T) {
	var res status.Result
	require.NotPanics(t, func() {
		res = status.Evaluate(&domain.Project{Code: "CEPF-005"}, day(t, "15/01/2024"))
	})

	assert.Equal(t, status.NoSchedule, res.Status)
	assert.True(t, res.HasWarning())
	assert.Contains(t, res.Warning, "CEPF-005")
	assert.Nil(t, res.NextEventDate)
	assert.Nil(t, res.DayOffset)
	assert.Empty(t, res.NextEventLabel)
}

func TestEvaluate_CompletedWhenLastReportMonitored(t *testing.T) {
	p := &domain.Project{
		Code: "CEPF-006",
		Installments: domain.Installments{
			{Number: 1, ReportDueDate: "10/01/2024", ReportSubmittedDate: "09/01/2024", ReportMonitored: true},
			{Number: 2, ReportDueDate: "10/02/2024", ReportSubmittedDate: "08/02/2024", ReportMonitored: true},
		},
	}

	res := status.Evaluate(p, day(t, "15/06/2024"))

	assert.Equal(t, status.Completed, res.Status)
	require.NotNil(t, res.DayOffset)
	assert.Equal(t, 0, *res.DayOffset)
	assert.Nil(t, res.NextEventDate)
	assert.Empty(t, res.NextEventLabel)
}

func TestEvaluate_FallsBackToContractEnd(t *testing.T) {
	p := &domain.Project{
		Code:        "CEPF-007",
		ContractEnd: "30/06/2024",
		Installments: domain.Installments{
			{Number: 1, ReportDueDate: "10/01/2024", ReportSubmittedDate: "09/01/2024"},
			{Number: 2, DueDate: "01/03/2024"},
		},
	}

	onTime := status.Evaluate(p, day(t, "20/06/2024"))
	assert.Equal(t, status.OnTime, onTime.Status)
	assert.Equal(t, status.ContractEndLabel, onTime.NextEventLabel)
	assert.Equal(t, 10, *onTime.DayOffset)

	late := status.Evaluate(p, day(t, "02/07/2024"))
	assert.Equal(t, status.Late, late.Status)
	assert.Equal(t, -2, *late.DayOffset)
}

func TestEvaluate_DateErrors(t *testing.T) {
	tests := []struct {
		name    string
		project *domain.Project
	}{
		{
			name: "missing contract end",
			project: &domain.Project{
				Code:         "CEPF-008",
				Installments: domain.Installments{{Number: 1, DueDate: "01/01/2024"}},
			},
		},
		{
			name: "unparsable contract end",
			project: &domain.Project{
				Code:         "CEPF-008",
				ContractEnd:  "2024-12-31",
				Installments: domain.Installments{{Number: 1, DueDate: "01/01/2024"}},
			},
		},
		{
			name: "unparsable report due date",
			project: &domain.Project{
				Code:         "CEPF-008",
				ContractEnd:  "31/12/2024",
				Installments: domain.Installments{{Number: 1, ReportDueDate: "31/02/2024"}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := status.Evaluate(tc.project, day(t, "15/01/2024"))
			assert.Equal(t, status.DateError, res.Status)
			assert.True(t, res.HasWarning())
			assert.Nil(t, res.DayOffset)
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	p := twoReportProject()
	today := day(t, "15/01/2024")

	first := status.Evaluate(p, today)
	second := status.Evaluate(p, today)

	assert.Equal(t, first, second)
}
