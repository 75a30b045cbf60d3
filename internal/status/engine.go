// Package status derives a project's lifecycle status and next milestone from
// its disbursement schedule.
package status

import (
	"fmt"
	"time"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
)

// Derived status values.
const (
	Cancelled  = domain.ProjectStatusCancelled
	Completed  = "Completed"
	OnTime     = "On time"
	Late       = "Late"
	NoSchedule = "No schedule"
	DateError  = "date error"
)

// ContractEndLabel labels the fallback milestone when no report is pending.
const ContractEndLabel = "Contract end"

// Result is the derived schedule view of one project. Optional fields are nil
// or empty when they do not apply.
type Result struct {
	Status         string
	NextEventLabel string
	NextEventDate  *time.Time
	DayOffset      *int
	Warning        string
}

// HasWarning reports whether the result should be surfaced to an operator.
func (r Result) HasWarning() bool {
	return r.Warning != ""
}

// Evaluate derives the status of p as seen on the calendar day of today.
// It never fails: malformed data yields a degraded status and a warning.
func Evaluate(p *domain.Project, today time.Time) Result {
	if p.IsCancelled() {
		return Result{Status: Cancelled}
	}

	if len(p.Installments) == 0 {
		return Result{
			Status:  NoSchedule,
			Warning: fmt.Sprintf("project %s has no installment schedule", p.Code),
		}
	}

	// Document order, not date order: the first pending report wins even when a
	// later element is due earlier.
	for _, inst := range p.Installments {
		if !domain.IsDateSet(inst.ReportDueDate) || domain.IsDateSet(inst.ReportSubmittedDate) {
			continue
		}
		due, err := domain.ParseDate(inst.ReportDueDate)
		if err != nil {
			return Result{
				Status:  DateError,
				Warning: fmt.Sprintf("project %s installment %d report due date: %v", p.Code, inst.Number, err),
			}
		}
		return milestone(fmt.Sprintf("Report %d", inst.Number), due, today)
	}

	last := p.Installments[len(p.Installments)-1]
	if last.ReportMonitored {
		zero := 0
		return Result{Status: Completed, DayOffset: &zero}
	}

	end, err := domain.ParseDate(p.ContractEnd)
	if err != nil {
		return Result{
			Status:  DateError,
			Warning: fmt.Sprintf("project %s contract end date: %v", p.Code, err),
		}
	}
	return milestone(ContractEndLabel, end, today)
}

func milestone(label string, due, today time.Time) Result {
	offset := domain.DaysBetween(today, due)
	status := OnTime
	if offset < 0 {
		status = Late
	}
	return Result{
		Status:         status,
		NextEventLabel: label,
		NextEventDate:  &due,
		DayOffset:      &offset,
	}
}
