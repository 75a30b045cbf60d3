package status

import "github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"

// ReportReview is the aggregated review state of everything filed under one
// report number.
type ReportReview struct {
	ReportNumber int
	Status       domain.ReviewStatus
	Accepted     int
	Rejected     int
	Open         int
}

// Total is the number of children counted.
func (r ReportReview) Total() int {
	return r.Accepted + r.Rejected + r.Open
}

// ReviewReport aggregates the activity reports and expenses of p that carry
// the given report number. A report is accepted only when it has children and
// all of them are accepted; it is rejected when something was rejected and
// nothing is left open.
func ReviewReport(p *domain.Project, number int) ReportReview {
	rv := ReportReview{ReportNumber: number}

	count := func(s domain.ReviewStatus) {
		switch s {
		case domain.ReviewAccepted:
			rv.Accepted++
		case domain.ReviewRejected:
			rv.Rejected++
		default:
			rv.Open++
		}
	}

	for _, c := range p.WorkPlan {
		for _, d := range c.Deliverables {
			for _, a := range d.Activities {
				for _, r := range a.Reports {
					if r.ReportNumber == number {
						count(r.ReviewStatus)
					}
				}
			}
		}
	}
	for _, line := range p.BudgetLines {
		for _, e := range line.Entries {
			if e.ReportNumber == number {
				count(e.ReviewStatus)
			}
		}
	}

	switch {
	case rv.Total() > 0 && rv.Accepted == rv.Total():
		rv.Status = domain.ReviewAccepted
	case rv.Rejected > 0 && rv.Open == 0:
		rv.Status = domain.ReviewRejected
	default:
		rv.Status = domain.ReviewOpen
	}
	return rv
}
