// Package workplan edits single nodes inside a project's nested arrays while
// passing every other node through untouched.
//
// Every operation returns a new top-level slice built by mapping over the
// original; unmatched elements are copied as whole values, never rebuilt field
// by field. Callers persist the returned slice as one field replace.
package workplan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
)

// ErrNotFound is returned when an identifier path does not resolve to a node.
var ErrNotFound = errors.New("node not found")

// ErrDuplicateID is returned when appending a node whose id is already taken.
var ErrDuplicateID = errors.New("duplicate node id")

// Node is anything addressable by a stable identifier.
type Node interface {
	NodeID() string
}

// NewID returns a fresh opaque identifier for a nested record.
func NewID() string {
	return uuid.NewString()
}

// Find returns the node with the given id.
func Find[T Node](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.NodeID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Replace returns a copy of items where the node with the given id has been
// replaced by fn's result. fn's error aborts the whole edit.
func Replace[T Node](items []T, id string, fn func(T) (T, error)) ([]T, error) {
	out := make([]T, len(items))
	found := false
	for i, item := range items {
		if found || item.NodeID() != id {
			out[i] = item
			continue
		}
		updated, err := fn(item)
		if err != nil {
			return nil, err
		}
		out[i] = updated
		found = true
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return out, nil
}

// Append returns a copy of items with node added at the end.
func Append[T Node](items []T, node T) ([]T, error) {
	if _, exists := Find(items, node.NodeID()); exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, node.NodeID())
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, node), nil
}

// Remove returns a copy of items without the node with the given id.
func Remove[T Node](items []T, id string) ([]T, error) {
	out := make([]T, 0, len(items))
	found := false
	for _, item := range items {
		if !found && item.NodeID() == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return out, nil
}

// ============================================================================
// Work plan paths
// ============================================================================

// UpdateDeliverable applies fn to components[componentID].deliverables[deliverableID].
func UpdateDeliverable(components []domain.Component, componentID, deliverableID string,
	fn func(domain.Deliverable) (domain.Deliverable, error)) ([]domain.Component, error) {
	return Replace(components, componentID, func(c domain.Component) (domain.Component, error) {
		deliverables, err := Replace(c.Deliverables, deliverableID, fn)
		if err != nil {
			return c, err
		}
		c.Deliverables = deliverables
		return c, nil
	})
}

// UpdateActivities applies fn to the activity list of one deliverable, leaving
// every other field of that deliverable as it was.
func UpdateActivities(components []domain.Component, componentID, deliverableID string,
	fn func([]domain.Activity) ([]domain.Activity, error)) ([]domain.Component, error) {
	return UpdateDeliverable(components, componentID, deliverableID, func(d domain.Deliverable) (domain.Deliverable, error) {
		activities, err := fn(d.Activities)
		if err != nil {
			return d, err
		}
		d.Activities = activities
		return d, nil
	})
}

// UpdateActivity applies fn to one activity.
func UpdateActivity(components []domain.Component, componentID, deliverableID, activityID string,
	fn func(domain.Activity) (domain.Activity, error)) ([]domain.Component, error) {
	return UpdateActivities(components, componentID, deliverableID, func(activities []domain.Activity) ([]domain.Activity, error) {
		return Replace(activities, activityID, fn)
	})
}

// UpdateActivityReports applies fn to the report list of one activity.
func UpdateActivityReports(components []domain.Component, componentID, deliverableID, activityID string,
	fn func([]domain.ActivityReport) ([]domain.ActivityReport, error)) ([]domain.Component, error) {
	return UpdateActivity(components, componentID, deliverableID, activityID, func(a domain.Activity) (domain.Activity, error) {
		reports, err := fn(a.Reports)
		if err != nil {
			return a, err
		}
		a.Reports = reports
		return a, nil
	})
}

// UpdateActivityReport applies fn to one activity report.
func UpdateActivityReport(components []domain.Component, componentID, deliverableID, activityID, reportID string,
	fn func(domain.ActivityReport) (domain.ActivityReport, error)) ([]domain.Component, error) {
	return UpdateActivityReports(components, componentID, deliverableID, activityID, func(reports []domain.ActivityReport) ([]domain.ActivityReport, error) {
		return Replace(reports, reportID, fn)
	})
}

// ============================================================================
// Budget paths
// ============================================================================

// UpdateExpenses applies fn to the entries of one budget line.
func UpdateExpenses(lines []domain.BudgetLine, lineID string,
	fn func([]domain.Expense) ([]domain.Expense, error)) ([]domain.BudgetLine, error) {
	return Replace(lines, lineID, func(l domain.BudgetLine) (domain.BudgetLine, error) {
		entries, err := fn(l.Entries)
		if err != nil {
			return l, err
		}
		l.Entries = entries
		return l, nil
	})
}

// UpdateExpense applies fn to one expense entry.
func UpdateExpense(lines []domain.BudgetLine, lineID, expenseID string,
	fn func(domain.Expense) (domain.Expense, error)) ([]domain.BudgetLine, error) {
	return UpdateExpenses(lines, lineID, func(entries []domain.Expense) ([]domain.Expense, error) {
		return Replace(entries, expenseID, fn)
	})
}

// FindExpense locates an expense anywhere in the budget and returns its line id.
func FindExpense(lines []domain.BudgetLine, expenseID string) (domain.Expense, string, bool) {
	for _, l := range lines {
		if e, ok := Find(l.Entries, expenseID); ok {
			return e, l.ID, true
		}
	}
	return domain.Expense{}, "", false
}

// ============================================================================
// Expense sequence
// ============================================================================

const expensePrefix = "expense_"

// NextExpenseID returns the next human-facing expense identifier of one
// project: one more than the highest sequence found on any of its lines.
// Identifiers that do not follow the expense_NNN pattern are ignored.
func NextExpenseID(lines []domain.BudgetLine) string {
	highest := 0
	for _, l := range lines {
		for _, e := range l.Entries {
			if n, ok := ExpenseSequence(e.ExpenseID); ok && n > highest {
				highest = n
			}
		}
	}
	return fmt.Sprintf("%s%03d", expensePrefix, highest+1)
}

// ExpenseSequence extracts the number of an expense_NNN identifier
func ExpenseSequence(id string) (int, bool) {
	if !strings.HasPrefix(id, expensePrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, expensePrefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
