package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/export"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/repository"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/workplan"
	"go.uber.org/zap"
)

// BudgetService edits budget lines and the expense entries reported against them
type BudgetService struct {
	editor *projectEditor
	logger *zap.Logger
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(projectRepo *repository.ProjectRepository, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		editor: &projectEditor{projectRepo: projectRepo, logger: logger},
		logger: logger,
	}
}

// Lines returns the budget of a project with spent totals
func (s *BudgetService) Lines(ctx context.Context, code string) ([]domain.BudgetLineDTO, error) {
	project, err := s.editor.view(ctx, code)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.BudgetLineDTO, 0, len(project.BudgetLines))
	for _, l := range project.BudgetLines {
		lines = append(lines, domain.BudgetLineDTO{BudgetLine: l, Spent: l.Spent()})
	}
	return lines, nil
}

func (s *BudgetService) editBudget(ctx context.Context, edit Edit, fn func(p *domain.Project) (domain.BudgetLines, error)) (int, error) {
	project, err := s.editor.apply(ctx, edit, func(p *domain.Project) ([]repository.ProjectField, error) {
		lines, err := fn(p)
		if err != nil {
			return nil, err
		}
		p.BudgetLines = lines
		return []repository.ProjectField{repository.FieldBudgetLines}, nil
	})
	if err != nil {
		return 0, err
	}
	return project.Version, nil
}

// ============================================================================
// Lines
// ============================================================================

// AddLine plans a new budget line. Budget planning is a staff task.
func (s *BudgetService) AddLine(ctx context.Context, edit Edit, req *domain.BudgetLineRequest) (*domain.EditResponse[domain.BudgetLine], error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	line := domain.BudgetLine{
		ID:            workplan.NewID(),
		Category:      strings.TrimSpace(req.Category),
		ExpenseName:   strings.TrimSpace(req.ExpenseName),
		PlannedAmount: req.PlannedAmount,
	}
	version, err := s.editBudget(ctx, edit, func(p *domain.Project) (domain.BudgetLines, error) {
		return workplan.Append(p.BudgetLines, line)
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.BudgetLine]{Data: line, Version: version}, nil
}

func (s *BudgetService) UpdateLine(ctx context.Context, edit Edit, lineID string, req *domain.BudgetLineRequest) (*domain.EditResponse[domain.BudgetLine], error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	var updated domain.BudgetLine
	version, err := s.editBudget(ctx, edit, func(p *domain.Project) (domain.BudgetLines, error) {
		return workplan.Replace(p.BudgetLines, lineID, func(l domain.BudgetLine) (domain.BudgetLine, error) {
			l.Category = strings.TrimSpace(req.Category)
			l.ExpenseName = strings.TrimSpace(req.ExpenseName)
			l.PlannedAmount = req.PlannedAmount
			updated = l
			return l, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.BudgetLine]{Data: updated, Version: version}, nil
}

// DeleteLine removes a budget line. Lines that already carry expenses are kept.
func (s *BudgetService) DeleteLine(ctx context.Context, edit Edit, lineID string) (int, error) {
	if err := requireStaff(ctx); err != nil {
		return 0, err
	}
	return s.editBudget(ctx, edit, func(p *domain.Project) (domain.BudgetLines, error) {
		if line, ok := workplan.Find(p.BudgetLines, lineID); ok && len(line.Entries) > 0 {
			return nil, invalidInput("budget line %s has %d expenses", lineID, len(line.Entries))
		}
		return workplan.Remove(p.BudgetLines, lineID)
	})
}

// ============================================================================
// Expenses
// ============================================================================

// AddExpense records an expense under a line. Its human-facing id continues
// the project's expense_NNN sequence.
func (s *BudgetService) AddExpense(ctx context.Context, edit Edit, lineID string, req *domain.ExpenseRequest) (*domain.EditResponse[domain.Expense], error) {
	if _, err := domain.ParseDate(req.Date); err != nil {
		return nil, invalidInput("expense date: %v", err)
	}

	var created domain.Expense
	version, err := s.editBudget(ctx, edit, func(p *domain.Project) (domain.BudgetLines, error) {
		if err := checkReportNumber(p, req.ReportNumber); err != nil {
			return nil, err
		}
		created = domain.Expense{
			ID:           workplan.NewID(),
			ExpenseID:    workplan.NextExpenseID(p.BudgetLines),
			ReviewStatus: domain.ReviewOpen,
		}
		applyExpense(&created, req)
		return workplan.UpdateExpenses(p.BudgetLines, lineID, func(entries []domain.Expense) ([]domain.Expense, error) {
			return workplan.Append(entries, created)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.String("code", edit.Code),
		zap.String("expense_id", created.ExpenseID),
		zap.Float64("amount", created.Amount),
	)
	return &domain.EditResponse[domain.Expense]{Data: created, Version: version}, nil
}

// UpdateExpense edits an expense. A rejected expense goes back to open once
// it is edited.
func (s *BudgetService) UpdateExpense(ctx context.Context, edit Edit, lineID, expenseID string, req *domain.ExpenseRequest) (*domain.EditResponse[domain.Expense], error) {
	if _, err := domain.ParseDate(req.Date); err != nil {
		return nil, invalidInput("expense date: %v", err)
	}

	var updated domain.Expense
	version, err := s.editBudget(ctx, edit, func(p *domain.Project) (domain.BudgetLines, error) {
		if err := checkReportNumber(p, req.ReportNumber); err != nil {
			return nil, err
		}
		return workplan.UpdateExpense(p.BudgetLines, lineID, expenseID, func(e domain.Expense) (domain.Expense, error) {
			applyExpense(&e, req)
			if e.ReviewStatus == domain.ReviewRejected {
				e.ReviewStatus = domain.ReviewOpen
			}
			updated = e
			return e, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &domain.EditResponse[domain.Expense]{Data: updated, Version: version}, nil
}

func (s *BudgetService) DeleteExpense(ctx context.Context, edit Edit, lineID, expenseID string) (int, error) {
	return s.editBudget(ctx, edit, func(p *domain.Project) (domain.BudgetLines, error) {
		return workplan.UpdateExpenses(p.BudgetLines, lineID, func(entries []domain.Expense) ([]domain.Expense, error) {
			return workplan.Remove(entries, expenseID)
		})
	})
}

// ReviewExpense accepts, rejects or reopens an expense
func (s *BudgetService) ReviewExpense(ctx context.Context, edit Edit, lineID, expenseID string, req *domain.ReviewRequest) (*domain.EditResponse[domain.Expense], error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	if !req.Status.IsValid() {
		return nil, invalidInput("unknown review status %q", req.Status)
	}

	var updated domain.Expense
	version, err := s.editBudget(ctx, edit, func(p *domain.Project) (domain.BudgetLines, error) {
		return workplan.UpdateExpense(p.BudgetLines, lineID, expenseID, func(e domain.Expense) (domain.Expense, error) {
			e.ReviewStatus = req.Status
			e.ReviewNote = req.Note
			updated = e
			return e, nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense reviewed",
		zap.String("code", edit.Code),
		zap.String("expense_id", updated.ExpenseID),
		zap.String("status", string(req.Status)),
	)
	return &domain.EditResponse[domain.Expense]{Data: updated, Version: version}, nil
}

// ExportExpenses writes every expense of a project as CSV
func (s *BudgetService) ExportExpenses(ctx context.Context, code string, w io.Writer, enc export.Encoding) error {
	project, err := s.editor.view(ctx, code)
	if err != nil {
		return err
	}
	if err := export.WriteExpensesCSV(w, project.BudgetLines, enc); err != nil {
		return fmt.Errorf("failed to export expenses of %s: %w", code, err)
	}
	return nil
}

func applyExpense(e *domain.Expense, req *domain.ExpenseRequest) {
	e.ReportNumber = req.ReportNumber
	e.Date = strings.TrimSpace(req.Date)
	e.Description = strings.TrimSpace(req.Description)
	e.Supplier = strings.TrimSpace(req.Supplier)
	e.TaxID = strings.TrimSpace(req.TaxID)
	e.Amount = req.Amount
}
