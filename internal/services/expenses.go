package services

import (
	"context"
	"fmt"
	"strings"

	"schooldesk/internal/core"
	applog "schooldesk/internal/log"
	"schooldesk/internal/records"
)

// ListExpenses returns expenses in the order they were recorded.
func (s *School) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return records.LoadList[core.Expense](ctx, s.store, records.KeyExpenses)
}

func (s *School) CreateExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if err := check(s.validate, in); err != nil {
		return core.Expense{}, err
	}
	if in.Amount.Cents < 0 {
		return core.Expense{}, core.ErrInvalidAmount
	}
	list, err := s.ListExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		ID:       s.newID(),
		Date:     in.Date,
		Category: in.Category,
		Amount:   in.Amount,
		Notes:    in.Notes,
	}
	list = append(list, e)
	if err := s.store.Save(ctx, records.KeyExpenses, list); err != nil {
		return core.Expense{}, fmt.Errorf("save expenses: %w", err)
	}
	s.logger.InfoContext(ctx, "Expense recorded", applog.FieldAmount, e.Amount.Cents, "category", e.Category)
	return e, nil
}

func (s *School) DeleteExpense(ctx context.Context, id string) error {
	list, err := s.ListExpenses(ctx)
	if err != nil {
		return err
	}
	i := indexOf(list, func(e core.Expense) bool { return e.ID == id })
	if i < 0 {
		return core.ErrNotFound
	}
	list = append(list[:i], list[i+1:]...)
	if err := s.store.Save(ctx, records.KeyExpenses, list); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}

func (s *School) ExpenseTotals(ctx context.Context) (core.ExpenseTotals, error) {
	list, err := s.ListExpenses(ctx)
	if err != nil {
		return core.ExpenseTotals{}, err
	}
	return core.SummarizeExpenses(list), nil
}
