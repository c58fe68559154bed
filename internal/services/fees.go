package services

import (
	"context"
	"fmt"
	"strings"

	"schooldesk/internal/core"
	applog "schooldesk/internal/log"
	"schooldesk/internal/records"
)

type (
	// LedgerView is one student's ledger, oldest entry first, with its
	// derived balance.
	LedgerView struct {
		StudentID string            `json:"studentId"`
		Items     []core.LedgerItem `json:"items"`
		Summary   core.FeeSummary   `json:"summary"`
	}

	StudentFees struct {
		Student core.Student    `json:"student"`
		Summary core.FeeSummary `json:"summary"`
		Owing   bool            `json:"owing"`
	}
)

func (s *School) ledgers(ctx context.Context) (map[string]core.StudentLedger, error) {
	return records.LoadMap[core.StudentLedger](ctx, s.store, records.KeyFees)
}

// Ledger returns the ledger of studentID. A student without entries has an
// empty ledger and a zero balance.
func (s *School) Ledger(ctx context.Context, studentID string) (LedgerView, error) {
	fees, err := s.ledgers(ctx)
	if err != nil {
		return LedgerView{}, err
	}
	items := core.SortLedger(fees[studentID].Items)
	return LedgerView{
		StudentID: studentID,
		Items:     items,
		Summary:   core.SummarizeLedger(items),
	}, nil
}

// AddLedgerItem records an invoice or payment against an existing student.
// Entries are immutable once written.
func (s *School) AddLedgerItem(ctx context.Context, studentID string, in LedgerInput) (core.LedgerItem, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := check(s.validate, in); err != nil {
		return core.LedgerItem{}, err
	}

	item := core.LedgerItem{
		ID:          s.newID(),
		Date:        in.Date,
		Amount:      in.Amount,
		Description: in.Description,
		Type:        in.Type,
	}
	if err := item.Validate(); err != nil {
		return core.LedgerItem{}, err
	}

	students, err := s.ListStudents(ctx)
	if err != nil {
		return core.LedgerItem{}, err
	}
	if indexOf(students, func(st core.Student) bool { return st.ID == studentID }) < 0 {
		return core.LedgerItem{}, core.ErrNotFound
	}

	fees, err := s.ledgers(ctx)
	if err != nil {
		return core.LedgerItem{}, err
	}
	ledger := fees[studentID]
	ledger.Items = append(ledger.Items, item)
	fees[studentID] = ledger
	if err := s.store.Save(ctx, records.KeyFees, fees); err != nil {
		return core.LedgerItem{}, fmt.Errorf("save fees: %w", err)
	}

	s.logger.InfoContext(ctx, "Ledger entry added",
		applog.FieldStudentID, studentID,
		applog.FieldAmount, item.Amount.Cents,
		"type", string(item.Type))
	return item, nil
}

func (s *School) DeleteLedgerItem(ctx context.Context, studentID, itemID string) error {
	fees, err := s.ledgers(ctx)
	if err != nil {
		return err
	}
	ledger, ok := fees[studentID]
	if !ok {
		return core.ErrNotFound
	}
	i := indexOf(ledger.Items, func(it core.LedgerItem) bool { return it.ID == itemID })
	if i < 0 {
		return core.ErrNotFound
	}
	ledger.Items = append(ledger.Items[:i], ledger.Items[i+1:]...)
	fees[studentID] = ledger
	if err := s.store.Save(ctx, records.KeyFees, fees); err != nil {
		return fmt.Errorf("save fees: %w", err)
	}
	return nil
}

// FeeSummaries derives the balance of every enrolled student in roster order.
func (s *School) FeeSummaries(ctx context.Context) ([]StudentFees, error) {
	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	fees, err := s.ledgers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StudentFees, 0, len(students))
	for _, st := range students {
		sum := core.SummarizeLedger(fees[st.ID].Items)
		out = append(out, StudentFees{Student: st, Summary: sum, Owing: sum.Owing()})
	}
	return out, nil
}
