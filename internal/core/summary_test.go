package core

import (
	"math"
	"testing"
)

func TestSummarizeLedger(t *testing.T) {
	tests := []struct {
		name  string
		items []LedgerItem
		want  FeeSummary
		owing bool
	}{
		{
			name: "invoice and partial payment",
			items: []LedgerItem{
				{Date: "2024-01-10", Amount: Money{Cents: 50000}, Type: Invoice},
				{Date: "2024-01-15", Amount: Money{Cents: 20000}, Type: Payment},
			},
			want:  FeeSummary{Invoiced: Money{50000}, Paid: Money{20000}, Balance: Money{30000}},
			owing: true,
		},
		{
			name: "overpaid",
			items: []LedgerItem{
				{Amount: Money{Cents: 100}, Type: Invoice},
				{Amount: Money{Cents: 250}, Type: Payment},
			},
			want:  FeeSummary{Invoiced: Money{100}, Paid: Money{250}, Balance: Money{-150}},
			owing: false,
		},
		{
			name:  "empty",
			items: nil,
			want:  FeeSummary{},
			owing: false,
		},
		{
			name: "unknown type ignored",
			items: []LedgerItem{
				{Amount: Money{Cents: 100}, Type: "refund"},
			},
			want: FeeSummary{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeLedger(tt.items)
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			if got.Invoiced.Cents-got.Paid.Cents != got.Balance.Cents {
				t.Fatalf("invoiced - paid != balance")
			}
			if got.Owing() != tt.owing {
				t.Fatalf("Owing()=%v, want %v", got.Owing(), tt.owing)
			}
		})
	}
}

func TestSortLedgerStableByDate(t *testing.T) {
	items := []LedgerItem{
		{ID: "c", Date: "2024-03-01"},
		{ID: "a", Date: "2024-01-10"},
		{ID: "b", Date: "2024-01-10"},
	}
	got := SortLedger(items)
	ids := got[0].ID + got[1].ID + got[2].ID
	if ids != "abc" {
		t.Fatalf("unexpected order %q", ids)
	}
	if items[0].ID != "c" {
		t.Fatalf("input slice was mutated")
	}
}

func TestTallyAttendance(t *testing.T) {
	roster := []string{"s1", "s2", "s3"}

	t.Run("missing records default to present", func(t *testing.T) {
		got := TallyAttendance(roster, nil)
		if got.Present != 3 || got.Total != 3 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("explicit absence is never defaulted", func(t *testing.T) {
		got := TallyAttendance(roster, []AttendanceRecord{{StudentID: "s2", Present: false}})
		if got.Present != 2 || got.Total != 3 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("records outside the roster are ignored", func(t *testing.T) {
		got := TallyAttendance(roster, []AttendanceRecord{
			{StudentID: "s1", Present: true},
			{StudentID: "ghost", Present: false},
		})
		if got.Present != 3 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("staff", func(t *testing.T) {
		got := TallyStaffAttendance([]string{"t1", "t2"}, []StaffAttendanceEntry{{StaffID: "t1", Present: false}})
		if got.Present != 1 || got.Total != 2 {
			t.Fatalf("got %+v", got)
		}
	})
}

func TestSummarizeExpenses(t *testing.T) {
	items := []Expense{
		{Date: "2024-02-03", Category: "Utilities", Amount: Money{Cents: 1000}},
		{Date: "2024-01-20", Category: "Salaries", Amount: Money{Cents: 50000}},
		{Date: "2024-01-05", Category: "Utilities", Amount: Money{Cents: 250}},
		{Date: "2024-02-10", Category: "Catering", Amount: Money{Cents: 700}},
	}
	got := SummarizeExpenses(items)

	if got.Total.Cents != 51950 {
		t.Fatalf("total=%d", got.Total.Cents)
	}
	if len(got.ByCategory) != len(ExpenseCategories)+1 {
		t.Fatalf("expected declared categories plus one extra, got %d", len(got.ByCategory))
	}
	byName := map[string]int64{}
	for _, c := range got.ByCategory {
		byName[c.Name] = c.Amount.Cents
	}
	if byName["Utilities"] != 1250 || byName["Salaries"] != 50000 || byName["Transport"] != 0 {
		t.Fatalf("unexpected category totals %v", byName)
	}
	if last := got.ByCategory[len(got.ByCategory)-1]; last.Name != "Catering" || last.Amount.Cents != 700 {
		t.Fatalf("undeclared category not appended: %+v", last)
	}

	if len(got.ByMonth) != 2 {
		t.Fatalf("months=%v", got.ByMonth)
	}
	if got.ByMonth[0].Month != "2024-01" || got.ByMonth[0].Amount.Cents != 50250 {
		t.Fatalf("unexpected first month %+v", got.ByMonth[0])
	}
	if got.ByMonth[1].Month != "2024-02" || got.ByMonth[1].Amount.Cents != 1700 {
		t.Fatalf("unexpected second month %+v", got.ByMonth[1])
	}
}

func TestSummarizeLedgerLargeTotalsStayOwing(t *testing.T) {
	items := make([]LedgerItem, 10000)
	for i := range items {
		items[i] = LedgerItem{Date: "2024-01-10", Amount: Money{Cents: MaxCents - 1}, Type: Invoice}
	}
	s := SummarizeLedger(items)
	if s.Invoiced.Cents != math.MaxInt64 {
		t.Fatalf("invoiced = %d, want saturated MaxInt64", s.Invoiced.Cents)
	}
	if !s.Owing() {
		t.Fatalf("balance %d should still be owing", s.Balance.Cents)
	}
}

func TestSummarizeExpensesLargeTotals(t *testing.T) {
	items := make([]Expense, 10000)
	for i := range items {
		items[i] = Expense{Date: "2024-02-01", Category: "Salaries", Amount: Money{Cents: MaxCents - 1}}
	}
	got := SummarizeExpenses(items)
	if got.Total.Cents != math.MaxInt64 || got.ByCategory[0].Amount.Cents != math.MaxInt64 || got.ByMonth[0].Amount.Cents != math.MaxInt64 {
		t.Fatalf("totals wrapped: %+v", got)
	}
}
