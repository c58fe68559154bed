package core

import (
	"math"
	"sort"
)

// FeeSummary is the derived balance of one student's ledger.
type FeeSummary struct {
	Invoiced Money `json:"invoiced"`
	Paid     Money `json:"paid"`
	Balance  Money `json:"balance"`
}

// Owing reports whether the student still owes money. Zero and negative
// (overpaid) balances are settled.
func (f FeeSummary) Owing() bool {
	return f.Balance.Cents > 0
}

// AttendanceTally counts present roster members against the roster size.
type AttendanceTally struct {
	Present int `json:"present"`
	Total   int `json:"total"`
}

// Percent is the present share rounded to one decimal. An empty roster
// gives 0.
func (t AttendanceTally) Percent() float64 {
	if t.Total == 0 {
		return 0
	}
	return math.Round(float64(t.Present)*1000/float64(t.Total)) / 10
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// MonthAmount is the total spent in one year-month ("2024-01").
type MonthAmount struct {
	Month  string `json:"month"`
	Amount Money  `json:"amount"`
}

type ExpenseTotals struct {
	Total      Money            `json:"total"`
	ByCategory []CategoryAmount `json:"byCategory"`
	ByMonth    []MonthAmount    `json:"byMonth"`
}

// SummarizeLedger sums invoices and payments. Entries of any other type are
// ignored.
func SummarizeLedger(items []LedgerItem) FeeSummary {
	var s FeeSummary
	for _, it := range items {
		switch it.Type {
		case Invoice:
			s.Invoiced = s.Invoiced.Add(it.Amount)
		case Payment:
			s.Paid = s.Paid.Add(it.Amount)
		}
	}
	s.Balance = s.Invoiced.Sub(s.Paid)
	return s
}

// SortLedger returns a copy of items ordered by date, oldest first. Entries
// on the same date keep their insertion order.
func SortLedger(items []LedgerItem) []LedgerItem {
	out := make([]LedgerItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TallyAttendance counts roster members as present unless they have an
// explicit absent record. Records for ids outside the roster are ignored.
func TallyAttendance(roster []string, records []AttendanceRecord) AttendanceTally {
	absent := make(map[string]bool, len(records))
	for _, r := range records {
		absent[r.StudentID] = !r.Present
	}
	return tally(roster, absent)
}

func TallyStaffAttendance(roster []string, entries []StaffAttendanceEntry) AttendanceTally {
	absent := make(map[string]bool, len(entries))
	for _, e := range entries {
		absent[e.StaffID] = !e.Present
	}
	return tally(roster, absent)
}

func tally(roster []string, absent map[string]bool) AttendanceTally {
	t := AttendanceTally{Total: len(roster)}
	for _, id := range roster {
		if !absent[id] {
			t.Present++
		}
	}
	return t
}

// SummarizeExpenses totals expenses per category and per month. Every
// declared category is reported, zero when unused; undeclared categories
// follow in the order they first appear. Months are sorted ascending.
func SummarizeExpenses(items []Expense) ExpenseTotals {
	byCat := make(map[string]int64, len(ExpenseCategories))
	order := append([]string(nil), ExpenseCategories...)
	for _, c := range ExpenseCategories {
		byCat[c] = 0
	}
	byMonth := map[string]int64{}

	var total int64
	for _, e := range items {
		if _, ok := byCat[e.Category]; !ok {
			order = append(order, e.Category)
		}
		byCat[e.Category] = addCents(byCat[e.Category], e.Amount.Cents)
		byMonth[e.Month()] = addCents(byMonth[e.Month()], e.Amount.Cents)
		total = addCents(total, e.Amount.Cents)
	}

	out := ExpenseTotals{Total: Money{Cents: total}, ByMonth: sortedMonths(byMonth)}
	for _, c := range order {
		out.ByCategory = append(out.ByCategory, CategoryAmount{Name: c, Amount: Money{Cents: byCat[c]}})
	}
	return out
}

// SummarizePayments totals the payments of every ledger, overall and per
// month of the payment date with months ascending. Invoices are ignored.
func SummarizePayments(ledgers map[string]StudentLedger) (Money, []MonthAmount) {
	byMonth := map[string]int64{}
	var total int64
	for _, l := range ledgers {
		for _, it := range l.Items {
			if it.Type != Payment {
				continue
			}
			m := monthOf(it.Date)
			byMonth[m] = addCents(byMonth[m], it.Amount.Cents)
			total = addCents(total, it.Amount.Cents)
		}
	}
	return Money{Cents: total}, sortedMonths(byMonth)
}

func sortedMonths(byMonth map[string]int64) []MonthAmount {
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	out := make([]MonthAmount, 0, len(months))
	for _, m := range months {
		out = append(out, MonthAmount{Month: m, Amount: Money{Cents: byMonth[m]}})
	}
	return out
}

func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
