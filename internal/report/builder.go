package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"schooldesk/internal/core"
	"schooldesk/internal/records"
)

// Builder reads one tenant's stored collections and lays them out as
// tables. It never writes.
type Builder struct {
	store *records.Store
}

func NewBuilder(store *records.Store) *Builder {
	return &Builder{store: store}
}

func (b *Builder) Build(ctx context.Context, kind Kind) (Table, error) {
	switch kind {
	case Students:
		return b.students(ctx)
	case Attendance:
		return b.attendance(ctx)
	case FeesSummary:
		return b.feesSummary(ctx)
	case StaffPerformance:
		return b.staffPerformance(ctx)
	default:
		return Table{}, fmt.Errorf("unknown report %q", kind)
	}
}

func (b *Builder) students(ctx context.Context) (Table, error) {
	list, err := records.LoadList[core.Student](ctx, b.store, records.KeyStudents)
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Kind:   Students,
		Header: []string{"Admission No", "First Name", "Last Name", "Gender", "DOB", "Class", "Guardian", "Contact", "Date Admitted"},
		Rows:   make([][]string, 0, len(list)),
	}
	for _, s := range list {
		t.Rows = append(t.Rows, []string{s.AdmissionNo, s.FirstName, s.LastName, s.Gender, s.DOB, s.ClassName, s.GuardianName, s.Contact, s.DateAdmitted})
	}
	return t, nil
}

type sheetRef struct {
	key, class, date string
}

// attendance lists every stored class register ordered by date, then by the
// fixed class order. Records of students no longer enrolled are skipped.
func (b *Builder) attendance(ctx context.Context) (Table, error) {
	students, err := records.LoadList[core.Student](ctx, b.store, records.KeyStudents)
	if err != nil {
		return Table{}, err
	}
	byID := make(map[string]core.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	keys, err := b.store.KeysWithPrefix(ctx, records.AttendancePrefix)
	if err != nil {
		return Table{}, err
	}
	sheets := make([]sheetRef, 0, len(keys))
	for _, k := range keys {
		class, date, ok := records.ParseAttendanceKey(k)
		if !ok {
			continue
		}
		sheets = append(sheets, sheetRef{key: k, class: class, date: date})
	}
	sort.Slice(sheets, func(i, j int) bool {
		a, c := sheets[i], sheets[j]
		if a.date != c.date {
			return a.date < c.date
		}
		if ai, ci := core.ClassIndex(a.class), core.ClassIndex(c.class); ai != ci {
			return ai < ci
		}
		return a.class < c.class
	})

	t := Table{Kind: Attendance, Header: []string{"Class", "Date", "Student", "Present"}, Rows: [][]string{}}
	for _, sh := range sheets {
		recs, err := records.LoadList[core.AttendanceRecord](ctx, b.store, sh.key)
		if err != nil {
			return Table{}, err
		}
		for _, r := range recs {
			s, ok := byID[r.StudentID]
			if !ok {
				continue
			}
			t.Rows = append(t.Rows, []string{sh.class, sh.date, s.FullName(), yesNo(r.Present)})
		}
	}
	return t, nil
}

// feesSummary has one row per ledger. Enrolled students come first in
// roster order; ledgers of unknown students follow sorted by id, named by
// their id with a blank class.
func (b *Builder) feesSummary(ctx context.Context) (Table, error) {
	students, err := records.LoadList[core.Student](ctx, b.store, records.KeyStudents)
	if err != nil {
		return Table{}, err
	}
	fees, err := records.LoadMap[core.StudentLedger](ctx, b.store, records.KeyFees)
	if err != nil {
		return Table{}, err
	}

	t := Table{Kind: FeesSummary, Header: []string{"Student", "Class", "Invoiced", "Paid", "Balance"}, Rows: [][]string{}}
	row := func(name, class string, l core.StudentLedger) []string {
		s := core.SummarizeLedger(l.Items)
		return []string{name, class, s.Invoiced.String(), s.Paid.String(), s.Balance.String()}
	}

	seen := make(map[string]bool, len(students))
	for _, s := range students {
		l, ok := fees[s.ID]
		if !ok || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		t.Rows = append(t.Rows, row(s.FullName(), s.ClassName, l))
	}
	for _, id := range orphans(fees, seen) {
		t.Rows = append(t.Rows, row(id, "", fees[id]))
	}
	return t, nil
}

// staffPerformance follows the same ordering rule as feesSummary.
func (b *Builder) staffPerformance(ctx context.Context) (Table, error) {
	staff, err := records.LoadList[core.Staff](ctx, b.store, records.KeyStaff)
	if err != nil {
		return Table{}, err
	}
	perf, err := records.LoadMap[core.StaffPerformance](ctx, b.store, records.KeyStaffPerformance)
	if err != nil {
		return Table{}, err
	}

	t := Table{Kind: StaffPerformance, Header: []string{"Staff", "Rating", "Notes", "Updated At"}, Rows: [][]string{}}
	row := func(name string, p core.StaffPerformance) []string {
		return []string{name, strconv.Itoa(p.Rating), p.Notes, formatTime(p.UpdatedAt)}
	}

	seen := make(map[string]bool, len(staff))
	for _, m := range staff {
		p, ok := perf[m.ID]
		if !ok || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		t.Rows = append(t.Rows, row(m.Name, p))
	}
	for _, id := range orphans(perf, seen) {
		t.Rows = append(t.Rows, row(id, perf[id]))
	}
	return t, nil
}

func orphans[T any](m map[string]T, seen map[string]bool) []string {
	var ids []string
	for id := range m {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
