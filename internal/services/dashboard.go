package services

import (
	"context"
	"strings"

	"schooldesk/internal/core"
	"schooldesk/internal/records"
)

// Dashboard is the school overview: head counts, fees collected and the
// attendance of one day.
type Dashboard struct {
	Date              string               `json:"date"`
	Students          int                  `json:"students"`
	Staff             int                  `json:"staff"`
	FeesCollected     core.Money           `json:"feesCollected"`
	Attendance        core.AttendanceTally `json:"attendance"`
	AttendancePercent float64              `json:"attendancePercent"`
	MonthlyFees       []core.MonthAmount   `json:"monthlyFees"`
}

// Dashboard summarizes the school on date, today when empty. Attendance
// covers every class; registers not yet taken count everyone present and
// are not written.
func (s *School) Dashboard(ctx context.Context, date string) (Dashboard, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.now().Format(core.DateLayout)
	}
	if err := core.ValidateDate(date); err != nil {
		return Dashboard{}, err
	}

	students, err := s.ListStudents(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	staff, err := s.ListStaff(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	fees, err := s.ledgers(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	var classes []string
	rosters := map[string][]string{}
	for _, st := range students {
		if _, ok := rosters[st.ClassName]; !ok {
			classes = append(classes, st.ClassName)
		}
		rosters[st.ClassName] = append(rosters[st.ClassName], st.ID)
	}
	var tally core.AttendanceTally
	for _, class := range classes {
		sheet, err := records.LoadList[core.AttendanceRecord](ctx, s.store, records.AttendanceKey(class, date))
		if err != nil {
			return Dashboard{}, err
		}
		t := core.TallyAttendance(rosters[class], sheet)
		tally.Present += t.Present
		tally.Total += t.Total
	}

	collected, monthly := core.SummarizePayments(fees)
	return Dashboard{
		Date:              date,
		Students:          len(students),
		Staff:             len(staff),
		FeesCollected:     collected,
		Attendance:        tally,
		AttendancePercent: tally.Percent(),
		MonthlyFees:       monthly,
	}, nil
}
