package services

import (
	"context"
	"fmt"
	"slices"

	"schooldesk/internal/core"
	"schooldesk/internal/records"
)

type (
	AttendanceSheet struct {
		Class   string                  `json:"class"`
		Date    string                  `json:"date"`
		Records []core.AttendanceRecord `json:"records"`
		Tally   core.AttendanceTally    `json:"tally"`
	}

	StaffAttendanceSheet struct {
		Date    string                      `json:"date"`
		Entries []core.StaffAttendanceEntry `json:"entries"`
		Tally   core.AttendanceTally        `json:"tally"`
	}
)

func validateSheet(className, date string) error {
	if !core.IsClass(className) {
		return core.ErrUnknownClass
	}
	return core.ValidateDate(date)
}

// fillSheet returns one entry per roster id in roster order, taking the last
// stored value for an id and present=true when there is none. Entries for
// ids outside the roster follow in stored order.
func fillSheet[T any](roster []string, stored []T, idOf func(T) string, present func(string) T) []T {
	byID := make(map[string]T, len(stored))
	for _, r := range stored {
		byID[idOf(r)] = r
	}
	inRoster := make(map[string]bool, len(roster))
	out := make([]T, 0, len(roster))
	for _, id := range roster {
		inRoster[id] = true
		if r, ok := byID[id]; ok {
			out = append(out, r)
		} else {
			out = append(out, present(id))
		}
	}
	for _, r := range stored {
		id := idOf(r)
		if inRoster[id] {
			continue
		}
		inRoster[id] = true
		out = append(out, byID[id])
	}
	return out
}

func studentIDs(list []core.Student) []string {
	ids := make([]string, len(list))
	for i, st := range list {
		ids[i] = st.ID
	}
	return ids
}

func staffIDs(list []core.Staff) []string {
	ids := make([]string, len(list))
	for i, m := range list {
		ids[i] = m.ID
	}
	return ids
}

func recordID(r core.AttendanceRecord) string { return r.StudentID }

func presentRecord(id string) core.AttendanceRecord {
	return core.AttendanceRecord{StudentID: id, Present: true}
}

func entryID(e core.StaffAttendanceEntry) string { return e.StaffID }

func presentEntry(id string) core.StaffAttendanceEntry {
	return core.StaffAttendanceEntry{StaffID: id, Present: true}
}

// AttendanceSheet returns the class register for date. Students without a
// record are marked present and the completed sheet is written back, so the
// stored register always matches what is shown.
func (s *School) AttendanceSheet(ctx context.Context, className, date string) (AttendanceSheet, error) {
	if err := validateSheet(className, date); err != nil {
		return AttendanceSheet{}, err
	}
	roster, err := s.Roster(ctx, className)
	if err != nil {
		return AttendanceSheet{}, err
	}
	key := records.AttendanceKey(className, date)
	stored, err := records.LoadList[core.AttendanceRecord](ctx, s.store, key)
	if err != nil {
		return AttendanceSheet{}, err
	}

	ids := studentIDs(roster)
	filled := fillSheet(ids, stored, recordID, presentRecord)
	if !slices.Equal(filled, stored) {
		if err := s.store.Save(ctx, key, filled); err != nil {
			return AttendanceSheet{}, fmt.Errorf("save %s: %w", key, err)
		}
	}
	return AttendanceSheet{
		Class:   className,
		Date:    date,
		Records: filled,
		Tally:   core.TallyAttendance(ids, filled),
	}, nil
}

// SetAttendance marks one student of the class present or absent.
func (s *School) SetAttendance(ctx context.Context, className, date, studentID string, present bool) (AttendanceSheet, error) {
	if err := validateSheet(className, date); err != nil {
		return AttendanceSheet{}, err
	}
	roster, err := s.Roster(ctx, className)
	if err != nil {
		return AttendanceSheet{}, err
	}
	ids := studentIDs(roster)
	if !slices.Contains(ids, studentID) {
		return AttendanceSheet{}, core.ErrNotFound
	}
	key := records.AttendanceKey(className, date)
	stored, err := records.LoadList[core.AttendanceRecord](ctx, s.store, key)
	if err != nil {
		return AttendanceSheet{}, err
	}

	filled := fillSheet(ids, stored, recordID, presentRecord)
	for i := range filled {
		if filled[i].StudentID == studentID {
			filled[i].Present = present
		}
	}
	if err := s.store.Save(ctx, key, filled); err != nil {
		return AttendanceSheet{}, fmt.Errorf("save %s: %w", key, err)
	}
	return AttendanceSheet{
		Class:   className,
		Date:    date,
		Records: filled,
		Tally:   core.TallyAttendance(ids, filled),
	}, nil
}

// StaffAttendanceSheet is AttendanceSheet for the whole staff list.
func (s *School) StaffAttendanceSheet(ctx context.Context, date string) (StaffAttendanceSheet, error) {
	if err := core.ValidateDate(date); err != nil {
		return StaffAttendanceSheet{}, err
	}
	staff, err := s.ListStaff(ctx)
	if err != nil {
		return StaffAttendanceSheet{}, err
	}
	key := records.StaffAttendanceKey(date)
	stored, err := records.LoadList[core.StaffAttendanceEntry](ctx, s.store, key)
	if err != nil {
		return StaffAttendanceSheet{}, err
	}

	ids := staffIDs(staff)
	filled := fillSheet(ids, stored, entryID, presentEntry)
	if !slices.Equal(filled, stored) {
		if err := s.store.Save(ctx, key, filled); err != nil {
			return StaffAttendanceSheet{}, fmt.Errorf("save %s: %w", key, err)
		}
	}
	return StaffAttendanceSheet{
		Date:    date,
		Entries: filled,
		Tally:   core.TallyStaffAttendance(ids, filled),
	}, nil
}

func (s *School) SetStaffAttendance(ctx context.Context, date, staffID string, present bool) (StaffAttendanceSheet, error) {
	if err := core.ValidateDate(date); err != nil {
		return StaffAttendanceSheet{}, err
	}
	staff, err := s.ListStaff(ctx)
	if err != nil {
		return StaffAttendanceSheet{}, err
	}
	ids := staffIDs(staff)
	if !slices.Contains(ids, staffID) {
		return StaffAttendanceSheet{}, core.ErrNotFound
	}
	key := records.StaffAttendanceKey(date)
	stored, err := records.LoadList[core.StaffAttendanceEntry](ctx, s.store, key)
	if err != nil {
		return StaffAttendanceSheet{}, err
	}

	filled := fillSheet(ids, stored, entryID, presentEntry)
	for i := range filled {
		if filled[i].StaffID == staffID {
			filled[i].Present = present
		}
	}
	if err := s.store.Save(ctx, key, filled); err != nil {
		return StaffAttendanceSheet{}, fmt.Errorf("save %s: %w", key, err)
	}
	return StaffAttendanceSheet{
		Date:    date,
		Entries: filled,
		Tally:   core.TallyStaffAttendance(ids, filled),
	}, nil
}
