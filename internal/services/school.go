// Package services holds the per-tenant school operations. Every operation
// reads the collections it needs from the record store, applies the change
// and writes each touched document back. There are no cross-key
// transactions; the last write wins.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"schooldesk/internal/branding"
	"schooldesk/internal/core"
	applog "schooldesk/internal/log"
	"schooldesk/internal/records"
)

// School is one tenant's view of the record store.
type School struct {
	tenant   branding.Tenant
	store    *records.Store
	validate *validator.Validate
	logger   *applog.Logger
	now      func() time.Time
	newID    func() string
}

func (s *School) Tenant() branding.Tenant { return s.tenant }

// Records exposes the tenant-scoped store for read-only consumers such as
// report builders.
func (s *School) Records() *records.Store { return s.store }

// Students

func (s *School) ListStudents(ctx context.Context) ([]core.Student, error) {
	return records.LoadList[core.Student](ctx, s.store, records.KeyStudents)
}

func (s *School) CreateStudent(ctx context.Context, in StudentInput) (core.Student, error) {
	in = trimStudent(in)
	if err := check(s.validate, in); err != nil {
		return core.Student{}, err
	}
	list, err := s.ListStudents(ctx)
	if err != nil {
		return core.Student{}, err
	}

	st := studentFromInput(s.newID(), in)
	list = append(list, st)
	if err := s.store.Save(ctx, records.KeyStudents, list); err != nil {
		return core.Student{}, fmt.Errorf("save students: %w", err)
	}
	s.logger.InfoContext(ctx, "Student created", applog.FieldStudentID, st.ID, applog.FieldClass, st.ClassName)
	return st, nil
}

func (s *School) UpdateStudent(ctx context.Context, id string, in StudentInput) (core.Student, error) {
	in = trimStudent(in)
	if err := check(s.validate, in); err != nil {
		return core.Student{}, err
	}
	list, err := s.ListStudents(ctx)
	if err != nil {
		return core.Student{}, err
	}
	i := indexOf(list, func(st core.Student) bool { return st.ID == id })
	if i < 0 {
		return core.Student{}, core.ErrNotFound
	}

	list[i] = studentFromInput(id, in)
	if err := s.store.Save(ctx, records.KeyStudents, list); err != nil {
		return core.Student{}, fmt.Errorf("save students: %w", err)
	}
	return list[i], nil
}

// DeleteStudent removes the student together with their fee ledger and
// their rows on every attendance sheet.
func (s *School) DeleteStudent(ctx context.Context, id string) error {
	list, err := s.ListStudents(ctx)
	if err != nil {
		return err
	}
	i := indexOf(list, func(st core.Student) bool { return st.ID == id })
	if i < 0 {
		return core.ErrNotFound
	}
	list = append(list[:i], list[i+1:]...)
	if err := s.store.Save(ctx, records.KeyStudents, list); err != nil {
		return fmt.Errorf("save students: %w", err)
	}

	fees, err := records.LoadMap[core.StudentLedger](ctx, s.store, records.KeyFees)
	if err != nil {
		return err
	}
	if _, ok := fees[id]; ok {
		delete(fees, id)
		if err := s.store.Save(ctx, records.KeyFees, fees); err != nil {
			return fmt.Errorf("save fees: %w", err)
		}
	}

	keys, err := s.store.KeysWithPrefix(ctx, records.AttendancePrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		sheet, err := records.LoadList[core.AttendanceRecord](ctx, s.store, key)
		if err != nil {
			return err
		}
		kept := filter(sheet, func(r core.AttendanceRecord) bool { return r.StudentID != id })
		if len(kept) == len(sheet) {
			continue
		}
		if err := s.store.Save(ctx, key, kept); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	s.logger.InfoContext(ctx, "Student deleted", applog.FieldStudentID, id)
	return nil
}

// Roster returns the students of className in list order.
func (s *School) Roster(ctx context.Context, className string) ([]core.Student, error) {
	list, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return filter(list, func(st core.Student) bool { return st.ClassName == className }), nil
}

func studentFromInput(id string, in StudentInput) core.Student {
	return core.Student{
		ID:           id,
		AdmissionNo:  in.AdmissionNo,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Gender:       in.Gender,
		DOB:          in.DOB,
		ClassName:    in.ClassName,
		GuardianName: in.GuardianName,
		Contact:      in.Contact,
		DateAdmitted: in.DateAdmitted,
	}
}

// Staff

func (s *School) ListStaff(ctx context.Context) ([]core.Staff, error) {
	return records.LoadList[core.Staff](ctx, s.store, records.KeyStaff)
}

func (s *School) CreateStaff(ctx context.Context, in StaffInput) (core.Staff, error) {
	in = trimStaff(in)
	if err := check(s.validate, in); err != nil {
		return core.Staff{}, err
	}
	list, err := s.ListStaff(ctx)
	if err != nil {
		return core.Staff{}, err
	}

	m := staffFromInput(s.newID(), in)
	list = append(list, m)
	if err := s.store.Save(ctx, records.KeyStaff, list); err != nil {
		return core.Staff{}, fmt.Errorf("save staff: %w", err)
	}
	s.logger.InfoContext(ctx, "Staff member created", applog.FieldStaffID, m.ID)
	return m, nil
}

func (s *School) UpdateStaff(ctx context.Context, id string, in StaffInput) (core.Staff, error) {
	in = trimStaff(in)
	if err := check(s.validate, in); err != nil {
		return core.Staff{}, err
	}
	list, err := s.ListStaff(ctx)
	if err != nil {
		return core.Staff{}, err
	}
	i := indexOf(list, func(m core.Staff) bool { return m.ID == id })
	if i < 0 {
		return core.Staff{}, core.ErrNotFound
	}

	list[i] = staffFromInput(id, in)
	if err := s.store.Save(ctx, records.KeyStaff, list); err != nil {
		return core.Staff{}, fmt.Errorf("save staff: %w", err)
	}
	return list[i], nil
}

// DeleteStaff removes the staff member together with their performance entry
// and their rows on every staff attendance sheet.
func (s *School) DeleteStaff(ctx context.Context, id string) error {
	list, err := s.ListStaff(ctx)
	if err != nil {
		return err
	}
	i := indexOf(list, func(m core.Staff) bool { return m.ID == id })
	if i < 0 {
		return core.ErrNotFound
	}
	list = append(list[:i], list[i+1:]...)
	if err := s.store.Save(ctx, records.KeyStaff, list); err != nil {
		return fmt.Errorf("save staff: %w", err)
	}

	perf, err := records.LoadMap[core.StaffPerformance](ctx, s.store, records.KeyStaffPerformance)
	if err != nil {
		return err
	}
	if _, ok := perf[id]; ok {
		delete(perf, id)
		if err := s.store.Save(ctx, records.KeyStaffPerformance, perf); err != nil {
			return fmt.Errorf("save staff performance: %w", err)
		}
	}

	keys, err := s.store.KeysWithPrefix(ctx, records.StaffAttendancePrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		sheet, err := records.LoadList[core.StaffAttendanceEntry](ctx, s.store, key)
		if err != nil {
			return err
		}
		kept := filter(sheet, func(e core.StaffAttendanceEntry) bool { return e.StaffID != id })
		if len(kept) == len(sheet) {
			continue
		}
		if err := s.store.Save(ctx, key, kept); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	s.logger.InfoContext(ctx, "Staff member deleted", applog.FieldStaffID, id)
	return nil
}

func staffFromInput(id string, in StaffInput) core.Staff {
	return core.Staff{
		ID:         id,
		Name:       in.Name,
		Role:       in.Role,
		Department: in.Department,
		Contact:    in.Contact,
	}
}

func indexOf[T any](list []T, match func(T) bool) int {
	for i, v := range list {
		if match(v) {
			return i
		}
	}
	return -1
}

// filter returns the elements satisfying keep in a new slice; never nil.
func filter[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
