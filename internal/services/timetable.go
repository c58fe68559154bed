package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"schooldesk/internal/core"
	"schooldesk/internal/records"
)

// Timetable returns the 5 by 6 grid of className. Each day is decoded on its
// own, so one malformed day becomes a blank row without losing the others.
func (s *School) Timetable(ctx context.Context, className string) (core.Timetable, error) {
	if !core.IsClass(className) {
		return nil, core.ErrUnknownClass
	}
	days, err := records.LoadMap[json.RawMessage](ctx, s.store, records.TimetableKey(className))
	if err != nil {
		return nil, err
	}
	tt := make(core.Timetable, len(days))
	for day, raw := range days {
		cells, _ := records.DecodeList[core.TimetableCell](raw, true)
		tt[day] = cells
	}
	return tt.Normalize(), nil
}

func (s *School) SetTimetableCell(ctx context.Context, className string, in TimetableCellInput) (core.Timetable, error) {
	if !core.IsClass(className) {
		return nil, core.ErrUnknownClass
	}
	in.Subject = strings.TrimSpace(in.Subject)
	in.Teacher = strings.TrimSpace(in.Teacher)
	if err := check(s.validate, in); err != nil {
		return nil, err
	}
	tt, err := s.Timetable(ctx, className)
	if err != nil {
		return nil, err
	}
	if err := tt.Set(in.Day, in.Period, core.TimetableCell{Subject: in.Subject, Teacher: in.Teacher}); err != nil {
		return nil, err
	}
	key := records.TimetableKey(className)
	if err := s.store.Save(ctx, key, tt); err != nil {
		return nil, fmt.Errorf("save %s: %w", key, err)
	}
	return tt, nil
}
