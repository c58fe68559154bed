package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"schooldesk/internal/core"
	applog "schooldesk/internal/log"
	"schooldesk/internal/records"
)

// StaffRating is a staff member with their current rating. Members never
// rated show the default rating and no update time.
type StaffRating struct {
	Staff     core.Staff `json:"staff"`
	Rating    int        `json:"rating"`
	Notes     string     `json:"notes"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (s *School) Performance(ctx context.Context) ([]StaffRating, error) {
	staff, err := s.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	perf, err := records.LoadMap[core.StaffPerformance](ctx, s.store, records.KeyStaffPerformance)
	if err != nil {
		return nil, err
	}

	out := make([]StaffRating, 0, len(staff))
	for _, m := range staff {
		r := StaffRating{Staff: m, Rating: core.DefaultRating}
		if p, ok := perf[m.ID]; ok {
			r.Rating = p.Rating
			r.Notes = p.Notes
			if !p.UpdatedAt.IsZero() {
				at := p.UpdatedAt
				r.UpdatedAt = &at
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// RateStaff overwrites the performance entry of staffID.
func (s *School) RateStaff(ctx context.Context, staffID string, in RatingInput) (core.StaffPerformance, error) {
	in.Notes = strings.TrimSpace(in.Notes)
	if err := check(s.validate, in); err != nil {
		return core.StaffPerformance{}, err
	}
	staff, err := s.ListStaff(ctx)
	if err != nil {
		return core.StaffPerformance{}, err
	}
	if indexOf(staff, func(m core.Staff) bool { return m.ID == staffID }) < 0 {
		return core.StaffPerformance{}, core.ErrNotFound
	}

	perf, err := records.LoadMap[core.StaffPerformance](ctx, s.store, records.KeyStaffPerformance)
	if err != nil {
		return core.StaffPerformance{}, err
	}
	entry := core.StaffPerformance{
		Rating:    in.Rating,
		Notes:     in.Notes,
		UpdatedAt: s.now().UTC().Truncate(time.Second),
	}
	perf[staffID] = entry
	if err := s.store.Save(ctx, records.KeyStaffPerformance, perf); err != nil {
		return core.StaffPerformance{}, fmt.Errorf("save staff performance: %w", err)
	}
	s.logger.InfoContext(ctx, "Staff rated", applog.FieldStaffID, staffID, "rating", entry.Rating)
	return entry, nil
}
