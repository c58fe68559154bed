// Package memory is an in-process ReportSink used when no spreadsheet is
// configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"schooldesk/internal/report"
	ports "schooldesk/internal/sheets"
)

var _ ports.ReportSink = (*Sink)(nil)

type Sink struct {
	mu     sync.Mutex
	tables map[string]report.Table
	writes int
}

func New() *Sink {
	return &Sink{tables: map[string]report.Table{}}
}

func (s *Sink) WriteReport(_ context.Context, tenant string, t report.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	t.Rows = rows
	s.tables[ports.TabName(tenant, t.Kind)] = t
	s.writes++
	return nil
}

// Get returns the last table written for tenant and kind.
func (s *Sink) Get(tenant string, kind report.Kind) (report.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[ports.TabName(tenant, kind)]
	return t, ok
}

// Tabs lists the stored tab names, sorted.
func (s *Sink) Tabs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Sink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
