package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"schooldesk/internal/amqp"
	applog "schooldesk/internal/log"
	"schooldesk/internal/records"
	"schooldesk/internal/report"
	"schooldesk/internal/services"
	"schooldesk/internal/sheets"
)

// SnapshotWorker keeps report files on disk, and optionally in a spreadsheet,
// in step with the stored collections.
type SnapshotWorker struct {
	dir       string
	directory *services.Directory
	sink      sheets.ReportSink
	timeout   time.Duration
	logger    *applog.Logger
}

// NewSnapshotWorker writes snapshots under dir. sink may be nil.
func NewSnapshotWorker(dir string, directory *services.Directory, sink sheets.ReportSink, timeout time.Duration, logger *applog.Logger) *SnapshotWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SnapshotWorker{
		dir:       dir,
		directory: directory,
		sink:      sink,
		timeout:   timeout,
		logger:    logger.WithComponent(applog.ComponentWorker),
	}
}

// KindsFor maps a changed collection key to the reports that read it.
func KindsFor(key string) []report.Kind {
	switch {
	case key == records.KeyStudents:
		return []report.Kind{report.Students, report.Attendance, report.FeesSummary}
	case key == records.KeyFees:
		return []report.Kind{report.FeesSummary}
	case strings.HasPrefix(key, records.AttendancePrefix):
		return []report.Kind{report.Attendance}
	case key == records.KeyStaff, key == records.KeyStaffPerformance:
		return []report.Kind{report.StaffPerformance}
	default:
		return nil
	}
}

// Handle processes one change event from AMQP.
func (w *SnapshotWorker) Handle(ctx context.Context, ev *amqp.ChangeEvent) error {
	kinds := KindsFor(ev.Key)
	if len(kinds) == 0 {
		w.logger.DebugContext(ctx, "Change does not affect any report",
			applog.FieldTenant, ev.Tenant,
			applog.FieldKey, ev.Key)
		return nil
	}
	return w.Snapshot(ctx, ev.Tenant, kinds...)
}

// SnapshotAll regenerates every report of every known tenant.
func (w *SnapshotWorker) SnapshotAll(ctx context.Context) error {
	tenants, err := w.directory.Tenants(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}
	for _, tenant := range tenants {
		if err := w.Snapshot(ctx, tenant, report.Kinds...); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot rebuilds the given reports of one tenant concurrently.
func (w *SnapshotWorker) Snapshot(ctx context.Context, tenant string, kinds ...report.Kind) error {
	if !safeTenant(tenant) {
		return fmt.Errorf("invalid tenant %q", tenant)
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	builder := report.NewBuilder(w.directory.ForTenant(tenant).Records())
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		g.Go(func() error {
			return w.snapshotOne(gctx, tenant, builder, kind)
		})
	}
	return g.Wait()
}

func (w *SnapshotWorker) snapshotOne(ctx context.Context, tenant string, builder *report.Builder, kind report.Kind) error {
	start := time.Now()
	t, err := builder.Build(ctx, kind)
	if err != nil {
		return fmt.Errorf("build %s for %s: %w", kind, tenant, err)
	}

	dir := filepath.Join(w.dir, tenant)
	for _, format := range []report.Format{report.CSV, report.XLSX} {
		path := filepath.Join(dir, kind.Filename(format))
		if err := writeFileAtomic(path, func(out io.Writer) error { return report.Write(out, t, format) }); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	if w.sink != nil {
		if err := w.sink.WriteReport(ctx, tenant, t); err != nil {
			return fmt.Errorf("push %s for %s: %w", kind, tenant, err)
		}
	}

	w.logger.InfoContext(ctx, "Report snapshot written",
		applog.FieldTenant, tenant,
		applog.FieldReport, string(kind),
		applog.FieldOperation, applog.OpSnapshot,
		"rows", len(t.Rows),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place, so readers never see a partial report.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// safeTenant rejects names that would escape the snapshot directory.
func safeTenant(tenant string) bool {
	if tenant == "" || strings.HasPrefix(tenant, ".") {
		return false
	}
	return !strings.ContainsAny(tenant, `/\`)
}
