package worker

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"schooldesk/internal/amqp"
	"schooldesk/internal/core"
	"schooldesk/internal/records"
	"schooldesk/internal/report"
	"schooldesk/internal/services"
	sheetsmem "schooldesk/internal/sheets/memory"
	"schooldesk/internal/storage/memory"
)

func TestKindsFor(t *testing.T) {
	tests := []struct {
		key  string
		want []report.Kind
	}{
		{records.KeyStudents, []report.Kind{report.Students, report.Attendance, report.FeesSummary}},
		{records.KeyFees, []report.Kind{report.FeesSummary}},
		{records.AttendanceKey("Grade 1 - A", "2024-03-01"), []report.Kind{report.Attendance}},
		{records.KeyStaff, []report.Kind{report.StaffPerformance}},
		{records.KeyStaffPerformance, []report.Kind{report.StaffPerformance}},
		{records.KeyExpenses, nil},
		{records.TimetableKey("Grade 1 - A"), nil},
		{records.StaffAttendanceKey("2024-03-01"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := KindsFor(tt.key); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("KindsFor(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func newWorker(t *testing.T) (*SnapshotWorker, *services.Directory, *sheetsmem.Sink, string) {
	t.Helper()
	dir := t.TempDir()
	directory := services.NewDirectory(memory.New(), "samuelmarketplace.com", nil, nil)
	sink := sheetsmem.New()
	return NewSnapshotWorker(dir, directory, sink, 0, nil), directory, sink, dir
}

func TestHandleStudentsChange(t *testing.T) {
	w, directory, sink, dir := newWorker(t)
	ctx := context.Background()

	school := directory.ForTenant("greenhill")
	ada, err := school.CreateStudent(ctx, services.StudentInput{
		AdmissionNo: "A1",
		FirstName:   "Ada",
		LastName:    "Doe",
		Gender:      "Female",
		ClassName:   "Grade 5 - A",
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	// without a ledger the student has no fees row
	if _, err := school.CreateStudent(ctx, services.StudentInput{
		AdmissionNo: "A2",
		FirstName:   "Ben",
		LastName:    "Ray",
		Gender:      "Male",
		ClassName:   "Grade 5 - A",
	}); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if _, err := school.AddLedgerItem(ctx, ada.ID, services.LedgerInput{
		Date:   "2024-01-10",
		Amount: core.Money{Cents: 50000},
		Type:   core.Invoice,
	}); err != nil {
		t.Fatalf("AddLedgerItem: %v", err)
	}

	if err := w.Handle(ctx, amqp.NewChangeEvent("greenhill", records.KeyStudents, amqp.OpSave)); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	for _, kind := range []report.Kind{report.Students, report.Attendance, report.FeesSummary} {
		for _, f := range []report.Format{report.CSV, report.XLSX} {
			path := filepath.Join(dir, "greenhill", kind.Filename(f))
			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected snapshot %s: %v", path, err)
			}
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "greenhill", report.StaffPerformance.Filename(report.CSV))); !os.IsNotExist(err) {
		t.Errorf("staff-performance should not be written for a students change")
	}

	b, err := os.ReadFile(filepath.Join(dir, "greenhill", "students.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"A1","Ada","Doe","Female"`) {
		t.Errorf("students.csv missing row: %s", b)
	}

	if got := sink.Tabs(); len(got) != 3 {
		t.Errorf("sink tabs = %v, want 3", got)
	}
	fees, ok := sink.Get("greenhill", report.FeesSummary)
	if !ok || len(fees.Rows) != 1 || fees.Rows[0][0] != "Ada Doe" || fees.Rows[0][4] != "500" {
		t.Errorf("fees tab = %+v", fees)
	}
}

func TestHandleIgnoresUnrelatedKeys(t *testing.T) {
	w, _, sink, dir := newWorker(t)

	if err := w.Handle(context.Background(), amqp.NewChangeEvent("greenhill", records.KeyExpenses, amqp.OpSave)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if sink.Writes() != 0 {
		t.Errorf("sink writes = %d, want 0", sink.Writes())
	}
	if _, err := os.Stat(filepath.Join(dir, "greenhill")); !os.IsNotExist(err) {
		t.Errorf("no tenant directory expected")
	}
}

func TestSnapshotRejectsUnsafeTenant(t *testing.T) {
	w, _, _, _ := newWorker(t)
	for _, tenant := range []string{"", "..", "../etc", "a/b", `a\b`} {
		if err := w.Snapshot(context.Background(), tenant, report.Students); err == nil {
			t.Errorf("Snapshot(%q) expected error", tenant)
		}
	}
}

func TestSnapshotAll(t *testing.T) {
	w, directory, sink, dir := newWorker(t)
	ctx := context.Background()

	for _, tenant := range []string{"greenhill", "riverside"} {
		if _, err := directory.ForTenant(tenant).CreateStaff(ctx, services.StaffInput{
			Name:       "Grace",
			Role:       "Teacher",
			Department: "Science",
		}); err != nil {
			t.Fatalf("CreateStaff: %v", err)
		}
	}

	if err := w.SnapshotAll(ctx); err != nil {
		t.Fatalf("SnapshotAll: %v", err)
	}
	for _, tenant := range []string{"greenhill", "riverside"} {
		for _, kind := range report.Kinds {
			if _, err := os.Stat(filepath.Join(dir, tenant, kind.Filename(report.CSV))); err != nil {
				t.Errorf("missing %s/%s: %v", tenant, kind, err)
			}
		}
	}
	if sink.Writes() != 2*len(report.Kinds) {
		t.Errorf("sink writes = %d", sink.Writes())
	}
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "students.csv")
	if err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("x"))
		return err
	}); err != nil {
		t.Fatalf("writeFileAtomic: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "students.csv" {
		t.Errorf("entries = %v", entries)
	}
}
