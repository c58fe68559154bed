package storage

import (
	"context"
	"path/filepath"
	"testing"

	"schooldesk/internal/core"
	"schooldesk/internal/records"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, found, err := s.Get(ctx, "students"); found || err != nil {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}
	if err := s.Put(ctx, "students", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "students", []byte(`[{"id":"b"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, found, err := s.Get(ctx, "students")
	if err != nil || !found || string(v) != `[{"id":"b"}]` {
		t.Fatalf("get: %q found=%v err=%v", v, found, err)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Fatalf("expected 1 row after overwrite, got %d", n)
	}
	if err := s.Delete(ctx, "students"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, "students"); found {
		t.Fatalf("expected key removed")
	}
}

func TestSQLiteStoreKeysWithPrefix(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, k := range []string{
		"attendance:Grade 5 - A:2024-02-02",
		"attendance:Grade 1 - A:2024-02-01",
		"staffAttendance:2024-02-01",
		"students",
	} {
		if err := s.Put(ctx, k, []byte(`[]`)); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	keys, err := s.Keys(ctx, "attendance:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "attendance:Grade 1 - A:2024-02-01" {
		t.Fatalf("unexpected keys %v", keys)
	}
	all, _ := s.Keys(ctx, "")
	if len(all) != 4 {
		t.Fatalf("expected 4 keys, got %v", all)
	}
}

func TestSQLiteStoreThroughRecordStore(t *testing.T) {
	ctx := context.Background()
	store := records.NewStore(records.Namespace(newTestStore(t), "greenhill"), nil)

	in := []core.Expense{{ID: "e1", Date: "2024-01-05", Category: "Utilities", Amount: core.Money{Cents: 1250}}}
	if err := store.Save(ctx, records.KeyExpenses, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := records.LoadList[core.Expense](ctx, store, records.KeyExpenses)
	if err != nil || len(out) != 1 || out[0] != in[0] {
		t.Fatalf("round trip: %+v err=%v", out, err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	_ = s.Close()
	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	_ = s.Close()
}
