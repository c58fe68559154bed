package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStorePutGetKeys(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, found, err := s.Get(ctx, "students"); found || err != nil {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}

	for _, k := range []string{"attendance:Grade 5 - A:2024-02-02", "attendance:Grade 5 - A:2024-02-01", "students"} {
		if err := s.Put(ctx, k, []byte(`[]`)); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	keys, err := s.Keys(ctx, "attendance:")
	if err != nil || len(keys) != 2 {
		t.Fatalf("unexpected keys: %v err=%v", keys, err)
	}
	if keys[0] != "attendance:Grade 5 - A:2024-02-01" {
		t.Fatalf("keys not sorted: %v", keys)
	}

	if err := s.Delete(ctx, "students"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 docs, got %d", s.Len())
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Put(ctx, "k", []byte("abc"))
	v, _, _ := s.Get(ctx, "k")
	v[0] = 'z'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through Get: %q", again)
	}
}

func TestNewFromFileSeeds(t *testing.T) {
	dir := t.TempDir()
	if s := NewFromFile(filepath.Join(dir, "missing.json")); s.Len() != 0 {
		t.Fatalf("expected empty store for missing seed")
	}

	path := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(path, []byte(`{"students":[{"id":"s1"}],"staff":[]}`), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s := NewFromFile(path)
	v, found, _ := s.Get(context.Background(), "students")
	if !found || string(v) != `[{"id":"s1"}]` {
		t.Fatalf("unexpected seeded doc: %q found=%v", v, found)
	}
}
