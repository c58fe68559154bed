package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"schooldesk/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "redis", RedisURL: "redis://localhost:6379/0"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != RedisBackend {
		t.Errorf("Type = %v, want redis", cfg.Type)
	}
	if cfg.RedisKeyPrefix == "" {
		t.Error("RedisKeyPrefix should default to a non-empty prefix")
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("FromAppConfig() should reject unknown backends")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("FromAppConfig(nil) should fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory without seed", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"redis without url", Config{Type: RedisBackend}, true},
		{"unknown type", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend_Memory(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(seed, []byte(`{"tenant/demo/students":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, SeedFile: seed})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	if _, found, err := res.Store.Get(context.Background(), "tenant/demo/students"); err != nil || !found {
		t.Errorf("seeded key not found: found=%v err=%v", found, err)
	}
	if err := res.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestCreateBackend_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "schooldesk.db")

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: dbPath})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	ctx := context.Background()
	if err := res.Store.Put(ctx, "students", []byte(`[]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := res.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestConfig_ValidateListsBackends(t *testing.T) {
	err := Config{Type: "sheets"}.Validate()
	if err == nil {
		t.Fatal("Validate() should reject unknown backend types")
	}
	for _, name := range GetBackendTypeStrings() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %q", err, name)
		}
	}
}
