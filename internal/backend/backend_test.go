package backend

import (
	"context"
	"path/filepath"
	"testing"

	"shiplog/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{StoreBackend: "sqlite", DataDir: "d", SQLiteDBPath: "d/x.db"}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if got.Type != SQLiteBackend || got.DataDirectory != "d" || got.SQLiteDBPath != "d/x.db" {
		t.Errorf("unexpected config: %+v", got)
	}

	if _, err := FromAppConfig(&config.Config{StoreBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file", Config{Type: FileBackend, DataDirectory: "data"}, false},
		{"file without dir", Config{Type: FileBackend}, true},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown", Config{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	configs := []Config{
		{Type: MemoryBackend},
		{Type: FileBackend, DataDirectory: filepath.Join(dir, "files")},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "shiplog.db")},
	}

	ctx := context.Background()
	f := NewFactory(nil)
	for _, cfg := range configs {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := f.CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer res.Cleanup()

			if err := res.KV.Put(ctx, "k", []byte(`{"2025-01-01":1}`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, ok, err := res.KV.Get(ctx, "k")
			if err != nil || !ok || string(got) != `{"2025-01-01":1}` {
				t.Errorf("Get = %q, %v, %v", got, ok, err)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 3 || got[0] != "memory" || got[1] != "file" || got[2] != "sqlite" {
		t.Errorf("unexpected types: %v", got)
	}
}
