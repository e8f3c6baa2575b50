package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shiplog/internal/config"
	"shiplog/internal/core"
)

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SHIPLOG_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHIPLOG_TEST_VALUE", "")
	os.Unsetenv("SHIPLOG_TEST_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("SHIPLOG_TEST_VALUE"); got != "from-file" {
		t.Errorf("SHIPLOG_TEST_VALUE = %q, want from-file", got)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "debug")
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("LoadAndValidateConfig: %v", err)
	}
	if cfg.StoreBackend != "memory" {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}

	t.Setenv("STORE_BACKEND", "postgres")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Error("expected validation error for unknown backend")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	logger := SetupLogger("error")
	cfg := &config.Config{StoreBackend: "file", DataDir: t.TempDir()}

	s, err := OpenStore(ctx, logger, cfg)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	d, _ := core.ParseDate("2025-03-01")
	if err := s.Upsert(ctx, d, 7); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if n, ok := s.Get(ctx, d); !ok || n != 7 {
		t.Errorf("Get = %d, %v", n, ok)
	}
}
