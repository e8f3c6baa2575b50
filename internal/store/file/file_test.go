package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileKV(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	kv, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, ok, err := kv.Get(ctx, "shipmentData"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := kv.Put(ctx, "shipmentData", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "shipmentData.json")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
	got, ok, err := kv.Get(ctx, "shipmentData")
	if err != nil || !ok || string(got) != "{}" {
		t.Fatalf("get = %q ok=%v err=%v", got, ok, err)
	}

	if err := kv.Delete(ctx, "shipmentData"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx, "shipmentData"); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, got %d", len(entries))
	}
}

func TestFileKVRejectsPathKeys(t *testing.T) {
	kv, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../x", "a/b", `a\b`, ".."} {
		if err := kv.Put(context.Background(), key, nil); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}
