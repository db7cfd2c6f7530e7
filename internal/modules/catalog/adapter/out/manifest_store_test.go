package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	catalogout "shelfmate/internal/modules/catalog/adapter/out"
)

func writeManifests(t *testing.T, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plugins", "plugins.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir plugins: %v", err)
	}
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	return path
}

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := catalogout.NewFileManifestStore(filepath.Join(t.TempDir(), "plugins.json"))
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	path := writeManifests(t, `[
  {
    "name": "shelf",
    "version": "1.0.0",
    "binary": "bin/shelf-catalog",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "capabilities": ["search", "isbn"]
  }
]`)
	manifests, err := catalogout.NewFileManifestStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	want := filepath.Join(filepath.Dir(path), "bin", "shelf-catalog")
	if manifests[0].Binary != want {
		t.Fatalf("expected binary %s, got %s", want, manifests[0].Binary)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	path := writeManifests(t, `[
  {
    "name": "shelf",
    "version": "1.0.0",
    "binary": "/tmp/shelf-catalog",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "capabilities": ["search"],
    "unknown_field": true
  }
]`)
	if _, err := catalogout.NewFileManifestStore(path).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
