package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	exportout "tempo/internal/modules/export/adapter/out"
)

func writeManifests(t *testing.T, base, raw string) {
	t.Helper()
	dir := filepath.Join(base, "exporters")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir exporters: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "exporters.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write exporters.json: %v", err)
	}
}

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := exportout.NewFileManifestStore(t.TempDir())
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
	base := t.TempDir()
	writeManifests(t, base, `[
  {
    "name": "reference",
    "version": "1.0.0",
    "binary": "exporters/reference/reference-exporter",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "formats": ["markdown"]
  }
]`)
	store := exportout.NewFileManifestStore(base)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if !filepath.IsAbs(manifests[0].Binary) {
		t.Fatalf("expected absolute binary path, got %s", manifests[0].Binary)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writeManifests(t, base, `[
  {
    "name": "reference",
    "version": "1.0.0",
    "binary": "/tmp/reference-exporter",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "formats": ["markdown"],
    "unknown_field": true
  }
]`)
	store := exportout.NewFileManifestStore(base)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
