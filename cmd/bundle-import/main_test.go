package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"traffic-hotspot-api/bundle"
	"traffic-hotspot-api/internal/testutil"
)

func TestImportBundle(t *testing.T) {
	dir := testutil.WriteArtifacts(t, testutil.BundleArtifacts(t, []int64{5, 6, 7}))
	dbPath := filepath.Join(t.TempDir(), "bundle.db")

	b, err := importBundle(context.Background(), dir, dbPath)
	if err != nil {
		t.Fatalf("importBundle failed: %v", err)
	}
	if b.Schema.Len() != 3 {
		t.Errorf("categories = %d, want 3", b.Schema.Len())
	}

	store, err := bundle.OpenSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLiteStore failed: %v", err)
	}
	defer store.Close()

	loaded, err := bundle.Load(context.Background(), store)
	if err != nil {
		t.Fatalf("Load from imported store failed: %v", err)
	}
	if got := loaded.Schema.IDs(); len(got) != 3 || got[0] != 5 {
		t.Errorf("schema ids = %v", got)
	}
}

func TestImportBundleRejectsInvalid(t *testing.T) {
	t.Run("missing artifact", func(t *testing.T) {
		dir := testutil.WriteArtifacts(t, testutil.BundleArtifacts(t, []int64{1}))
		if err := os.Remove(filepath.Join(dir, bundle.MetadataArtifact)); err != nil {
			t.Fatal(err)
		}
		dbPath := filepath.Join(t.TempDir(), "bundle.db")

		_, err := importBundle(context.Background(), dir, dbPath)
		var loadErr *bundle.LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("err = %v, want *bundle.LoadError", err)
		}
		if loadErr.Artifact != bundle.MetadataArtifact {
			t.Errorf("Artifact = %q", loadErr.Artifact)
		}
		if _, statErr := os.Stat(dbPath); !errors.Is(statErr, os.ErrNotExist) {
			t.Error("no bundle file should be written for an invalid import")
		}
	})

	t.Run("corrupt artifact", func(t *testing.T) {
		dir := testutil.WriteArtifacts(t, testutil.BundleArtifacts(t, []int64{1}))
		if err := os.WriteFile(filepath.Join(dir, bundle.ClassifierArtifact), []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := importBundle(context.Background(), dir, filepath.Join(t.TempDir(), "bundle.db")); err == nil {
			t.Error("expected error for corrupt classifier")
		}
	})
}
