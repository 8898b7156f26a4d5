package persistence_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/surroundaustralia/rdfx/persistence"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("<a> <b> <c> .\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPrepareFilesListSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ttl")
	touch(t, path)

	files, err := persistence.PrepareFilesList(path)
	if err != nil {
		t.Fatalf("PrepareFilesList failed: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("expected [%s], got %v", path, files)
	}
}

func TestPrepareFilesListDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.ttl"))
	touch(t, filepath.Join(dir, "b.rdf"))
	touch(t, filepath.Join(dir, "c.json-ld"))
	touch(t, filepath.Join(dir, "notes.txt"))

	files, err := persistence.PrepareFilesList(dir)
	if err != nil {
		t.Fatalf("PrepareFilesList failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 RDF files, got %v", files)
	}

	// extension groups come back in format table order: ttl before
	// json-ld before rdf
	wantOrder := []string{"a.ttl", "c.json-ld", "b.rdf"}
	for i, want := range wantOrder {
		if filepath.Base(files[i]) != want {
			t.Errorf("files[%d] = %s, want %s", i, filepath.Base(files[i]), want)
		}
	}
}

func TestPrepareFilesListDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ttl")
	touch(t, path)

	files, err := persistence.PrepareFilesList(path, dir, path)
	if err != nil {
		t.Fatalf("PrepareFilesList failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 distinct file, got %v", files)
	}
}

func TestPrepareFilesListMixedArgs(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	touch(t, filepath.Join(dirA, "a.ttl"))
	touch(t, filepath.Join(dirB, "b.nt"))
	single := filepath.Join(dirB, "standalone.owl")
	touch(t, single)

	files, err := persistence.PrepareFilesList(dirA, single)
	if err != nil {
		t.Fatalf("PrepareFilesList failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files, got %v", files)
	}
}

func TestPrepareFilesListRejectsMissingPath(t *testing.T) {
	_, err := persistence.PrepareFilesList("/no/such/path")
	if err == nil {
		t.Fatal("expected error for missing path")
	}
	if !errors.Is(err, persistence.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPrepareFilesListEmptyDirectory(t *testing.T) {
	files, err := persistence.PrepareFilesList(t.TempDir())
	if err != nil {
		t.Fatalf("PrepareFilesList failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}
