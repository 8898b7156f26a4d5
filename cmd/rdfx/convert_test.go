package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/surroundaustralia/rdfx/graph"
)

const sampleTurtle = `# baseURI: http://example.org/
@prefix ex: <http://example.org/> .

ex:a
    ex:name "Alpha" ;
    ex:knows ex:b .
`

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "people.ttl")
	if err := os.WriteFile(src, []byte(sampleTurtle), 0644); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	if err := runConvert(context.Background(), []string{src}, graph.FormatNTriples, outDir, nil); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(outDir, "people.nt"))
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if !strings.Contains(string(out), "\"Alpha\"") {
		t.Errorf("output missing literal: %s", out)
	}
	if strings.Count(strings.TrimSpace(string(out)), "\n")+1 != 2 {
		t.Errorf("expected 2 statements, got: %s", out)
	}
}

func TestRunConvertPreservesComments(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "people.ttl")
	if err := os.WriteFile(src, []byte(sampleTurtle), 0644); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	if err := runConvert(context.Background(), []string{src}, graph.FormatTurtle, outDir, nil); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(outDir, "people.ttl"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "# baseURI: http://example.org/\n") {
		t.Errorf("expected leading comment preserved, got: %s", out)
	}
}

func TestRunConvertExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.ttl", "b.ttl"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sampleTurtle), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not rdf"), 0644); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	if err := runConvert(context.Background(), []string{dir}, graph.FormatNTriples, outDir, nil); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 converted files, got %d", len(entries))
	}
}

func TestRunMerge(t *testing.T) {
	dir := t.TempDir()
	a := `@prefix ex: <http://example.org/> .
ex:a ex:name "Alpha" .
`
	b := `@prefix ex: <http://example.org/> .
ex:a ex:name "Alpha" .
ex:b ex:name "Beta" .
`
	if err := os.WriteFile(filepath.Join(dir, "a.ttl"), []byte(a), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.ttl"), []byte(b), 0644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(t.TempDir(), "merged.nt")
	if err := runMerge(context.Background(), []string{dir}, graph.FormatNTriples, output); err != nil {
		t.Fatalf("runMerge() error = %v", err)
	}

	out, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	// the duplicate ex:a statement must appear once
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 merged statements, got %d: %s", len(lines), out)
	}
}

func TestRunConvertRejectsMissingInput(t *testing.T) {
	err := runConvert(context.Background(), []string{"/no/such/path"}, graph.FormatTurtle, "", nil)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
