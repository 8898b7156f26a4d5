package graph_test

import (
	"errors"
	"testing"

	"github.com/surroundaustralia/rdfx/graph"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		token string
		want  graph.Format
	}{
		{"ttl", graph.FormatTurtle},
		{"turtle", graph.FormatTurtle},
		{"json", graph.FormatJSONLD},
		{"json-ld", graph.FormatJSONLD},
		{"jsonld", graph.FormatJSONLD},
		{"owl", graph.FormatXML},
		{"xml", graph.FormatXML},
		{"rdf", graph.FormatXML},
		{"nt", graph.FormatNTriples},
		{"n3", graph.FormatN3},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := graph.ParseFormat(tt.token)
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseFormatUnknown(t *testing.T) {
	_, err := graph.ParseFormat("trig")
	if !errors.Is(err, graph.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	// matching is case-sensitive
	_, err = graph.ParseFormat("TTL")
	if err == nil {
		t.Error("expected error for upper-case token")
	}
}

func TestGuessFormat(t *testing.T) {
	tests := []struct {
		path string
		want graph.Format
	}{
		{"data/people.ttl", graph.FormatTurtle},
		{"ontology.owl", graph.FormatXML},
		{"dump.nt", graph.FormatNTriples},
		{"doc.json-ld", graph.FormatJSONLD},
		{"doc.jsonld", graph.FormatJSONLD},
	}

	for _, tt := range tests {
		got, err := graph.GuessFormat(tt.path)
		if err != nil {
			t.Errorf("GuessFormat(%q) error = %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("GuessFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if _, err := graph.GuessFormat("README"); err == nil {
		t.Error("expected error for path without extension")
	}
	if _, err := graph.GuessFormat("notes.txt"); !errors.Is(err, graph.ErrUnsupportedFormat) {
		t.Error("expected ErrUnsupportedFormat for .txt")
	}
}

func TestFormatSuffix(t *testing.T) {
	if got := graph.FormatTurtle.Suffix(); got != "ttl" {
		t.Errorf("turtle suffix = %q, want ttl", got)
	}
	if got := graph.FormatJSONLD.Suffix(); got != "json-ld" {
		t.Errorf("json-ld suffix = %q, want json-ld", got)
	}
}

func TestFormatMIMEType(t *testing.T) {
	if got := graph.FormatTurtle.MIMEType(); got != "text/turtle" {
		t.Errorf("turtle MIME = %q", got)
	}
	if got := graph.FormatXML.MIMEType(); got != "application/rdf+xml" {
		t.Errorf("xml MIME = %q", got)
	}
}

func TestFileEndingsOrder(t *testing.T) {
	want := []string{"ttl", "turtle", "json", "json-ld", "jsonld", "owl", "xml", "rdf", "nt", "n3"}
	got := graph.FileEndings()
	if len(got) != len(want) {
		t.Fatalf("expected %d endings, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ending[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
