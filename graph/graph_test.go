package graph_test

import (
	"strings"
	"testing"

	"github.com/surroundaustralia/rdfx/graph"
)

const kennedysFragment = `@prefix ex: <http://example.org/kennedys/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:john
    a ex:Person ;
    ex:firstName "John" ;
    ex:birthYear "1917"^^xsd:integer ;
    ex:spouse ex:jacqueline .

ex:jacqueline
    a ex:Person ;
    ex:firstName "Jacqueline" .
`

func mustParse(t *testing.T, doc string, format graph.Format) *graph.Graph {
	t.Helper()
	g, err := graph.ParseString(doc, format)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	return g
}

func TestParseTurtle(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatTurtle)
	if g.Len() != 6 {
		t.Errorf("expected 6 statements, got %d", g.Len())
	}
}

func TestAddDeduplicates(t *testing.T) {
	a := mustParse(t, "<http://example.org/a> <http://example.org/p> \"x\" .\n", graph.FormatNTriples)
	b := mustParse(t, "<http://example.org/a> <http://example.org/p> \"x\" .\n", graph.FormatNTriples)

	a.Merge(b)
	if a.Len() != 1 {
		t.Errorf("expected duplicate statement to collapse, got %d", a.Len())
	}
}

func TestMergeCombinesGraphs(t *testing.T) {
	a := mustParse(t, "<http://example.org/a> <http://example.org/p> \"x\" .\n", graph.FormatNTriples)
	b := mustParse(t, "<http://example.org/b> <http://example.org/p> \"y\" .\n", graph.FormatNTriples)

	a.Merge(b)
	if a.Len() != 2 {
		t.Errorf("expected 2 statements after merge, got %d", a.Len())
	}
}

func TestMergeOverridesPrefixBinding(t *testing.T) {
	a := graph.New()
	a.Bind("ex", "http://example.org/first/")
	b := graph.New()
	b.Bind("ex", "http://example.org/second/")
	b.Bind("other", "http://example.org/other/")

	a.Merge(b)
	prefixes := a.Prefixes()
	if prefixes["ex"] != "http://example.org/second/" {
		t.Errorf("expected incoming binding to win, got %s", prefixes["ex"])
	}
	if prefixes["other"] != "http://example.org/other/" {
		t.Error("expected new prefix to be adopted")
	}
}

func TestParseRecoversPrefixes(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatTurtle)
	if g.Prefixes()["ex"] != "http://example.org/kennedys/" {
		t.Errorf("expected ex prefix recovered, got %q", g.Prefixes()["ex"])
	}
}

func TestIsomorphic(t *testing.T) {
	a := mustParse(t, kennedysFragment, graph.FormatTurtle)
	b := mustParse(t, kennedysFragment, graph.FormatTurtle)
	if !a.Isomorphic(b) {
		t.Error("identical graphs must be isomorphic")
	}

	c := mustParse(t, "<http://example.org/a> <http://example.org/p> \"x\" .\n", graph.FormatNTriples)
	if a.Isomorphic(c) {
		t.Error("different graphs must not be isomorphic")
	}
}

func TestIsomorphicIgnoresBlankNodeLabels(t *testing.T) {
	a := mustParse(t, "_:x <http://example.org/p> \"v\" .\n", graph.FormatNTriples)
	b := mustParse(t, "_:y <http://example.org/p> \"v\" .\n", graph.FormatNTriples)
	if !a.Isomorphic(b) {
		t.Error("graphs differing only in blank node labels must be isomorphic")
	}
}

func TestSerializeNTriples(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatTurtle)
	out, err := g.Serialize(graph.FormatNTriples)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Errorf("expected 6 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, " .") {
			t.Errorf("line missing terminator: %q", line)
		}
	}
	if !strings.Contains(out, `"1917"^^<http://www.w3.org/2001/XMLSchema#integer>`) {
		t.Error("expected typed literal in N-Triples output")
	}
}

func TestSerializeTurtle(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatTurtle)
	out, err := g.Serialize(graph.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if !strings.Contains(out, "@prefix ex: <http://example.org/kennedys/> .") {
		t.Error("expected ex prefix declaration")
	}
	if !strings.Contains(out, "ex:firstName \"John\"") {
		t.Error("expected compacted predicate and literal")
	}
	if !strings.Contains(out, " a ex:Person") && !strings.Contains(out, "a ex:Person") {
		t.Error("expected rdf:type compacted to a")
	}
	if strings.Contains(out, "@prefix xsd") && !strings.Contains(out, "xsd:") {
		t.Error("unused prefix declared")
	}
}

func TestSerializeTurtleOmitsUnusedPrefixes(t *testing.T) {
	g := mustParse(t, "<http://example.org/a> <http://example.org/p> \"x\" .\n", graph.FormatNTriples)
	g.Bind("unused", "http://nowhere.example/")

	out, err := g.Serialize(graph.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.Contains(out, "unused") {
		t.Errorf("unused prefix leaked into output: %s", out)
	}
}

func TestTurtleRoundTrip(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatTurtle)
	out, err := g.Serialize(graph.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	back := mustParse(t, out, graph.FormatTurtle)
	if !g.Isomorphic(back) {
		t.Errorf("turtle round trip lost statements:\n%s", out)
	}
}

func TestXMLRoundTrip(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatTurtle)
	out, err := g.Serialize(graph.FormatXML)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(out, "<rdf:RDF") {
		t.Fatalf("expected RDF/XML envelope, got:\n%s", out)
	}

	back := mustParse(t, out, graph.FormatXML)
	if !g.Isomorphic(back) {
		t.Errorf("xml round trip lost statements:\n%s", out)
	}
}

func TestSerializeXMLDeclaresNamespacesOnRoot(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatTurtle)
	out, err := g.Serialize(graph.FormatXML)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	start := strings.Index(out, "<rdf:RDF")
	if start < 0 {
		t.Fatalf("expected RDF/XML envelope, got:\n%s", out)
	}
	root := out[start : start+strings.Index(out[start:], ">")+1]
	if !strings.Contains(root, `xmlns:ns0="http://example.org/kennedys/"`) {
		t.Errorf("property namespace not declared on root element:\n%s", root)
	}
	body := out[start+len(root):]
	if strings.Contains(body, "xmlns:ns") {
		t.Errorf("inline namespace declaration on a property element:\n%s", body)
	}

	back := mustParse(t, out, graph.FormatXML)
	if back.Len() != g.Len() {
		t.Fatalf("expected %d statements after re-parse, got %d:\n%s", g.Len(), back.Len(), out)
	}
	nt, err := back.Serialize(graph.FormatNTriples)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(nt, `<http://example.org/kennedys/firstName> "John"`) {
		t.Errorf("literal property value lost on re-parse:\n%s", nt)
	}
}

func TestJSONLDRoundTrip(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatTurtle)
	out, err := g.Serialize(graph.FormatJSONLD)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	back := mustParse(t, out, graph.FormatJSONLD)
	if !g.Isomorphic(back) {
		t.Errorf("json-ld round trip lost statements:\n%s", out)
	}
}

func TestN3ReadsAsTurtle(t *testing.T) {
	g := mustParse(t, kennedysFragment, graph.FormatN3)
	if g.Len() != 6 {
		t.Errorf("expected 6 statements, got %d", g.Len())
	}
}

func TestSerializeEmptyGraph(t *testing.T) {
	g := graph.New()
	for _, format := range graph.Formats {
		out, err := g.Serialize(format)
		if err != nil {
			t.Errorf("Serialize(%s) on empty graph failed: %v", format, err)
			continue
		}
		if format == graph.FormatNTriples && out != "" {
			t.Errorf("expected empty N-Triples output, got %q", out)
		}
	}
}
