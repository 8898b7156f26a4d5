package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"
)

// Parse reads RDF in the given format into a new graph.
//
// Turtle and N3 share the Turtle parser: N3 input in this toolchain is
// always the Turtle subset, and knakk/rdf has no dedicated N3 decoder.
func Parse(r io.Reader, format Format) (*Graph, error) {
	switch format {
	case FormatTurtle, FormatN3:
		return parseTurtle(r)
	case FormatNTriples:
		return decodeTriples(r, rdf.NTriples)
	case FormatXML:
		return decodeTriples(r, rdf.RDFXML)
	case FormatJSONLD:
		return parseJSONLD(r)
	default:
		return nil, fmt.Errorf("%w: %q (must be one of %s)", ErrUnsupportedFormat, format, validFormatList())
	}
}

// ParseString is Parse over an in-memory document.
func ParseString(doc string, format Format) (*Graph, error) {
	return Parse(strings.NewReader(doc), format)
}

// prefixDirective matches Turtle @prefix and SPARQL-style PREFIX
// declarations. The decoder expands prefixed names itself; the scan
// only recovers the bindings so they survive re-serialization.
var prefixDirective = regexp.MustCompile(`(?mi)^\s*@?prefix\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)

func parseTurtle(r io.Reader) (*Graph, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read Turtle document: %w", err)
	}

	g, err := decodeTriples(strings.NewReader(string(raw)), rdf.Turtle)
	if err != nil {
		return nil, err
	}

	for _, m := range prefixDirective.FindAllStringSubmatch(string(raw), -1) {
		g.Bind(m[1], m[2])
	}
	return g, nil
}

func decodeTriples(r io.Reader, format rdf.Format) (*Graph, error) {
	dec := rdf.NewTripleDecoder(r, format)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("parse RDF: %w", err)
	}
	g := New()
	for _, t := range triples {
		g.Add(t)
	}
	return g, nil
}

// parseJSONLD converts a JSON-LD document to N-Quads via json-gold and
// decodes the default graph. Named graphs are rejected by the N-Triples
// decoder; rdfx only ever deals in context-less graphs.
func parseJSONLD(r io.Reader) (*Graph, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read JSON-LD document: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse JSON-LD: %w", err)
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"

	res, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("parse JSON-LD: %w", err)
	}
	nquads, ok := res.(string)
	if !ok {
		return nil, fmt.Errorf("parse JSON-LD: unexpected %T result from processor", res)
	}

	g, err := decodeTriples(strings.NewReader(nquads), rdf.NTriples)
	if err != nil {
		return nil, err
	}

	// Recover prefix bindings from a @context object so JSON-LD to
	// Turtle conversions keep their namespaces.
	if top, ok := doc.(map[string]any); ok {
		if ctx, ok := top["@context"].(map[string]any); ok {
			for prefix, v := range ctx {
				if ns, ok := v.(string); ok && !strings.HasPrefix(prefix, "@") {
					g.Bind(prefix, ns)
				}
			}
		}
	}
	return g, nil
}
