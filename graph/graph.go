package graph

import (
	"regexp"
	"sort"
	"strings"

	"github.com/knakk/rdf"
)

// Graph is a mutable, unordered collection of RDF triples plus the
// prefix bindings used when serializing to Turtle or JSON-LD.
// A Graph is not safe for concurrent mutation.
type Graph struct {
	triples  []rdf.Triple
	index    map[string]struct{}
	prefixes map[string]string
}

// New returns an empty graph with no prefix bindings.
func New() *Graph {
	return &Graph{
		index:    make(map[string]struct{}),
		prefixes: make(map[string]string),
	}
}

// Add inserts a triple, deduplicating on its N-Triples form.
func (g *Graph) Add(t rdf.Triple) {
	key := tripleKey(t)
	if _, ok := g.index[key]; ok {
		return
	}
	g.index[key] = struct{}{}
	g.triples = append(g.triples, t)
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the triples in insertion order. The returned slice
// must not be mutated.
func (g *Graph) Triples() []rdf.Triple {
	return g.triples
}

// Bind associates a prefix with a namespace IRI, replacing any
// existing binding for that prefix.
func (g *Graph) Bind(prefix, namespace string) {
	g.prefixes[prefix] = namespace
}

// Prefixes returns a copy of the current prefix bindings.
func (g *Graph) Prefixes() map[string]string {
	out := make(map[string]string, len(g.prefixes))
	for k, v := range g.prefixes {
		out[k] = v
	}
	return out
}

// Merge adds every triple and prefix binding from other into g.
// Conflicting prefixes from other win, matching rdflib's bind override
// behavior in the original toolchain.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, t := range other.triples {
		g.Add(t)
	}
	for p, ns := range other.prefixes {
		g.prefixes[p] = ns
	}
}

// bnodeLabels blinds blank node labels so graphs that differ only in
// bnode naming still compare equal.
var bnodeLabels = regexp.MustCompile(`_:[A-Za-z0-9]+`)

// Isomorphic reports whether both graphs contain the same statements.
// The comparison is exact for graphs without blank nodes; graphs with
// blank nodes are compared with blinded labels, which can report false
// positives for pathological bnode structures.
func (g *Graph) Isomorphic(other *Graph) bool {
	if other == nil || g.Len() != other.Len() {
		return false
	}
	return strings.Join(g.blindedKeys(), "\n") == strings.Join(other.blindedKeys(), "\n")
}

func (g *Graph) blindedKeys() []string {
	keys := make([]string, 0, len(g.triples))
	for _, t := range g.triples {
		keys = append(keys, bnodeLabels.ReplaceAllString(tripleKey(t), "_:b"))
	}
	sort.Strings(keys)
	return keys
}

func tripleKey(t rdf.Triple) string {
	return t.Subj.Serialize(rdf.NTriples) + " " +
		t.Pred.Serialize(rdf.NTriples) + " " +
		t.Obj.Serialize(rdf.NTriples)
}
