// Package graph wraps an RDF triple collection with parsing and
// serialization across the five formats rdfx understands: Turtle,
// RDF/XML, JSON-LD, N-Triples and N3.
//
// The triple and term model comes from github.com/knakk/rdf; this
// package adds the format table, prefix handling, the serializers the
// persistence backends need, and merge/comparison helpers. Persistence
// backends treat a Graph as an opaque payload - they never inspect its
// statements beyond serializing or parsing them as a unit.
package graph
