package graph

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a canonical RDF serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatXML produces RDF/XML (.xml) output.
	FormatXML Format = "xml"

	// FormatJSONLD produces JSON-LD (.json-ld) output.
	FormatJSONLD Format = "json-ld"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "nt"

	// FormatN3 produces Notation3 (.n3) output.
	FormatN3 Format = "n3"
)

// Formats lists the canonical formats in table order.
var Formats = []Format{FormatTurtle, FormatXML, FormatJSONLD, FormatNTriples, FormatN3}

// ErrUnsupportedFormat is returned for tokens outside the format table.
var ErrUnsupportedFormat = fmt.Errorf("unsupported RDF format")

// fileEndingOrder preserves the table's insertion order. Directory
// expansion depends on this order, so it must stay a slice, not a map.
var fileEndingOrder = []string{
	"ttl", "turtle", "json", "json-ld", "jsonld", "owl", "xml", "rdf", "nt", "n3",
}

// fileEndings maps recognized file-extension tokens to canonical formats.
var fileEndings = map[string]Format{
	"ttl":     FormatTurtle,
	"turtle":  FormatTurtle,
	"json":    FormatJSONLD,
	"json-ld": FormatJSONLD,
	"jsonld":  FormatJSONLD,
	"owl":     FormatXML,
	"xml":     FormatXML,
	"rdf":     FormatXML,
	"nt":      FormatNTriples,
	"n3":      FormatN3,
}

// FormatInfo provides metadata about a serialization format.
type FormatInfo struct {
	// Name is the canonical format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Suffix is the output file extension (without dot).
	Suffix string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle:   {Name: FormatTurtle, MIMEType: "text/turtle", Suffix: "ttl"},
	FormatXML:      {Name: FormatXML, MIMEType: "application/rdf+xml", Suffix: "xml"},
	FormatJSONLD:   {Name: FormatJSONLD, MIMEType: "application/ld+json", Suffix: "json-ld"},
	FormatNTriples: {Name: FormatNTriples, MIMEType: "application/n-triples", Suffix: "nt"},
	FormatN3:       {Name: FormatN3, MIMEType: "text/n3", Suffix: "n3"},
}

// Valid reports whether f is one of the canonical formats.
func (f Format) Valid() bool {
	_, ok := FormatRegistry[f]
	return ok
}

// Suffix returns the output file extension for f. Turtle output is
// normalized to "ttl"; every other format keeps its identifier.
func (f Format) Suffix() string {
	if info, ok := FormatRegistry[f]; ok {
		return info.Suffix
	}
	return string(f)
}

// MIMEType returns the MIME type for f, or an empty string for
// unrecognized formats.
func (f Format) MIMEType() string {
	return FormatRegistry[f].MIMEType
}

// ParseFormat resolves a file-extension token or canonical identifier
// to its canonical format. Token matching is case-sensitive.
func ParseFormat(token string) (Format, error) {
	if f, ok := fileEndings[token]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (must be one of %s)", ErrUnsupportedFormat, token, validFormatList())
}

// GuessFormat derives the format from a file path's extension.
func GuessFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no file extension", ErrUnsupportedFormat, path)
	}
	f, ok := fileEndings[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q (must be one of %s)", ErrUnsupportedFormat, ext, validFormatList())
	}
	return f, nil
}

// FileEndings returns the recognized extension tokens in table order.
func FileEndings() []string {
	out := make([]string, len(fileEndingOrder))
	copy(out, fileEndingOrder)
	return out
}

func validFormatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
