package persistence

import (
	"strings"

	"github.com/surroundaustralia/rdfx/graph"
)

// EncodeComments prepends leading comment lines to a serialized body.
// Comments are only meaningful in Turtle; any other format combined
// with comments is a configuration error, as is a comment that already
// starts with '#' (the codec adds that prefix). The result never ends
// with two blank lines.
func EncodeComments(body string, format graph.Format, comments []string) (string, error) {
	if len(comments) == 0 {
		return body, nil
	}
	if format != graph.FormatTurtle {
		return "", invalidConfigf("leading comments require turtle output, got %q", format)
	}
	for _, c := range comments {
		if strings.HasPrefix(c, "#") {
			return "", invalidConfigf("leading comment %q may not start with '#'; it is added automatically", c)
		}
	}

	var sb strings.Builder
	for _, c := range comments {
		sb.WriteString("# ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(body)

	out := sb.String()
	if strings.HasSuffix(out, "\n\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out, nil
}

// DecodeComments extracts the leading comment block from a raw
// document. For non-Turtle formats the document is returned unchanged
// with no comments. For Turtle, contiguous '#' lines from the start
// are collected (with the "# " prefix stripped) until the first blank
// or non-comment line. The raw text is returned whole; Turtle parsers
// treat the comment block as a no-op prefix.
func DecodeComments(raw string, format graph.Format) ([]string, string) {
	if format != graph.FormatTurtle {
		return nil, raw
	}

	var comments []string
	for _, line := range strings.Split(raw, "\n") {
		if !strings.HasPrefix(line, "#") {
			break
		}
		c := strings.TrimPrefix(line, "#")
		c = strings.TrimPrefix(c, " ")
		comments = append(comments, c)
	}
	return comments, raw
}

// EncodeDocument serializes a graph and attaches leading comments.
func EncodeDocument(g *graph.Graph, format graph.Format, comments []string) (string, error) {
	body, err := g.Serialize(format)
	if err != nil {
		return "", invalidConfigf("%v", err)
	}
	return EncodeComments(body, format, comments)
}

// DecodeDocument splits a raw document into leading comments and a
// parsed graph.
func DecodeDocument(raw string, format graph.Format) ([]string, *graph.Graph, error) {
	comments, body := DecodeComments(raw, format)
	g, err := graph.ParseString(body, format)
	if err != nil {
		return nil, nil, &ParseError{Format: format, Err: err}
	}
	return comments, g, nil
}
