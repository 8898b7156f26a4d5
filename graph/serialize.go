package graph

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"
)

const rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Serialize renders the graph in the given format.
//
// N3 output uses the Turtle writer: every N3 document this toolchain
// produces is the Turtle subset.
func (g *Graph) Serialize(format Format) (string, error) {
	switch format {
	case FormatTurtle, FormatN3:
		return g.serializeTurtle(), nil
	case FormatNTriples:
		return g.serializeNTriples(), nil
	case FormatXML:
		return g.serializeXML(), nil
	case FormatJSONLD:
		return g.serializeJSONLD()
	default:
		return "", fmt.Errorf("%w: %q (must be one of %s)", ErrUnsupportedFormat, format, validFormatList())
	}
}

// serializeNTriples writes one statement per line in insertion order.
func (g *Graph) serializeNTriples() string {
	var sb strings.Builder
	for _, t := range g.triples {
		sb.WriteString(t.Subj.Serialize(rdf.NTriples))
		sb.WriteString(" ")
		sb.WriteString(t.Pred.Serialize(rdf.NTriples))
		sb.WriteString(" ")
		sb.WriteString(t.Obj.Serialize(rdf.NTriples))
		sb.WriteString(" .\n")
	}
	return sb.String()
}

// serializeTurtle groups statements by subject and compresses IRIs
// against the bound prefixes.
func (g *Graph) serializeTurtle() string {
	var sb strings.Builder

	// Emit only the prefixes the statements actually use.
	used := g.usedPrefixes()
	names := make([]string, 0, len(used))
	for p := range used {
		names = append(names, p)
	}
	sort.Strings(names)
	for _, p := range names {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", p, used[p]))
	}
	if len(names) > 0 && len(g.triples) > 0 {
		sb.WriteString("\n")
	}

	subjects, order := g.bySubject()
	for i, subj := range order {
		stmts := subjects[subj]
		sb.WriteString(subj)
		sb.WriteString("\n")
		for j, t := range stmts {
			sb.WriteString("    ")
			sb.WriteString(g.turtlePredicate(t.Pred))
			sb.WriteString(" ")
			sb.WriteString(g.turtleObject(t.Obj))
			if j < len(stmts)-1 {
				sb.WriteString(" ;\n")
			} else {
				sb.WriteString(" .\n")
			}
		}
		if i < len(order)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// bySubject groups triples by their rendered subject, preserving first
// appearance order.
func (g *Graph) bySubject() (map[string][]rdf.Triple, []string) {
	groups := make(map[string][]rdf.Triple)
	var order []string
	for _, t := range g.triples {
		var subj string
		if t.Subj.Type() == rdf.TermBlank {
			subj = t.Subj.Serialize(rdf.NTriples)
		} else {
			subj = g.compressIRI(iriValue(t.Subj))
		}
		if _, ok := groups[subj]; !ok {
			order = append(order, subj)
		}
		groups[subj] = append(groups[subj], t)
	}
	return groups, order
}

func (g *Graph) turtlePredicate(p rdf.Predicate) string {
	iri := iriValue(p)
	if iri == rdfTypeIRI {
		return "a"
	}
	return g.compressIRI(iri)
}

func (g *Graph) turtleObject(o rdf.Object) string {
	switch o.Type() {
	case rdf.TermIRI:
		return g.compressIRI(iriValue(o))
	case rdf.TermLiteral:
		nt := o.Serialize(rdf.NTriples)
		// Compress a trailing datatype IRI when a prefix covers it.
		if idx := strings.LastIndex(nt, `^^<`); idx >= 0 && strings.HasSuffix(nt, ">") {
			dt := nt[idx+3 : len(nt)-1]
			if compressed := g.compressIRI(dt); !strings.HasPrefix(compressed, "<") {
				return nt[:idx] + "^^" + compressed
			}
		}
		return nt
	default:
		return o.Serialize(rdf.NTriples)
	}
}

// usedPrefixes returns the bindings referenced by at least one term.
func (g *Graph) usedPrefixes() map[string]string {
	used := make(map[string]string)
	for _, t := range g.triples {
		for _, term := range []rdf.Term{t.Subj, t.Pred, t.Obj} {
			if term.Type() == rdf.TermBlank {
				continue
			}
			var iris []string
			if term.Type() == rdf.TermIRI {
				iris = append(iris, iriValue(term))
			} else {
				nt := term.Serialize(rdf.NTriples)
				if idx := strings.LastIndex(nt, `^^<`); idx >= 0 && strings.HasSuffix(nt, ">") {
					iris = append(iris, nt[idx+3:len(nt)-1])
				}
			}
			for _, iri := range iris {
				if p, ns, ok := g.matchPrefix(iri); ok {
					used[p] = ns
				}
			}
		}
	}
	return used
}

// localNamePattern restricts prefixed-name locals to characters that
// are safe without escaping under Turtle 1.1.
var localNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

// compressIRI renders an IRI as a prefixed name when a bound namespace
// covers it, otherwise in angle brackets.
func (g *Graph) compressIRI(iri string) string {
	if p, ns, ok := g.matchPrefix(iri); ok {
		return p + ":" + iri[len(ns):]
	}
	return "<" + iri + ">"
}

// matchPrefix finds the longest bound namespace covering iri with a
// safe local name.
func (g *Graph) matchPrefix(iri string) (prefix, namespace string, ok bool) {
	for p, ns := range g.prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if !localNamePattern.MatchString(iri[len(ns):]) {
			continue
		}
		if len(ns) > len(namespace) {
			prefix, namespace, ok = p, ns, true
		}
	}
	return prefix, namespace, ok
}

const rdfXMLNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// serializeXML writes flat rdf:Description blocks, one per statement
// group. Property namespaces are declared once on the root element;
// inline xmlns declarations on property elements confuse some parsers.
func (g *Graph) serializeXML() string {
	groups := make(map[string][]rdf.Triple)
	var order []string
	nsPrefixes := make(map[string]string)
	var nsOrder []string
	for _, t := range g.triples {
		key := t.Subj.Serialize(rdf.NTriples)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)

		ns, _ := splitIRI(iriValue(t.Pred))
		if ns == rdfXMLNamespace {
			continue
		}
		if _, ok := nsPrefixes[ns]; !ok {
			nsPrefixes[ns] = fmt.Sprintf("ns%d", len(nsOrder))
			nsOrder = append(nsOrder, ns)
		}
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"`)
	for _, ns := range nsOrder {
		sb.WriteString(fmt.Sprintf("\n         xmlns:%s=%q", nsPrefixes[ns], xmlEscape(ns)))
	}
	sb.WriteString(">\n")

	for _, key := range order {
		stmts := groups[key]
		subj := stmts[0].Subj
		if subj.Type() == rdf.TermBlank {
			sb.WriteString(fmt.Sprintf("  <rdf:Description rdf:nodeID=%q>\n", strings.TrimPrefix(key, "_:")))
		} else {
			sb.WriteString(fmt.Sprintf("  <rdf:Description rdf:about=%q>\n", xmlEscape(iriValue(subj))))
		}
		for _, t := range stmts {
			writePropertyXML(&sb, t, nsPrefixes)
		}
		sb.WriteString("  </rdf:Description>\n")
	}

	sb.WriteString("</rdf:RDF>\n")
	return sb.String()
}

func writePropertyXML(sb *strings.Builder, t rdf.Triple, nsPrefixes map[string]string) {
	ns, local := splitIRI(iriValue(t.Pred))
	name := "rdf:" + local
	if ns != rdfXMLNamespace {
		name = nsPrefixes[ns] + ":" + local
	}

	switch t.Obj.Type() {
	case rdf.TermIRI:
		sb.WriteString(fmt.Sprintf("    <%s rdf:resource=%q/>\n", name, xmlEscape(iriValue(t.Obj))))
	case rdf.TermBlank:
		nodeID := strings.TrimPrefix(t.Obj.Serialize(rdf.NTriples), "_:")
		sb.WriteString(fmt.Sprintf("    <%s rdf:nodeID=%q/>\n", name, nodeID))
	default:
		lit := splitNTLiteral(t.Obj.Serialize(rdf.NTriples))
		attrs := ""
		if lit.lang != "" {
			attrs = fmt.Sprintf(" xml:lang=%q", lit.lang)
		} else if lit.datatype != "" {
			attrs = fmt.Sprintf(" rdf:datatype=%q", xmlEscape(lit.datatype))
		}
		sb.WriteString(fmt.Sprintf("    <%s%s>%s</%s>\n", name, attrs, xmlEscape(lit.value), name))
	}
}

// serializeJSONLD converts via json-gold, compacting against the bound
// prefixes when any exist.
func (g *Graph) serializeJSONLD() (string, error) {
	if g.Len() == 0 {
		return "[]\n", nil
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.InputFormat = "application/n-quads"

	doc, err := proc.FromRDF(g.serializeNTriples(), opts)
	if err != nil {
		return "", fmt.Errorf("serialize JSON-LD: %w", err)
	}

	if len(g.prefixes) > 0 {
		ctx := make(map[string]any, len(g.prefixes))
		for p, ns := range g.prefixes {
			ctx[p] = ns
		}
		doc, err = proc.Compact(doc, ctx, ld.NewJsonLdOptions(""))
		if err != nil {
			return "", fmt.Errorf("serialize JSON-LD: compact: %w", err)
		}
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize JSON-LD: %w", err)
	}
	return string(out) + "\n", nil
}

// iriValue returns the raw IRI of a term, without angle brackets.
func iriValue(t rdf.Term) string {
	s := t.Serialize(rdf.NTriples)
	return strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
}

// splitIRI separates an IRI into namespace and local name at the last
// '#' or '/'.
func splitIRI(iri string) (namespace, local string) {
	if idx := strings.LastIndexAny(iri, "#/"); idx >= 0 && idx < len(iri)-1 {
		return iri[:idx+1], iri[idx+1:]
	}
	return iri, ""
}

type ntLiteral struct {
	value    string
	lang     string
	datatype string
}

// splitNTLiteral decomposes an N-Triples literal serialization into
// value, language tag and datatype IRI.
func splitNTLiteral(nt string) ntLiteral {
	var lit ntLiteral
	if !strings.HasPrefix(nt, `"`) {
		lit.value = nt
		return lit
	}

	// Find the closing quote, honoring backslash escapes.
	end := -1
	for i := 1; i < len(nt); i++ {
		if nt[i] == '\\' {
			i++
			continue
		}
		if nt[i] == '"' {
			end = i
			break
		}
	}
	if end < 0 {
		lit.value = nt
		return lit
	}

	lit.value = unescapeNT(nt[1:end])
	rest := nt[end+1:]
	switch {
	case strings.HasPrefix(rest, "@"):
		lit.lang = rest[1:]
	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
		lit.datatype = rest[3 : len(rest)-1]
	}
	return lit
}

var ntUnescaper = strings.NewReplacer(
	`\"`, `"`,
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
	`\\`, `\`,
)

func unescapeNT(s string) string {
	return ntUnescaper.Replace(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
