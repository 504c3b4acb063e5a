// Package rdf provides the in-memory triple model for the enrichment
// pipeline: IRI and literal terms, triples, a graph accumulator and
// N-Triples serialization. All escaping of values destined for N-Triples
// or SPARQL text is centralized here.
package rdf

import (
	"fmt"
	"strings"
	"time"
)

// TermKind discriminates IRI terms from literal terms.
type TermKind int

// Term kinds.
const (
	KindIRI TermKind = iota
	KindLiteral
)

// Term is an RDF term: an IRI or a (possibly typed or language-tagged)
// literal. Blank nodes never occur in this pipeline; the triplestore
// results are skolemized upstream.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Language string
}

// NewIRI returns an IRI term.
func NewIRI(value string) Term {
	return Term{Kind: KindIRI, Value: value}
}

// NewLiteral returns a plain literal term.
func NewLiteral(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// NewTypedLiteral returns a literal term with the given datatype IRI.
func NewTypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// NewLangLiteral returns a language-tagged literal term.
func NewLangLiteral(value, language string) Term {
	return Term{Kind: KindLiteral, Value: value, Language: language}
}

// IsIRI reports whether the term is an IRI.
func (t Term) IsIRI() bool {
	return t.Kind == KindIRI
}

// NTriples serializes the term in N-Triples syntax.
func (t Term) NTriples() string {
	if t.Kind == KindIRI {
		return SerializeIRI(t.Value)
	}
	s := `"` + EscapeLiteral(t.Value) + `"`
	if t.Language != "" {
		return s + "@" + t.Language
	}
	if t.Datatype != "" {
		return s + "^^" + SerializeIRI(t.Datatype)
	}
	return s
}

// String implements fmt.Stringer using the N-Triples form.
func (t Term) String() string {
	return t.NTriples()
}

// Time parses the term value as an xsd:dateTime. The triplestore mixes
// zoned timestamps, zone-less timestamps and plain dates on binding
// boundaries; all three are accepted.
func (t Term) Time() (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if v, err := time.Parse(layout, t.Value); err == nil {
			return v, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a dateTime value: %q", t.Value)
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeLiteral escapes a literal value for embedding between double
// quotes in N-Triples or SPARQL text. Every literal the service emits
// into a query or serialization goes through this one routine.
func EscapeLiteral(value string) string {
	return literalEscaper.Replace(value)
}

var iriEscaper = strings.NewReplacer(
	`<`, "%3C",
	`>`, "%3E",
	`"`, "%22",
	`{`, "%7B",
	`}`, "%7D",
	`|`, "%7C",
	`^`, "%5E",
	"`", "%60",
	`\`, "%5C",
	" ", "%20",
)

// SerializeIRI wraps an IRI value in angle brackets, escaping the
// characters N-Triples forbids inside an IRIREF.
func SerializeIRI(value string) string {
	return "<" + iriEscaper.Replace(value) + ">"
}
