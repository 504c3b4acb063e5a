package rdf

import "strings"

// Triple is a single (subject, predicate, object) statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NTriples serializes the triple as one N-Triples line, without the
// trailing newline.
func (t Triple) NTriples() string {
	return t.Subject.NTriples() + " " + t.Predicate.NTriples() + " " + t.Object.NTriples() + " ."
}

// Graph is an in-memory triple accumulator. One instance is exclusively
// owned by a single enrichment run; all passes add into it and the result
// is serialized once at the end. Duplicate triples are kept as added —
// deduplication is not part of the contract.
type Graph struct {
	triples []Triple
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add appends a triple to the graph.
func (g *Graph) Add(t Triple) {
	g.triples = append(g.triples, t)
}

// AddAll appends all given triples to the graph.
func (g *Graph) AddAll(ts []Triple) {
	g.triples = append(g.triples, ts...)
}

// Len returns the number of triples accumulated so far.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of the accumulated triples.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// SerializeNTriples writes the whole graph in N-Triples syntax, one
// statement per line, in insertion order.
func (g *Graph) SerializeNTriples() string {
	var b strings.Builder
	for _, t := range g.triples {
		b.WriteString(t.NTriples())
		b.WriteByte('\n')
	}
	return b.String()
}
