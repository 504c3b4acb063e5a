package sparql

import "github.com/lblod/enrich-submission-service/rdf"

// Results is a SPARQL 1.1 JSON query result document.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Binding is one result row, keyed by variable name.
type Binding map[string]Value

// Value is a single bound value in a result row.
type Value struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Term converts the bound value to an rdf.Term. Blank nodes are mapped to
// IRI terms carrying the _:label form; the backing store skolemizes them
// in practice.
func (v Value) Term() rdf.Term {
	switch v.Type {
	case "uri":
		return rdf.NewIRI(v.Value)
	case "bnode":
		return rdf.NewIRI("_:" + v.Value)
	default:
		if v.Lang != "" {
			return rdf.NewLangLiteral(v.Value, v.Lang)
		}
		if v.Datatype != "" {
			return rdf.NewTypedLiteral(v.Value, v.Datatype)
		}
		return rdf.NewLiteral(v.Value)
	}
}

// Get returns the value bound to the given variable in this row.
func (b Binding) Get(name string) (Value, bool) {
	v, ok := b[name]
	return v, ok
}

// URI returns the IRI bound to the given variable, or "" when the
// variable is unbound or not an IRI.
func (b Binding) URI(name string) string {
	v, ok := b[name]
	if !ok || v.Type != "uri" {
		return ""
	}
	return v.Value
}

// Literal returns the literal value bound to the given variable, or ""
// when the variable is unbound.
func (b Binding) Literal(name string) string {
	v, ok := b[name]
	if !ok {
		return ""
	}
	return v.Value
}
