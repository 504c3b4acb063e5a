package sparql

import (
	"strconv"
	"time"

	"github.com/lblod/enrich-submission-service/rdf"
)

// xsdDateTime is the datatype IRI attached to escaped dateTime values.
const xsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"

// EscapeURI renders a URI for embedding in SPARQL text.
func EscapeURI(uri string) string {
	return rdf.SerializeIRI(uri)
}

// EscapeString renders a string literal for embedding in SPARQL text.
// The character escaping is shared with the N-Triples serializer so that
// literals are escaped identically wherever they are emitted.
func EscapeString(value string) string {
	return `"""` + rdf.EscapeLiteral(value) + `"""`
}

// EscapeDateTime renders a timestamp as an xsd:dateTime literal.
func EscapeDateTime(t time.Time) string {
	return `"` + t.UTC().Format(time.RFC3339) + `"^^` + rdf.SerializeIRI(xsdDateTime)
}

// EscapeInt renders an integer literal.
func EscapeInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
