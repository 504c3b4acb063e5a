package sparql

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lblod/enrich-submission-service/rdf"
)

func TestTripleQueryRendering(t *testing.T) {
	q := TripleQuery{
		Graph: "http://mu.semte.ch/graphs/public",
		Where: []string{"?s skos:inScheme <http://example.org/scheme> ."},
	}

	count := q.CountQuery()
	assert.Contains(t, count, "SELECT (COUNT(*) as ?count)")
	assert.Contains(t, count, "GRAPH <http://mu.semte.ch/graphs/public>")
	assert.Contains(t, count, "?s skos:inScheme <http://example.org/scheme> .")
	assert.Contains(t, count, "?s ?p ?o .")

	page := q.PageQuery(100, 200)
	assert.Contains(t, page, "SELECT ?s ?p ?o")
	assert.Contains(t, page, "LIMIT 100 OFFSET 200")
}

// fakeTripleEndpoint answers the count query with total, then serves pages
// of synthetic triples. It records the number of page requests.
func fakeTripleEndpoint(t *testing.T, total int, pageRequests *[]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query := r.PostFormValue("query")

		if strings.Contains(query, "COUNT(*)") {
			fmt.Fprintf(w, `{
				"head": {"vars": ["count"]},
				"results": {"bindings": [{"count": {"type": "typed-literal", "value": "%d"}}]}
			}`, total)
			return
		}

		*pageRequests = append(*pageRequests, query)
		// One synthetic triple per page is enough; the paginator trusts
		// the reported count for its offsets.
		fmt.Fprintf(w, `{
			"head": {"vars": ["s", "p", "o"]},
			"results": {"bindings": [{
				"s": {"type": "uri", "value": "http://example.org/s%d"},
				"p": {"type": "uri", "value": "http://example.org/p"},
				"o": {"type": "literal", "value": "v"}
			}]}
		}`, len(*pageRequests))
	}
}

func TestCollectTriplesEmpty(t *testing.T) {
	var pages []string
	server := httptest.NewServer(fakeTripleEndpoint(t, 0, &pages))
	defer server.Close()

	client := NewClient(server.URL, slog.Default())
	paginator := NewPaginator(client, 2, slog.Default())

	g := rdf.NewGraph()
	count, err := paginator.CollectTriples(context.Background(), TripleQuery{Graph: "http://g"}, g)
	require.NoError(t, err)

	assert.Equal(t, 0, count)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, pages, "no page query should be issued for an empty selection")
}

func TestCollectTriplesPaging(t *testing.T) {
	var pages []string
	server := httptest.NewServer(fakeTripleEndpoint(t, 5, &pages))
	defer server.Close()

	client := NewClient(server.URL, slog.Default())
	paginator := NewPaginator(client, 2, slog.Default())

	g := rdf.NewGraph()
	count, err := paginator.CollectTriples(context.Background(), TripleQuery{Graph: "http://g"}, g)
	require.NoError(t, err)

	assert.Equal(t, 5, count)
	require.Len(t, pages, 3, "5 rows with batch size 2 take 3 pages")
	assert.Contains(t, pages[0], "LIMIT 2 OFFSET 0")
	assert.Contains(t, pages[1], "LIMIT 2 OFFSET 2")
	assert.Contains(t, pages[2], "LIMIT 2 OFFSET 4")
	assert.Equal(t, 3, g.Len())
}

func TestValueTerm(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  rdf.Term
	}{
		{"uri", Value{Type: "uri", Value: "http://a"}, rdf.NewIRI("http://a")},
		{"plain literal", Value{Type: "literal", Value: "x"}, rdf.NewLiteral("x")},
		{"typed literal", Value{Type: "typed-literal", Value: "1", Datatype: "http://www.w3.org/2001/XMLSchema#integer"}, rdf.NewTypedLiteral("1", "http://www.w3.org/2001/XMLSchema#integer")},
		{"lang literal", Value{Type: "literal", Value: "stad", Lang: "nl"}, rdf.NewLangLiteral("stad", "nl")},
		{"bnode", Value{Type: "bnode", Value: "b0"}, rdf.NewIRI("_:b0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Term())
		})
	}
}
