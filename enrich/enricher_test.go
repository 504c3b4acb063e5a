package enrich

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lblod/enrich-submission-service/rdf"
	"github.com/lblod/enrich-submission-service/sparql"
)

func newTestEnricher(t *testing.T, handler http.HandlerFunc) (*Enricher, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := sparql.NewClient(server.URL, slog.Default())
	paginator := sparql.NewPaginator(client, 1000, slog.Default())
	schemes := []string{"http://lblod.data.gift/concept-schemes/f9cac08a-13c1-49da-acb8-f41cd0a44f89"}
	return NewEnricher(client, paginator, "http://mu.semte.ch/graphs/public", schemes, slog.Default()), server
}

func TestImportConceptSchemesEmpty(t *testing.T) {
	var queries []string
	e, _ := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		queries = append(queries, r.PostFormValue("query"))
		_, _ = w.Write([]byte(`{
			"head": {"vars": ["count"]},
			"results": {"bindings": [{"count": {"type": "typed-literal", "value": "0"}}]}
		}`))
	})

	g := rdf.NewGraph()
	err := e.importConceptSchemes(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, 0, g.Len(), "an empty scheme contributes no triples")
	require.Len(t, queries, 1, "only the count query should be issued")
	assert.Contains(t, queries[0], "COUNT(*)")
	assert.Contains(t, queries[0], "skos:inScheme <http://lblod.data.gift/concept-schemes/f9cac08a-13c1-49da-acb8-f41cd0a44f89>")
}

func TestAddFriendlyChartOfAccounts(t *testing.T) {
	e, _ := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"head": {"vars": ["entry", "scheme", "notation", "label"]},
			"results": {"bindings": [
				{
					"entry": {"type": "uri", "value": "http://example.org/accounts/mar-0"},
					"scheme": {"type": "uri", "value": "http://lblod.data.gift/concept-schemes/b65b15ba-6755-4cd2-bd07-2c2cf3c0e4d3"},
					"notation": {"type": "literal", "value": "MAR 0"},
					"label": {"type": "literal", "value": "Algemene rekeningen"}
				}
			]}
		}`))
	})

	g := rdf.NewGraph()
	err := e.addFriendlyChartOfAccounts(context.Background(), g)
	require.NoError(t, err)

	out := g.SerializeNTriples()
	assert.Contains(t, out, `"MAR 0 - Algemene rekeningen"`, "display label combines notation and label")
	assert.Contains(t, out, "<http://example.org/accounts/mar-0> <http://www.w3.org/2004/02/skos/core#inScheme> <http://lblod.data.gift/concept-schemes/b65b15ba-6755-4cd2-bd07-2c2cf3c0e4d3>")
	assert.Equal(t, 3, g.Len(), "each entry yields type, scheme and label triples")
}

func TestAddRelevantDossierTypesNoUnit(t *testing.T) {
	e, _ := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"head": {"vars": ["unit"]}, "results": {"bindings": []}}`))
	})

	g := rdf.NewGraph()
	err := e.addRelevantDossierTypes(context.Background(), "http://example.org/doc", g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no organizational unit")
}

func TestEnrichAbortsOnFailure(t *testing.T) {
	e, _ := newTestEnricher(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query := r.PostFormValue("query")
		if strings.Contains(query, "COUNT(*)") {
			_, _ = w.Write([]byte(`{
				"head": {"vars": ["count"]},
				"results": {"bindings": [{"count": {"type": "typed-literal", "value": "0"}}]}
			}`))
			return
		}
		// The unit lookup of the dossier-types pass fails.
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := e.Enrich(context.Background(), "http://example.org/doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add dossier types")
}
