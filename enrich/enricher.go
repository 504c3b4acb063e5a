// Package enrich computes the meta graph for a submission document: the
// contextual reference data (concept schemes, dossier types, friendly
// labels, governing-body timelines) a form editor needs to render and
// validate the document. All passes accumulate into one shared rdf.Graph
// and the result is serialized once at the end.
package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lblod/enrich-submission-service/rdf"
	"github.com/lblod/enrich-submission-service/sparql"
	"github.com/lblod/enrich-submission-service/vocabulary/melding"
)

// Enricher runs the fixed sequence of enrichment passes.
type Enricher struct {
	client         *sparql.Client
	paginator      *sparql.Paginator
	publicGraph    string
	conceptSchemes []string
	logger         *slog.Logger
}

// NewEnricher creates an enricher reading reference data from publicGraph
// and importing the given concept schemes verbatim.
func NewEnricher(client *sparql.Client, paginator *sparql.Paginator, publicGraph string, conceptSchemes []string, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		client:         client,
		paginator:      paginator,
		publicGraph:    publicGraph,
		conceptSchemes: conceptSchemes,
		logger:         logger,
	}
}

// Enrich builds the meta graph for the given submission document and
// returns it serialized as N-Triples. Any pass failure aborts the whole
// enrichment; no partial result is returned.
func (e *Enricher) Enrich(ctx context.Context, documentURI string) (string, error) {
	g := rdf.NewGraph()

	if err := e.importConceptSchemes(ctx, g); err != nil {
		return "", fmt.Errorf("import concept schemes: %w", err)
	}
	if err := e.addRelevantDossierTypes(ctx, documentURI, g); err != nil {
		return "", fmt.Errorf("add dossier types: %w", err)
	}
	if err := e.addFriendlyChartOfAccounts(ctx, g); err != nil {
		return "", fmt.Errorf("add chart of accounts labels: %w", err)
	}
	if err := e.addGoverningBodyTimeline(ctx, documentURI, g); err != nil {
		return "", fmt.Errorf("add governing body timeline: %w", err)
	}

	e.logger.Info("Enrichment complete", "document", documentURI, "triples", g.Len())
	return g.SerializeNTriples(), nil
}

// importConceptSchemes copies every entity of the configured concept
// schemes, with all its own statements, into the meta graph.
func (e *Enricher) importConceptSchemes(ctx context.Context, g *rdf.Graph) error {
	for _, scheme := range e.conceptSchemes {
		e.logger.Debug("Adding concept scheme to meta graph", "scheme", scheme)
		q := sparql.TripleQuery{
			Graph: e.publicGraph,
			Where: []string{
				fmt.Sprintf("?s skos:inScheme %s .", sparql.EscapeURI(scheme)),
			},
		}
		if _, err := e.paginator.CollectTriples(ctx, q, g); err != nil {
			return fmt.Errorf("scheme %s: %w", scheme, err)
		}
	}
	return nil
}

// addRelevantDossierTypes copies the dossier types decidable by the
// classification of the organizational unit that created the document.
func (e *Enricher) addRelevantDossierTypes(ctx context.Context, documentURI string, g *rdf.Graph) error {
	unit, err := e.organizationalUnitFor(ctx, documentURI)
	if err != nil {
		return err
	}

	e.logger.Debug("Adding relevant dossier types to meta graph", "unit", unit)
	q := sparql.TripleQuery{
		Graph: e.publicGraph,
		Where: []string{
			fmt.Sprintf("%s besluit:classificatie ?classificatie .", sparql.EscapeURI(unit)),
			"?s lblodBesluit:decidableBy ?classificatie ;",
			fmt.Sprintf("  skos:inScheme %s .", sparql.EscapeURI(melding.SchemeDossierTypes)),
		},
	}
	if _, err := e.paginator.CollectTriples(ctx, q, g); err != nil {
		return err
	}
	return nil
}

// addFriendlyChartOfAccounts synthesizes "{notation} - {label}" display
// labels for the top concepts of the chart-of-accounts scheme. These are
// derived triples, not copies.
func (e *Enricher) addFriendlyChartOfAccounts(ctx context.Context, g *rdf.Graph) error {
	query := fmt.Sprintf(`%s
SELECT ?entry ?scheme ?notation ?label
WHERE {
  GRAPH %s {
    ?entry rdf:type skos:Concept ;
      skos:inScheme ?scheme ;
      skos:notation ?notation ;
      skos:prefLabel ?label ;
      skos:topConceptOf %s .
  }
}`,
		sparql.Prefixes(),
		sparql.EscapeURI(e.publicGraph),
		sparql.EscapeURI(melding.SchemeChartOfAccounts))

	results, err := e.client.Query(ctx, query)
	if err != nil {
		return err
	}

	for _, row := range results.Results.Bindings {
		entry := row.URI("entry")
		scheme := row.URI("scheme")
		if entry == "" || scheme == "" {
			continue
		}
		newLabel := row.Literal("notation") + " - " + row.Literal("label")
		g.Add(rdf.Triple{
			Subject:   rdf.NewIRI(entry),
			Predicate: rdf.NewIRI(melding.NSRdf + "type"),
			Object:    rdf.NewIRI(melding.NSSkos + "Concept"),
		})
		g.Add(rdf.Triple{
			Subject:   rdf.NewIRI(entry),
			Predicate: rdf.NewIRI(melding.NSSkos + "inScheme"),
			Object:    rdf.NewIRI(scheme),
		})
		g.Add(rdf.Triple{
			Subject:   rdf.NewIRI(entry),
			Predicate: rdf.NewIRI(melding.NSSkos + "prefLabel"),
			Object:    rdf.NewLiteral(newLabel),
		})
	}
	return nil
}

// organizationalUnitFor resolves the unit that created the submission
// owning the given document.
func (e *Enricher) organizationalUnitFor(ctx context.Context, documentURI string) (string, error) {
	query := fmt.Sprintf(`%s
SELECT ?unit
WHERE {
  GRAPH ?g {
    ?submission dct:subject %s ;
      pav:createdBy ?unit .
  }
} LIMIT 1`,
		sparql.Prefixes(),
		sparql.EscapeURI(documentURI))

	results, err := e.client.Query(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results.Results.Bindings) == 0 {
		return "", fmt.Errorf("no organizational unit found for document %s", documentURI)
	}
	return results.Results.Bindings[0].URI("unit"), nil
}
