package sparql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lblod/enrich-submission-service/rdf"
)

// TripleQuery describes a filtered (?s ?p ?o) selection inside a single
// graph. The Where patterns restrict which subjects match; they are
// composed as structured lines with values escaped through this package
// rather than interpolated by callers.
type TripleQuery struct {
	// Graph is the IRI of the graph to select from.
	Graph string

	// Where holds additional triple patterns constraining ?s. Each entry
	// is one pattern, without the closing "?s ?p ?o" which is always
	// appended.
	Where []string
}

func (q TripleQuery) patterns() string {
	var b strings.Builder
	for _, w := range q.Where {
		b.WriteString("    ")
		b.WriteString(w)
		b.WriteByte('\n')
	}
	b.WriteString("    ?s ?p ?o .")
	return b.String()
}

// CountQuery renders the COUNT form of the selection.
func (q TripleQuery) CountQuery() string {
	return fmt.Sprintf(`%s
SELECT (COUNT(*) as ?count)
WHERE {
  GRAPH %s {
%s
  }
}`, Prefixes(), EscapeURI(q.Graph), q.patterns())
}

// PageQuery renders one page of the selection.
func (q TripleQuery) PageQuery(limit, offset int) string {
	return fmt.Sprintf(`%s
SELECT ?s ?p ?o
WHERE {
  GRAPH %s {
%s
  }
}
LIMIT %d OFFSET %d`, Prefixes(), EscapeURI(q.Graph), q.patterns(), limit, offset)
}

// Paginator fetches the full result set of a TripleQuery in bounded,
// strictly sequential batches. Pages are never fetched concurrently so
// the triplestore load stays bounded and the pages approximate one
// logical snapshot.
type Paginator struct {
	client    *Client
	batchSize int
	logger    *slog.Logger
}

// NewPaginator creates a paginator issuing pages of the given size.
func NewPaginator(client *Client, batchSize int, logger *slog.Logger) *Paginator {
	if batchSize <= 0 {
		batchSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Paginator{client: client, batchSize: batchSize, logger: logger}
}

// CollectTriples runs the count query and, when rows exist, pages through
// the full selection, merging every page into the graph before the next
// page is requested. It returns the number of rows the store reported.
// When a page fails, triples from earlier pages remain in the graph and
// the caller decides whether to discard them.
func (p *Paginator) CollectTriples(ctx context.Context, q TripleQuery, g *rdf.Graph) (int, error) {
	count, err := p.client.QueryCount(ctx, q.CountQuery())
	if err != nil {
		return 0, fmt.Errorf("count triples: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	for offset := 0; offset < count; offset += p.batchSize {
		results, err := p.client.Query(ctx, q.PageQuery(p.batchSize, offset))
		if err != nil {
			return count, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		for _, row := range results.Results.Bindings {
			s, okS := row.Get("s")
			pr, okP := row.Get("p")
			o, okO := row.Get("o")
			if !okS || !okP || !okO {
				continue
			}
			g.Add(rdf.Triple{Subject: s.Term(), Predicate: pr.Term(), Object: o.Term()})
		}
		done := offset + p.batchSize
		if done > count {
			done = count
		}
		p.logger.Debug("Collected triples", "done", done, "total", count)
	}
	return count, nil
}
