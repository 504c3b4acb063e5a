package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lblod/enrich-submission-service/sparql"
	"github.com/lblod/enrich-submission-service/vocabulary/tasks"
)

// errorNamespace is the base IRI of stored error records.
const errorNamespace = "http://data.lblod.info/errors/"

// ErrorRecord captures what went wrong during an enrichment run. Records
// are append-only: once stored they are never updated or deleted by this
// service.
type ErrorRecord struct {
	// Message is the required human-readable description.
	Message string

	// Detail optionally carries a longer technical explanation, such as
	// the wrapped error chain.
	Detail string

	// Reference optionally points at the failing entity.
	Reference string
}

// SaveError stores the record in the error graph and returns its URI.
// The URI is what failed tasks attach via task:error.
func (m *Machine) SaveError(ctx context.Context, rec ErrorRecord) (string, error) {
	if rec.Message == "" {
		return "", fmt.Errorf("error record needs a message")
	}

	id := uuid.New().String()
	uri := errorNamespace + id

	var optional string
	if rec.Reference != "" {
		optional += fmt.Sprintf("      dct:references %s ;\n", sparql.EscapeURI(rec.Reference))
	}
	if rec.Detail != "" {
		optional += fmt.Sprintf("      oslc:largePreview %s ;\n", sparql.EscapeString(rec.Detail))
	}

	update := fmt.Sprintf(`%s
INSERT DATA {
  GRAPH %s {
    %s a oslc:Error ;
      mu:uuid %s ;
      dct:subject %s ;
      oslc:message %s ;
      dct:created %s ;
%s      dct:creator %s .
  }
}`,
		sparql.Prefixes(),
		sparql.EscapeURI(tasks.ErrorGraph),
		sparql.EscapeURI(uri),
		sparql.EscapeString(id),
		sparql.EscapeString("Enrich Submission Service"),
		sparql.EscapeString(rec.Message),
		sparql.EscapeDateTime(time.Now()),
		optional,
		sparql.EscapeURI(tasks.Agent))

	if err := m.client.Update(ctx, update); err != nil {
		return "", fmt.Errorf("store error record: %w", err)
	}
	return uri, nil
}
