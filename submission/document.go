// Package submission assembles and maintains the composite submission
// document view: the harvested source, manual additions and removals,
// the derived meta snapshot and the form definition. While a submission
// is in concept status the derived parts are recomputed on every read;
// once sent, everything is frozen and served exactly as stored.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lblod/enrich-submission-service/enrich"
	"github.com/lblod/enrich-submission-service/sparql"
	"github.com/lblod/enrich-submission-service/storage"
	"github.com/lblod/enrich-submission-service/vocabulary/melding"
)

// Common facade errors.
var (
	// ErrNotFound is returned when no submission document matches an id.
	ErrNotFound = errors.New("submission document not found")

	// ErrSent is returned when an operation is refused because the
	// submission has already been sent.
	ErrSent = errors.New("submission document already sent")
)

// Document is the assembled submission document view. All parts are TTL
// content; absent parts are empty strings.
type Document struct {
	Form      string `json:"form"`
	Meta      string `json:"meta"`
	Source    string `json:"source"`
	Additions string `json:"additions"`
	Removals  string `json:"removals"`
}

// Facade coordinates the triplestore records, the file store and the
// enricher behind the submission document operations.
type Facade struct {
	client    *sparql.Client
	store     *storage.Store
	enricher  *enrich.Enricher
	form      *ActiveForm
	fileGraph string
	logger    *slog.Logger
}

// NewFacade creates a submission document facade.
func NewFacade(client *sparql.Client, store *storage.Store, enricher *enrich.Enricher, form *ActiveForm, fileGraph string, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		client:    client,
		store:     store,
		enricher:  enricher,
		form:      form,
		fileGraph: fileGraph,
		logger:    logger,
	}
}

// Get assembles the submission document with the given id. For mutable
// submissions the form and meta parts are recomputed live; for sent
// submissions the frozen parts are read back as stored.
func (f *Facade) Get(ctx context.Context, id string) (*Document, error) {
	documentURI, status, err := f.resolveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Resolved submission document", "id", id, "uri", documentURI, "status", status)

	if melding.IsMutable(status) {
		form, err := f.refreshActiveForm(ctx, documentURI)
		if err != nil {
			return nil, fmt.Errorf("refresh active form: %w", err)
		}
		meta, _, err := f.CalculateMetaSnapshot(ctx, documentURI)
		if err != nil {
			return nil, fmt.Errorf("calculate meta snapshot: %w", err)
		}
		source, err := f.harvestedData(ctx, documentURI)
		if err != nil {
			return nil, fmt.Errorf("read harvested data: %w", err)
		}
		additions, err := f.part(ctx, documentURI, melding.FileTypeAdditions)
		if err != nil {
			return nil, fmt.Errorf("read additions: %w", err)
		}
		removals, err := f.part(ctx, documentURI, melding.FileTypeRemovals)
		if err != nil {
			return nil, fmt.Errorf("read removals: %w", err)
		}
		return &Document{Form: form, Meta: meta, Source: source, Additions: additions, Removals: removals}, nil
	}

	form, err := f.part(ctx, documentURI, melding.FileTypeForm)
	if err != nil {
		return nil, fmt.Errorf("read submitted form: %w", err)
	}
	meta, err := f.part(ctx, documentURI, melding.FileTypeMeta)
	if err != nil {
		return nil, fmt.Errorf("read submitted meta: %w", err)
	}
	source, err := f.part(ctx, documentURI, melding.FileTypeFormData)
	if err != nil {
		return nil, fmt.Errorf("read submitted form data: %w", err)
	}
	return &Document{Form: form, Meta: meta, Source: source}, nil
}

// Delete removes the submission document, its file resources and its
// triples. Sent submissions are refused with ErrSent. File cleanups are
// best-effort: a failure on one file type is logged and the others are
// still attempted.
func (f *Facade) Delete(ctx context.Context, id string) error {
	documentURI, status, err := f.resolveByID(ctx, id)
	if err != nil {
		return err
	}

	if status == melding.StatusSent {
		return fmt.Errorf("%w: %s", ErrSent, id)
	}

	fileTypes := []string{
		melding.FileTypeAdditions,
		melding.FileTypeRemovals,
		melding.FileTypeMeta,
		melding.FileTypeFormData,
		melding.FileTypeForm,
	}
	for _, fileType := range fileTypes {
		fileURI, err := f.fileResource(ctx, documentURI, fileType)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			f.logger.Warn("Failed to look up file resource during delete",
				"document", documentURI, "type", fileType, "error", err)
			continue
		}
		if err := f.store.DeleteTTLFile(ctx, fileURI); err != nil {
			f.logger.Warn("Failed to delete file resource",
				"document", documentURI, "file", fileURI, "error", err)
		}
	}

	if err := f.deleteDocumentTriples(ctx, documentURI); err != nil {
		return fmt.Errorf("delete document triples: %w", err)
	}

	f.logger.Info("Deleted submission document", "id", id, "uri", documentURI)
	return nil
}

// CalculateMetaSnapshot recomputes the meta graph for the document and
// stores it as the document's meta file. It returns the serialized
// content and the URI of the logical meta file. The snapshot is
// recomputed on every call; it only freezes when the submission is sent.
func (f *Facade) CalculateMetaSnapshot(ctx context.Context, documentURI string) (string, string, error) {
	content, err := f.enricher.Enrich(ctx, documentURI)
	if err != nil {
		return "", "", err
	}
	fileURI, err := f.SavePart(ctx, documentURI, content, melding.FileTypeMeta)
	if err != nil {
		return "", "", fmt.Errorf("save meta snapshot: %w", err)
	}
	return content, fileURI, nil
}

// DocumentURIForTask resolves the submission document an enrichment task
// was generated for. It returns "" when the task has no document.
func (f *Facade) DocumentURIForTask(ctx context.Context, taskURI string) (string, error) {
	query := fmt.Sprintf(`%s
SELECT ?submissionDocument
WHERE {
  GRAPH ?g {
    %s prov:generated ?submission ;
      a melding:AutomaticSubmissionTask .
    ?submission dct:subject ?submissionDocument .
  }
} LIMIT 1`,
		sparql.Prefixes(),
		sparql.EscapeURI(taskURI))

	results, err := f.client.Query(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results.Results.Bindings) == 0 {
		return "", nil
	}
	return results.Results.Bindings[0].URI("submissionDocument"), nil
}

// SavePart writes the content of a derived part (meta or form) for the
// document. When no file resource of the given type exists yet a new one
// is created and linked; otherwise the existing file is overwritten in
// place. The upsert keeps exactly one file resource per (document, type)
// pair.
func (f *Facade) SavePart(ctx context.Context, documentURI, content, fileType string) (string, error) {
	fileURI, err := f.fileResource(ctx, documentURI, fileType)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	if errors.Is(err, storage.ErrNotFound) {
		fileURI, err = f.store.InsertTTLFile(ctx, content)
		if err != nil {
			return "", fmt.Errorf("insert part file: %w", err)
		}
		update := fmt.Sprintf(`%s
INSERT {
  GRAPH ?g {
    %s dct:source %s .
  }
  GRAPH %s {
    %s dct:type %s .
  }
}
WHERE {
  GRAPH ?g {
    %s a ext:SubmissionDocument .
  }
}`,
			sparql.Prefixes(),
			sparql.EscapeURI(documentURI),
			sparql.EscapeURI(fileURI),
			sparql.EscapeURI(f.fileGraph),
			sparql.EscapeURI(fileURI),
			sparql.EscapeURI(fileType),
			sparql.EscapeURI(documentURI))
		if err := f.client.Update(ctx, update); err != nil {
			return "", fmt.Errorf("link part file: %w", err)
		}
		return fileURI, nil
	}

	if err := f.store.UpdateTTLFile(ctx, fileURI, content); err != nil {
		return "", fmt.Errorf("overwrite part file: %w", err)
	}
	return fileURI, nil
}

// refreshActiveForm copies the currently configured form into the
// document's form file, replacing whatever form the document pointed at
// before.
func (f *Facade) refreshActiveForm(ctx context.Context, documentURI string) (string, error) {
	content, err := f.form.Content()
	if err != nil {
		return "", err
	}
	if _, err := f.SavePart(ctx, documentURI, content, melding.FileTypeForm); err != nil {
		return "", err
	}
	return content, nil
}

// resolveByID looks up the document URI and submission status for an id.
func (f *Facade) resolveByID(ctx context.Context, id string) (string, string, error) {
	query := fmt.Sprintf(`%s
SELECT ?submissionDocument ?status
WHERE {
  GRAPH ?g {
    ?submissionDocument mu:uuid %s .
    ?submission dct:subject ?submissionDocument ;
      adms:status ?status .
  }
}`,
		sparql.Prefixes(),
		sparql.EscapeString(id))

	results, err := f.client.Query(ctx, query)
	if err != nil {
		return "", "", err
	}
	if len(results.Results.Bindings) == 0 {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	row := results.Results.Bindings[0]
	return row.URI("submissionDocument"), row.URI("status"), nil
}

// fileResource finds the file of the given type linked to the document.
func (f *Facade) fileResource(ctx context.Context, documentURI, fileType string) (string, error) {
	query := fmt.Sprintf(`%s
SELECT ?file
WHERE {
  GRAPH ?g {
    %s dct:source ?file .
  }
  GRAPH %s {
    ?file dct:type %s .
  }
}`,
		sparql.Prefixes(),
		sparql.EscapeURI(documentURI),
		sparql.EscapeURI(f.fileGraph),
		sparql.EscapeURI(fileType))

	results, err := f.client.Query(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results.Results.Bindings) == 0 {
		return "", fmt.Errorf("%w: type %s for document %s", storage.ErrNotFound, fileType, documentURI)
	}
	return results.Results.Bindings[0].URI("file"), nil
}

// part returns the content of the file of the given type, or "" when the
// document has no such file.
func (f *Facade) part(ctx context.Context, documentURI, fileType string) (string, error) {
	fileURI, err := f.fileResource(ctx, documentURI, fileType)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return f.store.GetContent(ctx, fileURI)
}

// harvestedData reads the harvested source of the document: the TTL file
// derived from the remote file the submission points at. Only documents
// submitted through the automatic submission API have one.
func (f *Facade) harvestedData(ctx context.Context, documentURI string) (string, error) {
	query := fmt.Sprintf(`%s
SELECT ?ttlFile
WHERE {
  GRAPH ?g {
    ?submission dct:subject %s ;
      nie:hasPart ?remoteFile .
  }
  GRAPH %s {
    ?localDownload nie:dataSource ?remoteFile .
    ?ttlFile nie:dataSource ?localDownload .
  }
}`,
		sparql.Prefixes(),
		sparql.EscapeURI(documentURI),
		sparql.EscapeURI(f.fileGraph))

	results, err := f.client.Query(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results.Results.Bindings) == 0 {
		return "", nil
	}
	return f.store.GetContent(ctx, results.Results.Bindings[0].URI("ttlFile"))
}

// deleteDocumentTriples removes every triple whose subject is the
// document itself.
func (f *Facade) deleteDocumentTriples(ctx context.Context, documentURI string) error {
	update := fmt.Sprintf(`DELETE {
  GRAPH ?g {
    %s ?p ?o .
  }
}
WHERE {
  GRAPH ?g {
    %s ?p ?o .
  }
}`,
		sparql.EscapeURI(documentURI),
		sparql.EscapeURI(documentURI))
	return f.client.Update(ctx, update)
}
