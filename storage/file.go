// Package storage manages TTL file resources: the on-disk bytes and the
// logical/physical file records kept in the triplestore. A logical file
// carries the stable URI other entities link to; the physical file holds
// the actual bytes, addressed by a share:// URI that maps onto the local
// filesystem by prefix substitution.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lblod/enrich-submission-service/sparql"
)

const (
	// SharePrefix is the URI scheme prefix of physical files.
	SharePrefix = "share://"

	// logicalNamespace is the base IRI for logical file resources.
	logicalNamespace = "http://data.lblod.info/files/"

	ttlFormat    = "text/turtle"
	ttlExtension = "ttl"
)

// Store reads and writes TTL file resources. It owns the mapping between
// share:// URIs and paths under the share root.
type Store struct {
	client    *sparql.Client
	fileGraph string
	shareRoot string
	logger    *slog.Logger
}

// NewStore creates a file store writing physical files under shareRoot
// and file records into fileGraph.
func NewStore(client *sparql.Client, fileGraph, shareRoot string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:    client,
		fileGraph: fileGraph,
		shareRoot: shareRoot,
		logger:    logger,
	}
}

// PathForURI maps a share:// URI onto its filesystem path.
func (s *Store) PathForURI(uri string) string {
	return filepath.Join(s.shareRoot, strings.TrimPrefix(uri, SharePrefix))
}

// URIForPath maps a filesystem path under the share root back onto its
// share:// URI.
func (s *Store) URIForPath(path string) string {
	rel, err := filepath.Rel(s.shareRoot, path)
	if err != nil {
		return SharePrefix + filepath.Base(path)
	}
	return SharePrefix + filepath.ToSlash(rel)
}

// InsertTTLFile writes the content as a brand-new TTL file and records
// the logical/physical pair in the triplestore. It returns the URI of
// the logical file, which callers link to their own entities.
func (s *Store) InsertTTLFile(ctx context.Context, content string) (string, error) {
	logicalID := uuid.New().String()
	physicalID := uuid.New().String()
	logicalURI := logicalNamespace + logicalID
	filename := physicalID + "." + ttlExtension
	physicalURI := SharePrefix + filename

	path := s.PathForURI(physicalURI)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create share directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write file %s: %w", path, err)
	}

	now := sparql.EscapeDateTime(time.Now())
	size := sparql.EscapeInt(int64(len(content)))
	update := fmt.Sprintf(`%s
INSERT DATA {
  GRAPH %s {
    %s a nfo:FileDataObject ;
      mu:uuid %s ;
      nfo:fileName %s ;
      dct:format %s ;
      nfo:fileSize %s ;
      dbpedia:fileExtension %s ;
      dct:created %s ;
      dct:modified %s .
    %s a nfo:FileDataObject ;
      mu:uuid %s ;
      nie:dataSource %s ;
      nfo:fileName %s ;
      dct:format %s ;
      nfo:fileSize %s ;
      dbpedia:fileExtension %s ;
      dct:created %s ;
      dct:modified %s .
  }
}`,
		sparql.Prefixes(),
		sparql.EscapeURI(s.fileGraph),
		sparql.EscapeURI(logicalURI),
		sparql.EscapeString(logicalID),
		sparql.EscapeString(filename),
		sparql.EscapeString(ttlFormat),
		size,
		sparql.EscapeString(ttlExtension),
		now, now,
		sparql.EscapeURI(physicalURI),
		sparql.EscapeString(physicalID),
		sparql.EscapeURI(logicalURI),
		sparql.EscapeString(filename),
		sparql.EscapeString(ttlFormat),
		size,
		sparql.EscapeString(ttlExtension),
		now, now)

	if err := s.client.Update(ctx, update); err != nil {
		return "", fmt.Errorf("insert file records: %w", err)
	}

	s.logger.Debug("Inserted TTL file", "logical", logicalURI, "physical", physicalURI, "bytes", len(content))
	return logicalURI, nil
}

// UpdateTTLFile overwrites the physical content of an existing logical
// file in place and refreshes its size and modification timestamps. The
// logical URI and the physical path stay stable; only bytes and metadata
// change.
func (s *Store) UpdateTTLFile(ctx context.Context, logicalURI, content string) error {
	physicalURI, err := s.physicalFor(ctx, logicalURI)
	if err != nil {
		return err
	}

	path := s.PathForURI(physicalURI)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("overwrite file %s: %w", path, err)
	}

	now := sparql.EscapeDateTime(time.Now())
	update := fmt.Sprintf(`%s
DELETE {
  GRAPH %s {
    ?file nfo:fileSize ?size ;
      dct:modified ?modified .
  }
}
INSERT {
  GRAPH %s {
    ?file nfo:fileSize %s ;
      dct:modified %s .
  }
}
WHERE {
  GRAPH %s {
    VALUES ?file { %s %s }
    ?file nfo:fileSize ?size ;
      dct:modified ?modified .
  }
}`,
		sparql.Prefixes(),
		sparql.EscapeURI(s.fileGraph),
		sparql.EscapeURI(s.fileGraph),
		sparql.EscapeInt(int64(len(content))),
		now,
		sparql.EscapeURI(s.fileGraph),
		sparql.EscapeURI(logicalURI),
		sparql.EscapeURI(physicalURI))

	if err := s.client.Update(ctx, update); err != nil {
		return fmt.Errorf("refresh file records: %w", err)
	}

	s.logger.Debug("Updated TTL file", "logical", logicalURI, "physical", physicalURI, "bytes", len(content))
	return nil
}

// DeleteTTLFile removes the physical bytes and both file records of a
// logical file. Older records that link a physical share:// URI directly
// are accepted as well.
func (s *Store) DeleteTTLFile(ctx context.Context, logicalURI string) error {
	physicalURI := logicalURI
	if !strings.HasPrefix(logicalURI, SharePrefix) {
		resolved, err := s.physicalFor(ctx, logicalURI)
		if err != nil {
			return err
		}
		physicalURI = resolved
	}

	path := s.PathForURI(physicalURI)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file %s: %w", path, err)
	}

	update := fmt.Sprintf(`%s
DELETE {
  GRAPH %s {
    ?file ?p ?o .
  }
}
WHERE {
  GRAPH %s {
    VALUES ?file { %s %s }
    ?file ?p ?o .
  }
}`,
		sparql.Prefixes(),
		sparql.EscapeURI(s.fileGraph),
		sparql.EscapeURI(s.fileGraph),
		sparql.EscapeURI(logicalURI),
		sparql.EscapeURI(physicalURI))

	if err := s.client.Update(ctx, update); err != nil {
		return fmt.Errorf("delete file records: %w", err)
	}

	s.logger.Debug("Deleted TTL file", "logical", logicalURI, "physical", physicalURI)
	return nil
}

// GetContent returns the content of the given file. Physical share://
// URIs are read directly; logical URIs are resolved to their physical
// file first.
func (s *Store) GetContent(ctx context.Context, fileURI string) (string, error) {
	physicalURI := fileURI
	if !strings.HasPrefix(fileURI, SharePrefix) {
		resolved, err := s.physicalFor(ctx, fileURI)
		if err != nil {
			return "", err
		}
		physicalURI = resolved
	}

	path := s.PathForURI(physicalURI)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", path, err)
	}
	return string(content), nil
}

// physicalFor resolves the physical share:// URI recorded for a logical
// file.
func (s *Store) physicalFor(ctx context.Context, logicalURI string) (string, error) {
	query := fmt.Sprintf(`%s
SELECT ?physical
WHERE {
  GRAPH %s {
    ?physical nie:dataSource %s .
  }
} LIMIT 1`,
		sparql.Prefixes(),
		sparql.EscapeURI(s.fileGraph),
		sparql.EscapeURI(logicalURI))

	results, err := s.client.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("resolve physical file: %w", err)
	}
	if len(results.Results.Bindings) == 0 {
		return "", fmt.Errorf("%w: no physical file for %s", ErrNotFound, logicalURI)
	}
	return results.Results.Bindings[0].URI("physical"), nil
}
