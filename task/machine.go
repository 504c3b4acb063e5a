// Package task transitions automatic-submission tasks through their
// status lifecycle and stores the error records failed tasks point at.
// Every transition is one atomic DELETE/INSERT update scoped to the
// task's home graph; the service never retries a failed transition.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lblod/enrich-submission-service/sparql"
	"github.com/lblod/enrich-submission-service/vocabulary/tasks"
)

// Machine updates task statuses in the triplestore.
type Machine struct {
	client *sparql.Client
	logger *slog.Logger
}

// NewMachine creates a task status machine.
func NewMachine(client *sparql.Client, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{client: client, logger: logger}
}

// MarkBusy transitions the task to busy. It is issued before any
// enrichment work starts so retried notifications can be told apart from
// fresh ones. The status is advisory: nothing prevents a concurrent run
// on a task already busy.
func (m *Machine) MarkBusy(ctx context.Context, taskURI string) error {
	return m.updateStatus(ctx, taskURI, tasks.StatusBusy, "", "")
}

// MarkSuccess transitions the task to success and attaches a fresh
// results container wrapping the produced logical file.
func (m *Machine) MarkSuccess(ctx context.Context, taskURI, logicalFileURI string) error {
	return m.updateStatus(ctx, taskURI, tasks.StatusSuccess, "", logicalFileURI)
}

// MarkFailure transitions the task to failed, attaching the given error
// record when one was stored.
func (m *Machine) MarkFailure(ctx context.Context, taskURI, errorURI string) error {
	return m.updateStatus(ctx, taskURI, tasks.StatusFailed, errorURI, "")
}

// updateStatus swaps the task's status and modification timestamp in one
// update, inserting the optional error reference and results container
// alongside the new status.
func (m *Machine) updateStatus(ctx context.Context, taskURI, status, errorURI, logicalFileURI string) error {
	taskSparql := sparql.EscapeURI(taskURI)
	now := sparql.EscapeDateTime(time.Now())

	var containerTriples, linkContainer string
	if logicalFileURI != "" {
		containerID := uuid.New().String()
		containerURI := tasks.JobNamespace + containerID
		containerTriples = fmt.Sprintf(`
    %s a nfo:DataContainer ;
      mu:uuid %s ;
      task:hasFile %s .`,
			sparql.EscapeURI(containerURI),
			sparql.EscapeString(containerID),
			sparql.EscapeURI(logicalFileURI))
		linkContainer = fmt.Sprintf("task:resultsContainer %s ;", sparql.EscapeURI(containerURI))
	}

	var linkError string
	if errorURI != "" && status == tasks.StatusFailed {
		linkError = fmt.Sprintf("task:error %s ;", sparql.EscapeURI(errorURI))
	}

	update := fmt.Sprintf(`%s
DELETE {
  GRAPH ?g {
    %s adms:status ?oldStatus ;
      dct:modified ?oldModified .
  }
}
INSERT {
  GRAPH ?g {
    %s adms:status %s ;
      %s
      %s
      dct:modified %s .
%s
  }
}
WHERE {
  GRAPH ?g {
    %s adms:status ?oldStatus ;
      dct:modified ?oldModified .
  }
}`,
		sparql.Prefixes(),
		taskSparql,
		taskSparql,
		sparql.EscapeURI(status),
		linkError,
		linkContainer,
		now,
		containerTriples,
		taskSparql)

	if err := m.client.Update(ctx, update); err != nil {
		return fmt.Errorf("update status of task %s: %w", taskURI, err)
	}

	m.logger.Debug("Task status updated", "task", taskURI, "status", status)
	return nil
}
