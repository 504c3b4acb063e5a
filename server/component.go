// Package server exposes the service's inbound surfaces: the HTTP API
// (delta notifications and submission document endpoints) and the
// optional NATS delta ingress. Enrichment work triggered by a delta runs
// detached from the request that announced it; its outcome is reported
// through the task status machine, never to the notification sender.
package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lblod/enrich-submission-service/submission"
	"github.com/lblod/enrich-submission-service/task"
)

var (
	deltasReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrich_submission_deltas_received_total",
		Help: "Delta notifications received, over HTTP and NATS.",
	})
	enrichmentRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrich_submission_enrichment_runs_total",
		Help: "Enrichment runs triggered by task notifications, by outcome.",
	}, []string{"outcome"})
)

// Component wires the delta handling pipeline to the task status machine
// and the submission document facade.
type Component struct {
	machine *task.Machine
	facade  *submission.Facade
	logger  *slog.Logger

	// wg tracks detached enrichment runs so tests and shutdown can wait
	// for them.
	wg sync.WaitGroup
}

// NewComponent creates the server component.
func NewComponent(machine *task.Machine, facade *submission.Facade, logger *slog.Logger) *Component {
	if logger == nil {
		logger = slog.Default()
	}
	return &Component{
		machine: machine,
		facade:  facade,
		logger:  logger,
	}
}

// ProcessDelta scans the delta for enrichment tasks and starts a
// detached enrichment run for each. It returns the matched task URIs
// immediately; the runs themselves report through the status machine.
func (c *Component) ProcessDelta(ctx context.Context, delta Delta) []string {
	deltasReceived.Inc()

	taskURIs := delta.EnrichmentTasks()
	if len(taskURIs) == 0 {
		c.logger.Debug("Delta contains no enrichment task, nothing to do")
		return nil
	}

	for _, taskURI := range taskURIs {
		c.wg.Add(1)
		go func(uri string) {
			defer c.wg.Done()
			c.processTask(context.WithoutCancel(ctx), uri)
		}(taskURI)
	}
	return taskURIs
}

// Wait blocks until all detached enrichment runs have finished.
func (c *Component) Wait() {
	c.wg.Wait()
}

// processTask runs the full enrichment sequence for one task: busy,
// document resolution, meta snapshot, then success or failure. Status
// update failures are logged but never retried; by the time they happen
// the response to the notification has already been sent.
func (c *Component) processTask(ctx context.Context, taskURI string) {
	if err := c.machine.MarkBusy(ctx, taskURI); err != nil {
		c.logger.Warn("Failed to mark task busy", "task", taskURI, "error", err)
		enrichmentRuns.WithLabelValues("failure").Inc()
		return
	}

	documentURI, err := c.facade.DocumentURIForTask(ctx, taskURI)
	if err != nil {
		c.failTask(ctx, taskURI, "Could not resolve submission document", err)
		return
	}
	if documentURI == "" {
		c.logger.Warn("No submission document found for task", "task", taskURI)
		c.failTask(ctx, taskURI, "No submission document found for task", nil)
		return
	}

	_, metaFileURI, err := c.facade.CalculateMetaSnapshot(ctx, documentURI)
	if err != nil {
		c.failTask(ctx, taskURI, "Enrichment of the submission failed", err)
		return
	}

	if err := c.machine.MarkSuccess(ctx, taskURI, metaFileURI); err != nil {
		c.logger.Warn("Failed to mark task success", "task", taskURI, "error", err)
	}
	enrichmentRuns.WithLabelValues("success").Inc()
	c.logger.Info("Enrichment succeeded", "task", taskURI, "document", documentURI)
}

// failTask stores an error record and transitions the task to failed.
// Both steps are best-effort.
func (c *Component) failTask(ctx context.Context, taskURI, message string, cause error) {
	enrichmentRuns.WithLabelValues("failure").Inc()
	c.logger.Error("Enrichment failed", "task", taskURI, "error", cause)

	rec := task.ErrorRecord{
		Message:   message,
		Reference: taskURI,
	}
	if cause != nil {
		rec.Detail = cause.Error()
	}

	errorURI, err := c.machine.SaveError(ctx, rec)
	if err != nil {
		c.logger.Warn("Failed to store error record", "task", taskURI, "error", err)
	}
	if err := c.machine.MarkFailure(ctx, taskURI, errorURI); err != nil {
		c.logger.Warn("Failed to mark task failed", "task", taskURI, "error", err)
	}
}
