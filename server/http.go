package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lblod/enrich-submission-service/submission"
)

// RegisterHTTPHandlers registers the service's HTTP endpoints on the
// given mux.
func (c *Component) RegisterHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", c.handleRoot)
	mux.HandleFunc("/delta", c.handleDelta)
	mux.HandleFunc("/submission-documents/", c.handleSubmissionDocument)
	mux.Handle("/metrics", promhttp.Handler())
}

// handleRoot serves a short identification banner.
func (c *Component) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Hi, I am the enrich-submission service. Send me deltas on /delta.")
}

// handleDelta accepts a delta notification and kicks off enrichment for
// every task it announces. The response never waits for enrichment: 200
// when at least one task was picked up, 204 when the delta held nothing
// of interest.
func (c *Component) handleDelta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var delta Delta
	if err := json.NewDecoder(r.Body).Decode(&delta); err != nil {
		c.logger.Warn("Failed to decode delta payload", "error", err)
		http.Error(w, "invalid delta payload", http.StatusBadRequest)
		return
	}

	taskURIs := c.ProcessDelta(r.Context(), delta)
	if len(taskURIs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	c.logger.Info("Scheduled enrichment for tasks", "count", len(taskURIs))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"tasks": taskURIs}); err != nil {
		c.logger.Warn("Failed to write delta response", "error", err)
	}
}

// handleSubmissionDocument serves GET and DELETE on a single submission
// document, addressed by its uuid.
func (c *Component) handleSubmissionDocument(w http.ResponseWriter, r *http.Request) {
	id := extractIDFromPath(r.URL.Path, "/submission-documents/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c.getSubmissionDocument(w, r, id)
	case http.MethodDelete:
		c.deleteSubmissionDocument(w, r, id)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (c *Component) getSubmissionDocument(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := c.facade.Get(r.Context(), id)
	if errors.Is(err, submission.ErrNotFound) {
		http.Error(w, "submission document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		c.logger.Error("Failed to assemble submission document", "id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		c.logger.Warn("Failed to write submission document", "id", id, "error", err)
	}
}

func (c *Component) deleteSubmissionDocument(w http.ResponseWriter, r *http.Request, id string) {
	err := c.facade.Delete(r.Context(), id)
	if errors.Is(err, submission.ErrNotFound) {
		http.Error(w, "submission document not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, submission.ErrSent) {
		http.Error(w, "submission document has already been sent", http.StatusConflict)
		return
	}
	if err != nil {
		c.logger.Error("Failed to delete submission document", "id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// extractIDFromPath returns the single path segment after the prefix, or
// "" when the path has a different shape.
func extractIDFromPath(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path || rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
