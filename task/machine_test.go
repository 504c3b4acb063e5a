package task

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lblod/enrich-submission-service/sparql"
	"github.com/lblod/enrich-submission-service/vocabulary/tasks"
)

// captureEndpoint records every update sent to the fake triplestore.
func captureEndpoint(t *testing.T, updates *[]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		*updates = append(*updates, r.PostFormValue("update"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

const testTask = "http://data.lblod.info/id/automatic-submission-task/abc"

func TestMarkBusy(t *testing.T) {
	var updates []string
	server := captureEndpoint(t, &updates)
	m := NewMachine(sparql.NewClient(server.URL, slog.Default()), slog.Default())

	err := m.MarkBusy(context.Background(), testTask)
	require.NoError(t, err)
	require.Len(t, updates, 1)

	update := updates[0]
	assert.Contains(t, update, "DELETE {")
	assert.Contains(t, update, "adms:status <"+tasks.StatusBusy+">")
	assert.Contains(t, update, "dct:modified")
	assert.NotContains(t, update, "task:error")
	assert.NotContains(t, update, "task:resultsContainer")
}

func TestMarkSuccess(t *testing.T) {
	var updates []string
	server := captureEndpoint(t, &updates)
	m := NewMachine(sparql.NewClient(server.URL, slog.Default()), slog.Default())

	err := m.MarkSuccess(context.Background(), testTask, "http://data.lblod.info/files/meta-1")
	require.NoError(t, err)
	require.Len(t, updates, 1)

	update := updates[0]
	assert.Contains(t, update, "adms:status <"+tasks.StatusSuccess+">")
	assert.Contains(t, update, "a nfo:DataContainer ;")
	assert.Contains(t, update, "task:hasFile <http://data.lblod.info/files/meta-1>")
	assert.Contains(t, update, "task:resultsContainer <"+tasks.JobNamespace)
}

func TestMarkFailure(t *testing.T) {
	var updates []string
	server := captureEndpoint(t, &updates)
	m := NewMachine(sparql.NewClient(server.URL, slog.Default()), slog.Default())

	err := m.MarkFailure(context.Background(), testTask, "http://data.lblod.info/errors/e-1")
	require.NoError(t, err)
	require.Len(t, updates, 1)

	update := updates[0]
	assert.Contains(t, update, "adms:status <"+tasks.StatusFailed+">")
	assert.Contains(t, update, "task:error <http://data.lblod.info/errors/e-1>")
	assert.NotContains(t, update, "task:resultsContainer")
}

func TestMarkFailureWithoutError(t *testing.T) {
	var updates []string
	server := captureEndpoint(t, &updates)
	m := NewMachine(sparql.NewClient(server.URL, slog.Default()), slog.Default())

	err := m.MarkFailure(context.Background(), testTask, "")
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.NotContains(t, updates[0], "task:error")
}

func TestSaveError(t *testing.T) {
	var updates []string
	server := captureEndpoint(t, &updates)
	m := NewMachine(sparql.NewClient(server.URL, slog.Default()), slog.Default())

	uri, err := m.SaveError(context.Background(), ErrorRecord{
		Message:   "Enrichment of the submission failed",
		Detail:    "count query returned no rows",
		Reference: testTask,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, errorNamespace), "error URI should live in the error namespace")

	require.Len(t, updates, 1)
	update := updates[0]
	assert.Contains(t, update, "a oslc:Error ;")
	assert.Contains(t, update, "GRAPH <"+tasks.ErrorGraph+">")
	assert.Contains(t, update, `oslc:message """Enrichment of the submission failed"""`)
	assert.Contains(t, update, `oslc:largePreview """count query returned no rows"""`)
	assert.Contains(t, update, "dct:references <"+testTask+">")
	assert.Contains(t, update, "dct:creator <"+tasks.Agent+">")
}

func TestSaveErrorRequiresMessage(t *testing.T) {
	var updates []string
	server := captureEndpoint(t, &updates)
	m := NewMachine(sparql.NewClient(server.URL, slog.Default()), slog.Default())

	_, err := m.SaveError(context.Background(), ErrorRecord{})
	require.Error(t, err)
	assert.Empty(t, updates, "nothing should be stored without a message")
}
