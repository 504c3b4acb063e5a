// Package tasks defines the IRIs of the automatic-submission task vocabulary:
// task operations, job statuses and the predicates used to transition a task
// through its lifecycle.
package tasks

// Namespace is the base IRI of the task vocabulary.
const Namespace = "http://redpencil.data.gift/vocabularies/tasks/"

// JobNamespace is the base IRI for automatic-submission job instances.
// Result containers created on task success are minted under this namespace.
const JobNamespace = "http://data.lblod.info/id/automatic-submission-job/"

// Task predicates.
const (
	// PredOperation links a task to the operation it performs.
	PredOperation = Namespace + "operation"

	// PredError links a failed task to its error record.
	PredError = Namespace + "error"

	// PredResultsContainer links a succeeded task to the container
	// wrapping its produced files.
	PredResultsContainer = Namespace + "resultsContainer"

	// PredHasFile links a results container to a logical file.
	PredHasFile = Namespace + "hasFile"
)

// OperationEnrich identifies the enrichment operation this service consumes.
const OperationEnrich = "http://lblod.data.gift/id/jobs/concept/TaskOperation/enrich"

// Job status IRIs. A task moves from scheduled through busy into success or
// failed; this service never transitions a task backwards.
const (
	StatusScheduled = "http://redpencil.data.gift/id/concept/JobStatus/scheduled"
	StatusBusy      = "http://redpencil.data.gift/id/concept/JobStatus/busy"
	StatusSuccess   = "http://redpencil.data.gift/id/concept/JobStatus/success"
	StatusFailed    = "http://redpencil.data.gift/id/concept/JobStatus/failed"
)

// Classes.
const (
	// ClassAutomaticSubmissionTask types tasks created by the automatic
	// submission flow.
	ClassAutomaticSubmissionTask = "http://lblod.data.gift/vocabularies/automatische-melding/AutomaticSubmissionTask"

	// ClassDataContainer types the results container wrapping produced files.
	ClassDataContainer = "http://www.semanticdesktop.org/ontologies/2007/03/22/nfo#DataContainer"

	// ClassError types stored error records.
	ClassError = "http://open-services.net/ns/core#Error"
)

// Error record predicates (OSLC vocabulary).
const (
	PredErrorMessage = "http://open-services.net/ns/core#message"
	PredErrorDetail  = "http://open-services.net/ns/core#largePreview"
)

// ErrorGraph is the graph error records are appended to.
const ErrorGraph = "http://mu.semte.ch/graphs/error"

// Agent is the IRI this service identifies itself with as dct:creator of
// error records.
const Agent = "http://lblod.data.gift/services/enrich-submission-service"
