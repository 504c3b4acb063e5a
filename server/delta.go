package server

import "github.com/lblod/enrich-submission-service/vocabulary/tasks"

// Delta is a change notification payload: a sequence of changesets with
// inserted and deleted triples, as pushed by the delta notifier.
type Delta []Changeset

// Changeset groups the triples of one change.
type Changeset struct {
	Inserts []DeltaTriple `json:"inserts"`
	Deletes []DeltaTriple `json:"deletes"`
}

// DeltaTriple is one subject/predicate/object triple in a changeset.
type DeltaTriple struct {
	Subject   DeltaTerm `json:"subject"`
	Predicate DeltaTerm `json:"predicate"`
	Object    DeltaTerm `json:"object"`
}

// DeltaTerm is a single term of a delta triple.
type DeltaTerm struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// EnrichmentTasks returns the URIs of the enrichment tasks announced by
// the delta: the subjects of inserted triples declaring the enrich task
// operation. An empty slice means nothing in the delta concerns this
// service.
func (d Delta) EnrichmentTasks() []string {
	var uris []string
	seen := make(map[string]bool)
	for _, changeset := range d {
		for _, triple := range changeset.Inserts {
			if triple.Predicate.Value != tasks.PredOperation {
				continue
			}
			if triple.Object.Value != tasks.OperationEnrich {
				continue
			}
			if seen[triple.Subject.Value] {
				continue
			}
			seen[triple.Subject.Value] = true
			uris = append(uris, triple.Subject.Value)
		}
	}
	return uris
}
