package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lblod/enrich-submission-service/vocabulary/tasks"
)

func taskTriple(subject, predicate, object string) DeltaTriple {
	return DeltaTriple{
		Subject:   DeltaTerm{Type: "uri", Value: subject},
		Predicate: DeltaTerm{Type: "uri", Value: predicate},
		Object:    DeltaTerm{Type: "uri", Value: object},
	}
}

func TestEnrichmentTasks(t *testing.T) {
	const taskURI = "http://data.lblod.info/id/automatic-submission-task/t-1"

	tests := []struct {
		name  string
		delta Delta
		want  []string
	}{
		{
			"empty delta",
			Delta{},
			nil,
		},
		{
			"matching insert",
			Delta{{Inserts: []DeltaTriple{
				taskTriple(taskURI, tasks.PredOperation, tasks.OperationEnrich),
			}}},
			[]string{taskURI},
		},
		{
			"other operation ignored",
			Delta{{Inserts: []DeltaTriple{
				taskTriple(taskURI, tasks.PredOperation, "http://lblod.data.gift/id/jobs/concept/TaskOperation/validate"),
			}}},
			nil,
		},
		{
			"other predicate ignored",
			Delta{{Inserts: []DeltaTriple{
				taskTriple(taskURI, "http://www.w3.org/ns/adms#status", tasks.OperationEnrich),
			}}},
			nil,
		},
		{
			"deletes ignored",
			Delta{{Deletes: []DeltaTriple{
				taskTriple(taskURI, tasks.PredOperation, tasks.OperationEnrich),
			}}},
			nil,
		},
		{
			"duplicates collapsed across changesets",
			Delta{
				{Inserts: []DeltaTriple{taskTriple(taskURI, tasks.PredOperation, tasks.OperationEnrich)}},
				{Inserts: []DeltaTriple{taskTriple(taskURI, tasks.PredOperation, tasks.OperationEnrich)}},
			},
			[]string{taskURI},
		},
		{
			"multiple tasks",
			Delta{{Inserts: []DeltaTriple{
				taskTriple(taskURI, tasks.PredOperation, tasks.OperationEnrich),
				taskTriple(taskURI+"-b", tasks.PredOperation, tasks.OperationEnrich),
			}}},
			[]string{taskURI, taskURI + "-b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.delta.EnrichmentTasks())
		})
	}
}
