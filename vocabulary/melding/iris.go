// Package melding defines the IRIs used around submission documents:
// lifecycle statuses, file types, linkage predicates and the concept schemes
// the enrichment passes draw from.
package melding

// Submission lifecycle status IRIs.
const (
	StatusConcept    = "http://lblod.data.gift/concepts/79a52da4-f491-4e2f-9374-89a13cde8ecd"
	StatusSubmitable = "http://lblod.data.gift/concepts/f6330856-e261-430f-b949-8e510d20d0ff"
	StatusSent       = "http://lblod.data.gift/concepts/9bd8d86d-bb10-4456-a84e-91e9507c374c"
)

// IsMutable reports whether a submission in the given status may still have
// its derived parts recomputed or deleted. Once sent, everything is frozen.
func IsMutable(status string) bool {
	return status == StatusConcept || status == StatusSubmitable
}

// File type IRIs. At most one file resource exists per (document, type) pair.
const (
	FileTypeFormData  = "http://data.lblod.gift/concepts/form-data-file-type"
	FileTypeAdditions = "http://data.lblod.gift/concepts/additions-file-type"
	FileTypeRemovals  = "http://data.lblod.gift/concepts/removals-file-type"
	FileTypeMeta      = "http://data.lblod.gift/concepts/meta-file-type"
	FileTypeForm      = "http://data.lblod.gift/concepts/form-file-type"
)

// ClassSubmissionDocument types documents this service manages.
const ClassSubmissionDocument = "http://mu.semte.ch/vocabularies/ext/SubmissionDocument"

// Linkage predicates.
const (
	// PredUUID is the mu:uuid identifier predicate.
	PredUUID = "http://mu.semte.ch/vocabularies/core/uuid"

	// PredSubject links a submission to its document.
	PredSubject = "http://purl.org/dc/terms/subject"

	// PredSource links a document to one of its file resources.
	PredSource = "http://purl.org/dc/terms/source"

	// PredType types a file resource with one of the file type IRIs.
	PredType = "http://purl.org/dc/terms/type"

	// PredStatus carries the submission lifecycle status (adms:status).
	// The same predicate carries job statuses on tasks.
	PredStatus = "http://www.w3.org/ns/adms#status"

	// PredModified is the dct:modified timestamp refreshed on transitions.
	PredModified = "http://purl.org/dc/terms/modified"

	// PredCreated is the dct:created timestamp.
	PredCreated = "http://purl.org/dc/terms/created"

	// PredCreator is the dct:creator agent reference.
	PredCreator = "http://purl.org/dc/terms/creator"

	// PredReferences links an error record to the failing entity.
	PredReferences = "http://purl.org/dc/terms/references"

	// PredCreatedBy links a submission to the organizational unit that
	// created it (pav:createdBy).
	PredCreatedBy = "http://purl.org/pav/createdBy"

	// PredGenerated links a task to the submission it was generated for
	// (prov:generated).
	PredGenerated = "http://www.w3.org/ns/prov#generated"

	// PredHasPart links a submission to a harvested remote file
	// (nie:hasPart).
	PredHasPart = "http://www.semanticdesktop.org/ontologies/2007/01/19/nie#hasPart"

	// PredDataSource links a derived file to the file it was derived from
	// (nie:dataSource). Harvested TTL files chain through it, and physical
	// files reference their logical identity with it.
	PredDataSource = "http://www.semanticdesktop.org/ontologies/2007/01/19/nie#dataSource"
)

// Ontology namespaces used by the enrichment queries.
const (
	NSRdf          = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSXsd          = "http://www.w3.org/2001/XMLSchema#"
	NSSkos         = "http://www.w3.org/2004/02/skos/core#"
	NSBesluit      = "http://data.vlaanderen.be/ns/besluit#"
	NSMandaat      = "http://data.vlaanderen.be/ns/mandaat#"
	NSLblodBesluit = "http://lblod.data.gift/vocabularies/besluit/"
	NSLeidinggeven = "http://data.lblod.info/vocabularies/leidinggevenden/"
)

// Concept schemes driving the enrichment passes.
const (
	// SchemeDossierTypes groups the dossier types filtered by the
	// organizational unit's classification.
	SchemeDossierTypes = "https://data.vlaanderen.be/id/conceptscheme/BesluitDocumentType"

	// SchemeChartOfAccounts is the chart-of-accounts scheme whose top
	// concepts get "{notation} - {label}" display labels.
	SchemeChartOfAccounts = "http://lblod.data.gift/concept-schemes/b65b15ba-6755-4cd2-bd07-2c2cf3c0e4d3"

	// SchemeGoverningBodies is the synthetic scheme the derived
	// governing-body timeline entries are placed in.
	SchemeGoverningBodies = "http://data.lblod.info/concept-schemes/481c03f0-d07f-424e-9c2b-8d4cfb141c72"
)
