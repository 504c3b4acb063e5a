package sparql

import (
	"sort"
	"strings"
)

// prefixTable maps the prefixes used across the service's queries to
// their namespaces.
var prefixTable = map[string]string{
	"adms":         "http://www.w3.org/ns/adms#",
	"asj":          "http://data.lblod.info/id/automatic-submission-job/",
	"besluit":      "http://data.vlaanderen.be/ns/besluit#",
	"dct":          "http://purl.org/dc/terms/",
	"ext":          "http://mu.semte.ch/vocabularies/ext/",
	"foaf":         "http://xmlns.com/foaf/0.1/",
	"lblodBesluit": "http://lblod.data.gift/vocabularies/besluit/",
	"lblodlg":      "http://data.lblod.info/vocabularies/leidinggevenden/",
	"mandaat":      "http://data.vlaanderen.be/ns/mandaat#",
	"melding":      "http://lblod.data.gift/vocabularies/automatische-melding/",
	"mu":           "http://mu.semte.ch/vocabularies/core/",
	"nfo":          "http://www.semanticdesktop.org/ontologies/2007/03/22/nfo#",
	"nie":          "http://www.semanticdesktop.org/ontologies/2007/01/19/nie#",
	"oslc":         "http://open-services.net/ns/core#",
	"pav":          "http://purl.org/pav/",
	"prov":         "http://www.w3.org/ns/prov#",
	"rdf":          "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"skos":         "http://www.w3.org/2004/02/skos/core#",
	"task":         "http://redpencil.data.gift/vocabularies/tasks/",
	"xsd":          "http://www.w3.org/2001/XMLSchema#",
	"dbpedia":      "http://dbpedia.org/ontology/",
}

// Prefixes returns the PREFIX block shared by the service's queries,
// one declaration per line in stable order.
func Prefixes() string {
	keys := make([]string, 0, len(prefixTable))
	for k := range prefixTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString("PREFIX ")
		b.WriteString(k)
		b.WriteString(": <")
		b.WriteString(prefixTable[k])
		b.WriteString(">\n")
	}
	return b.String()
}
