package enrich

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lblod/enrich-submission-service/rdf"
	"github.com/lblod/enrich-submission-service/sparql"
	"github.com/lblod/enrich-submission-service/vocabulary/melding"
)

// bodyRow is one governing-body-in-time result row.
type bodyRow struct {
	body           string
	bodyLabel      string
	bodyClass      string
	bodyClassLabel sparql.Value
	bodyInTime     string
	unit           string
	unitClass      string
	unitClassLabel sparql.Value
	start          sparql.Value
	end            sparql.Value
	hasStart       bool
	hasEnd         bool
}

// addGoverningBodyTimeline derives the timeline of governing bodies for
// the organizational unit that created the document. Every body-in-time
// instance gets a synthesized display label combining its classification
// label with a calendar-year range, and is placed in the selection
// concept scheme the form offers as choices.
func (e *Enricher) addGoverningBodyTimeline(ctx context.Context, documentURI string, g *rdf.Graph) error {
	e.logger.Debug("Adding governing bodies to meta graph", "document", documentURI)

	query := fmt.Sprintf(`%s
SELECT ?body ?bodyLabel ?bodyClass ?bodyClassLabel ?bodyInTime ?unit ?unitClass ?unitClassLabel ?start ?end
WHERE {
  GRAPH ?g {
    ?submission dct:subject %s ;
      pav:createdBy ?unit .
  }
  GRAPH %s {
    ?body besluit:bestuurt ?unit ;
      besluit:classificatie ?bodyClass .
    ?bodyClass skos:prefLabel ?bodyClassLabel .
    ?bodyInTime mandaat:isTijdspecialisatieVan ?body .
    ?unit besluit:classificatie ?unitClass .
    ?unitClass skos:prefLabel ?unitClassLabel .
    OPTIONAL { ?bodyInTime mandaat:bindingStart ?start . }
    OPTIONAL { ?bodyInTime mandaat:bindingEinde ?end . }
    OPTIONAL { ?body skos:prefLabel ?bodyLabel . }
    FILTER NOT EXISTS {
      ?bodyInTime lblodlg:heeftBestuursfunctie ?leader .
    }
  }
}
ORDER BY DESC(?start) DESC(?end)`,
		sparql.Prefixes(),
		sparql.EscapeURI(documentURI),
		sparql.EscapeURI(e.publicGraph))

	results, err := e.client.Query(ctx, query)
	if err != nil {
		return err
	}

	rows := make([]bodyRow, 0, len(results.Results.Bindings))
	for _, b := range results.Results.Bindings {
		row := bodyRow{
			body:       b.URI("body"),
			bodyLabel:  b.Literal("bodyLabel"),
			bodyClass:  b.URI("bodyClass"),
			bodyInTime: b.URI("bodyInTime"),
			unit:       b.URI("unit"),
			unitClass:  b.URI("unitClass"),
		}
		row.bodyClassLabel, _ = b.Get("bodyClassLabel")
		row.unitClassLabel, _ = b.Get("unitClassLabel")
		row.start, row.hasStart = b.Get("start")
		row.end, row.hasEnd = b.Get("end")
		rows = append(rows, row)
	}

	scheme := rdf.NewIRI(melding.SchemeGoverningBodies)
	for i, row := range rows {
		// Rows are ordered by descending start/end. When an instance has
		// no start date, the end date of the chronologically later
		// instance right before it is taken as its start.
		start, hasStart := row.start, row.hasStart
		if i != 0 && !hasStart {
			start, hasStart = rows[i-1].end, rows[i-1].hasEnd
		}

		g.Add(rdf.Triple{Subject: scheme, Predicate: rdf.NewIRI(melding.NSRdf + "type"), Object: rdf.NewIRI(melding.NSSkos + "ConceptScheme")})
		g.Add(rdf.Triple{Subject: rdf.NewIRI(row.body), Predicate: rdf.NewIRI(melding.NSBesluit + "bestuurt"), Object: rdf.NewIRI(row.unit)})
		g.Add(rdf.Triple{Subject: rdf.NewIRI(row.body), Predicate: rdf.NewIRI(melding.NSBesluit + "classificatie"), Object: rdf.NewIRI(row.bodyClass)})
		g.Add(rdf.Triple{Subject: rdf.NewIRI(row.bodyClass), Predicate: rdf.NewIRI(melding.NSSkos + "prefLabel"), Object: row.bodyClassLabel.Term()})
		g.Add(rdf.Triple{Subject: rdf.NewIRI(row.bodyInTime), Predicate: rdf.NewIRI(melding.NSMandaat + "isTijdspecialisatieVan"), Object: rdf.NewIRI(row.body)})
		g.Add(rdf.Triple{Subject: rdf.NewIRI(row.unit), Predicate: rdf.NewIRI(melding.NSBesluit + "classificatie"), Object: rdf.NewIRI(row.unitClass)})
		g.Add(rdf.Triple{Subject: rdf.NewIRI(row.unitClass), Predicate: rdf.NewIRI(melding.NSSkos + "prefLabel"), Object: row.unitClassLabel.Term()})
		g.Add(rdf.Triple{Subject: rdf.NewIRI(row.bodyInTime), Predicate: rdf.NewIRI(melding.NSSkos + "inScheme"), Object: scheme})

		if hasStart {
			g.Add(rdf.Triple{Subject: rdf.NewIRI(row.bodyInTime), Predicate: rdf.NewIRI(melding.NSMandaat + "bindingStart"), Object: dateTimeTerm(start)})
		}
		if row.hasEnd {
			g.Add(rdf.Triple{Subject: rdf.NewIRI(row.bodyInTime), Predicate: rdf.NewIRI(melding.NSMandaat + "bindingEinde"), Object: dateTimeTerm(row.end)})
		}
		if row.bodyLabel != "" {
			g.Add(rdf.Triple{Subject: rdf.NewIRI(row.body), Predicate: rdf.NewIRI(melding.NSSkos + "prefLabel"), Object: rdf.NewLiteral(row.bodyLabel)})
		}

		label := timelineLabel(row.bodyClassLabel.Value, start, hasStart, row.end, row.hasEnd)
		g.Add(rdf.Triple{Subject: rdf.NewIRI(row.bodyInTime), Predicate: rdf.NewIRI(melding.NSSkos + "prefLabel"), Object: rdf.NewLiteral(label)})
	}

	return nil
}

// dateTimeTerm keeps the stored literal at full precision, forcing the
// xsd:dateTime datatype when the store returned an untyped literal.
func dateTimeTerm(v sparql.Value) rdf.Term {
	t := v.Term()
	if !t.IsIRI() && t.Datatype == "" {
		t.Datatype = melding.NSXsd + "dateTime"
	}
	return t
}

// timelineLabel builds the human-readable label for a body-in-time:
// "{classLabel} sinds {startYear}" while the mandate is open-ended and
// "{classLabel} {startYear} - {endYear}" once it has closed. Dates are
// truncated to calendar years for display only.
func timelineLabel(classLabel string, start sparql.Value, hasStart bool, end sparql.Value, hasEnd bool) string {
	if !hasStart {
		return classLabel
	}
	startYear, err := yearOf(start)
	if err != nil {
		return classLabel
	}
	if !hasEnd {
		return classLabel + " sinds " + startYear
	}
	endYear, err := yearOf(end)
	if err != nil {
		return classLabel + " sinds " + startYear
	}
	return classLabel + " " + startYear + " - " + endYear
}

func yearOf(v sparql.Value) (string, error) {
	t, err := v.Term().Time()
	if err != nil {
		return "", err
	}
	return strconv.Itoa(t.Year()), nil
}
