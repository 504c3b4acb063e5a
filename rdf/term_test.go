package rdf

import (
	"strings"
	"testing"
)

func TestTermNTriples(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"iri", NewIRI("http://example.org/a"), "<http://example.org/a>"},
		{"plain literal", NewLiteral("hello"), `"hello"`},
		{"typed literal", NewTypedLiteral("2020-01-01T00:00:00Z", "http://www.w3.org/2001/XMLSchema#dateTime"), `"2020-01-01T00:00:00Z"^^<http://www.w3.org/2001/XMLSchema#dateTime>`},
		{"lang literal", NewLangLiteral("gemeente", "nl"), `"gemeente"@nl`},
		{"literal with quotes", NewLiteral(`say "hi"`), `"say \"hi\""`},
		{"literal with newline", NewLiteral("a\nb"), `"a\nb"`},
		{"literal with backslash", NewLiteral(`a\b`), `"a\\b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.term.NTriples(); got != tt.want {
				t.Errorf("NTriples() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSerializeIRI(t *testing.T) {
	tests := []struct {
		name string
		iri  string
		want string
	}{
		{"plain", "http://example.org/a", "<http://example.org/a>"},
		{"space", "http://example.org/a b", "<http://example.org/a%20b>"},
		{"angle brackets", "http://example.org/<a>", "<http://example.org/%3Ca%3E>"},
		{"braces", "http://example.org/{a}", "<http://example.org/%7Ba%7D>"},
		{"quote", `http://example.org/"a"`, "<http://example.org/%22a%22>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SerializeIRI(tt.iri); got != tt.want {
				t.Errorf("SerializeIRI(%q) = %s, want %s", tt.iri, got, tt.want)
			}
		})
	}
}

func TestTermTime(t *testing.T) {
	if _, err := NewLiteral("2020-03-01T10:00:00Z").Time(); err != nil {
		t.Errorf("dateTime value should parse: %v", err)
	}
	if _, err := NewLiteral("2020-03-01").Time(); err != nil {
		t.Errorf("plain date value should parse: %v", err)
	}
	if _, err := NewLiteral("2020-03-01T10:00:00").Time(); err != nil {
		t.Errorf("zone-less dateTime value should parse: %v", err)
	}
	if _, err := NewLiteral("not a date").Time(); err == nil {
		t.Error("expected error for non-date value")
	}

	v, err := NewTypedLiteral("2019-12-31T23:00:00Z", "http://www.w3.org/2001/XMLSchema#dateTime").Time()
	if err != nil {
		t.Fatalf("Time() failed: %v", err)
	}
	if v.Year() != 2019 {
		t.Errorf("Year() = %d, want 2019", v.Year())
	}
}

func TestGraphSerializeNTriples(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{
		Subject:   NewIRI("http://example.org/s"),
		Predicate: NewIRI("http://example.org/p"),
		Object:    NewLiteral("one"),
	})
	g.Add(Triple{
		Subject:   NewIRI("http://example.org/s"),
		Predicate: NewIRI("http://example.org/p"),
		Object:    NewLiteral("two"),
	})

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}

	out := g.SerializeNTriples()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), out)
	}
	// Insertion order is preserved.
	if !strings.Contains(lines[0], `"one"`) || !strings.Contains(lines[1], `"two"`) {
		t.Errorf("lines out of insertion order:\n%s", out)
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, " .") {
			t.Errorf("N-Triples line should end with ' .': %s", line)
		}
	}
}
