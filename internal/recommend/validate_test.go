package recommend

import (
	"errors"
	"math"
	"testing"
)

func mustKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	var re *Error
	if !errors.As(err, &re) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if re.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, re.Kind, err)
	}
	return re
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestNormalizeConfidence(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{in: 85, want: 0.85},
		{in: 90, want: 0.9},
		{in: -5, want: 0},
		{in: 0.5, want: 0.5},
		{in: 0, want: 0},
		{in: 1, want: 1},
		{in: 1.5, want: 0.015},
		{in: 250, want: 2.5},
	}
	for _, tc := range cases {
		if got := NormalizeConfidence(tc.in); !almostEqual(got, tc.want) {
			t.Fatalf("input %v: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeConfidenceIdempotentInRange(t *testing.T) {
	for _, v := range []float64{0, 0.01, 0.33, 0.5, 0.85, 0.999, 1} {
		once := NormalizeConfidence(v)
		if once != v {
			t.Fatalf("in-range value %v changed to %v", v, once)
		}
		if twice := NormalizeConfidence(once); twice != once {
			t.Fatalf("second pass changed %v to %v", once, twice)
		}
	}
}

func TestExtractJSON(t *testing.T) {
	got, err := ExtractJSON("prefix {\"a\": {\"b\": 1}} suffix } tail")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{\"a\": {\"b\": 1}} suffix }" {
		t.Fatalf("unexpected span %q", got)
	}

	_, err = ExtractJSON("no braces at all")
	mustKind(t, err, KindNoJSON)

	_, err = ExtractJSON("} closing before opening {")
	mustKind(t, err, KindNoJSON)
}

func TestParseRecommendationsFencedReply(t *testing.T) {
	text := "Here you go:\n```json\n{\"patterns\":[{\"name\":\"Observer\",\"confidence\":90,\"explanation\":\"e\",\"implementation\":\"i\"}]}\n```"

	set, err := ParseRecommendations(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(set.Patterns))
	}
	p := set.Patterns[0]
	if p.Name != "Observer" || !almostEqual(p.Confidence, 0.9) || p.Explanation != "e" || p.Implementation != "i" {
		t.Fatalf("unexpected pattern: %+v", p)
	}
}

func TestParseRecommendationsKeepsOrderAndCount(t *testing.T) {
	text := `{"patterns":[
		{"name":"Strategy","confidence":0.7,"explanation":"a","implementation":"b"},
		{"name":"Factory","confidence":-1,"explanation":"c","implementation":"d"},
		{"name":"Adapter","confidence":60,"explanation":"e","implementation":"f"},
		{"name":"Facade","confidence":1,"explanation":"g","implementation":"h"}
	]}`

	set, err := ParseRecommendations(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantNames := []string{"Strategy", "Factory", "Adapter", "Facade"}
	wantConf := []float64{0.7, 0, 0.6, 1}
	if len(set.Patterns) != len(wantNames) {
		t.Fatalf("expected %d patterns, got %d", len(wantNames), len(set.Patterns))
	}
	for i, p := range set.Patterns {
		if p.Name != wantNames[i] {
			t.Fatalf("position %d: expected %q, got %q", i, wantNames[i], p.Name)
		}
		if !almostEqual(p.Confidence, wantConf[i]) {
			t.Fatalf("position %d: expected confidence %v, got %v", i, wantConf[i], p.Confidence)
		}
	}
}

func TestParseRecommendationsEmptyList(t *testing.T) {
	set, err := ParseRecommendations(`{"patterns": []}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Patterns) != 0 {
		t.Fatalf("expected empty set, got %+v", set.Patterns)
	}
}

func TestParseRecommendationsTextValuesReencoded(t *testing.T) {
	text := `{"patterns":[{"name":7,"confidence":0.5,"explanation":null,"implementation":["step 1","step 2"]}]}`

	set, err := ParseRecommendations(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(set.Patterns))
	}
	p := set.Patterns[0]
	if p.Name != "7" {
		t.Fatalf("expected name %q, got %q", "7", p.Name)
	}
	if p.Explanation != "" {
		t.Fatalf("expected empty explanation, got %q", p.Explanation)
	}
	if p.Implementation != `["step 1","step 2"]` {
		t.Fatalf("unexpected implementation %q", p.Implementation)
	}
}

func TestParseRecommendationsFailures(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		kind     Kind
		field    string
		expected string
	}{
		{name: "no braces", text: "I cannot help with that.", kind: KindNoJSON},
		{name: "malformed", text: `{"patterns": [}`, kind: KindJSONParse},
		{name: "two objects", text: `{"patterns": []} and {"patterns": []}`, kind: KindJSONParse},
		{name: "no patterns key", text: `{"recommendations": []}`, kind: KindMissingField, field: "patterns"},
		{name: "patterns not list", text: `{"patterns": {"name": "x"}}`, kind: KindWrongType, field: "patterns", expected: "list"},
		{name: "missing explanation", text: `{"patterns":[{"name":"A","confidence":0.5,"implementation":"i"}]}`, kind: KindMissingField, field: "explanation"},
		{name: "missing name", text: `{"patterns":[{"confidence":0.5,"explanation":"e","implementation":"i"}]}`, kind: KindMissingField, field: "name"},
		{name: "blank name", text: `{"patterns":[{"name":"  ","confidence":0.5,"explanation":"e","implementation":"i"}]}`, kind: KindMissingField, field: "name"},
		{name: "null name", text: `{"patterns":[{"name":null,"confidence":0.5,"explanation":"e","implementation":"i"}]}`, kind: KindMissingField, field: "name"},
		{name: "missing reported before wrong type", text: `{"patterns":[{"name":"A","confidence":"high","explanation":"e"}]}`, kind: KindMissingField, field: "implementation"},
		{name: "confidence string", text: `{"patterns":[{"name":"A","confidence":"85%","explanation":"e","implementation":"i"}]}`, kind: KindWrongType, field: "confidence", expected: "number"},
		{name: "confidence bool", text: `{"patterns":[{"name":"A","confidence":true,"explanation":"e","implementation":"i"}]}`, kind: KindWrongType, field: "confidence", expected: "number"},
		{name: "confidence null", text: `{"patterns":[{"name":"A","confidence":null,"explanation":"e","implementation":"i"}]}`, kind: KindWrongType, field: "confidence", expected: "number"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := ParseRecommendations(tc.text)
			if len(set.Patterns) != 0 {
				t.Fatalf("expected no patterns, got %+v", set.Patterns)
			}
			re := mustKind(t, err, tc.kind)
			if re.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, re.Field)
			}
			if re.Expected != tc.expected {
				t.Fatalf("expected type %q, got %q", tc.expected, re.Expected)
			}
		})
	}
}

func TestParseRecommendationsInvalidElement(t *testing.T) {
	text := `{"patterns":[{"name":"A","confidence":0.5,"explanation":"e","implementation":"i"}, "Singleton"]}`

	set, err := ParseRecommendations(text)
	if len(set.Patterns) != 0 {
		t.Fatalf("expected no patterns, got %+v", set.Patterns)
	}
	if re := mustKind(t, err, KindInvalidElement); re.Index != 1 {
		t.Fatalf("expected index 1, got %d", re.Index)
	}
}

func TestParseRecommendationsNoPartialSet(t *testing.T) {
	text := `{"patterns":[
		{"name":"A","confidence":0.5,"explanation":"e","implementation":"i"},
		{"name":"B","confidence":0.5,"implementation":"i"}
	]}`

	set, err := ParseRecommendations(text)
	mustKind(t, err, KindMissingField)
	if set.Patterns != nil {
		t.Fatalf("expected nil patterns, got %+v", set.Patterns)
	}
}
