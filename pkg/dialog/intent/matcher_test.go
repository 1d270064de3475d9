package intent

import (
	"io"
	"log"
	"testing"
)

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestMatchGreetingShortCircuit(t *testing.T) {
	m := NewMatcher(BuiltinCatalog(), discard())

	for _, text := range []string{"hello", "Hi!", "hey there", "Good morning"} {
		if got := m.Match(text); got != IntentGreeting {
			t.Errorf("Match(%q) = %q, want greeting", text, got)
		}
	}
}

func TestMatchSubstringBeatsScore(t *testing.T) {
	// "status update" is a whole-word substring of the message; the other
	// intent would score higher on overlap but must not win.
	catalog := Catalog{
		"a_checker": {Examples: []string{"please give me a full status update now today"}},
		"b_update":  {Examples: []string{"status update"}},
	}
	m := NewMatcher(catalog, discard())

	if got := m.Match("can I get a status update on things"); got != "b_update" {
		t.Fatalf("Match = %q, want b_update (substring short-circuit)", got)
	}
}

func TestMatchSubstringTieBreakFirstEnumerated(t *testing.T) {
	// Both examples are substrings; enumeration is sorted name order, so the
	// alphabetically first intent wins.
	catalog := Catalog{
		"b_second": {Examples: []string{"flight status"}},
		"a_first":  {Examples: []string{"flight status"}},
	}
	m := NewMatcher(catalog, discard())

	if got := m.Match("flight status please"); got != "a_first" {
		t.Fatalf("Match = %q, want a_first", got)
	}
}

func TestMatchThreshold(t *testing.T) {
	catalog := Catalog{
		"delay_inquiry": {Examples: []string{"is my flight delayed today"}},
	}
	m := NewMatcher(catalog, discard())

	// All example words present (reordered, so no substring hit): accepted.
	if got := m.Match("my flight is delayed I think today no wait"); got != "delay_inquiry" {
		t.Fatalf("Match above threshold = %q, want delay_inquiry", got)
	}

	// 1 of 5 example words present: 0.2, rejected.
	if got := m.Match("what gate is it at"); got != "" {
		t.Fatalf("Match below threshold = %q, want none", got)
	}
}

func TestMatchNoneOnEmptyOrUnrelated(t *testing.T) {
	m := NewMatcher(DefaultCatalog(), discard())

	if got := m.Match(""); got != "" {
		t.Errorf("Match(empty) = %q", got)
	}
	if got := m.Match("purple monkey dishwasher"); got != "" {
		t.Errorf("Match(unrelated) = %q", got)
	}
}

func TestMatchPunctuationInsensitive(t *testing.T) {
	m := NewMatcher(DefaultCatalog(), discard())

	if got := m.Match("Is it delayed???"); got != IntentDelayInquiry {
		t.Fatalf("Match = %q, want delay_inquiry", got)
	}
}

func TestIsGreetingWholeWordOnly(t *testing.T) {
	m := NewMatcher(BuiltinCatalog(), discard())

	if m.IsGreeting("this flight is delayed") {
		t.Error("'hi' inside 'this' must not count as a greeting")
	}
	if !m.IsGreeting("hi, quick question") {
		t.Error("leading 'hi' should count as a greeting")
	}
}
