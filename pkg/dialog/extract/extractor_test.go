package extract

import (
	"testing"
	"time"
)

var testNow = func() time.Time {
	return time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
}

func newTestExtractor() *Extractor {
	return NewExtractor(
		[]string{"JFK", "LAX", "ORD", "SFO"},
		[]string{"AA", "DL", "UA", "B6"},
		testNow,
	)
}

func TestExtractFlightNumber(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain uppercase", "what's the status of flight AA123", "AA123"},
		{"with space", "is AA 123 on time?", "AA123"},
		{"with hyphen", "flight DL-456 please", "DL456"},
		{"lowercase known airline", "is ua 9 delayed", "UA9"},
		{"lowercase unknown pair dropped", "is it delayed at 5", ""},
		{"digit-prefixed airline", "status of B6 1021", "B61021"},
		{"no identifier", "when does boarding start", ""},
		{"first match wins", "AA123 or maybe DL456", "AA123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)[EntityFlightNumber]
			if got != tt.want {
				t.Errorf("flight_number = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractAirportFiltered(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"flights from JFK please", "JFK"},
		{"arriving at lax tonight", "LAX"},
		{"what about the weather", ""}, // "the" is 3 letters but not a code
		{"from JFK to LAX", "JFK"},     // first match wins
		{"from XYZ airport", ""},       // unknown code filtered
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := e.Extract(tt.text)[EntityAirport]
			if got != tt.want {
				t.Errorf("airport = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractDate(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"today", "any delays today?", "2025-06-15"},
		{"tomorrow", "my flight tomorrow", "2025-06-16"},
		{"day after tomorrow", "leaving the day after tomorrow", "2025-06-17"},
		{"yesterday", "the flight from yesterday", "2025-06-14"},
		{"iso date", "flight AA123 on 2025-07-01", "2025-07-01"},
		{"slash date with year", "on 7/4/2025", "2025-07-04"},
		{"slash date current year", "on 12/24", "2025-12-24"},
		{"impossible date dropped", "on 13/45", ""},
		{"no date", "is AA123 on time", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)[EntityDate]
			if got != tt.want {
				t.Errorf("date = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTime(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"does it leave at 17:45", "17:45"},
		{"around 5:30 pm I think", "5:30 PM"},
		{"boarding at 9 am", "9:00 AM"},
		{"no time mentioned here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := e.Extract(tt.text)[EntityTime]
			if got != tt.want {
				t.Errorf("time = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(EntityFlightNumber); got != TypeIdentifierCode {
		t.Errorf("TypeOf(flight_number) = %q", got)
	}
	if got := TypeOf("anything_else"); got != TypeFreeText {
		t.Errorf("TypeOf(unknown) = %q", got)
	}
}
