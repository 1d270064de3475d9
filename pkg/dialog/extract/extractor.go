// Package extract pulls structured entities (flight numbers, airport codes,
// dates, times) out of free text with pattern matching. Extraction is
// stateless per call and never errors: unknown or malformed matches are
// silently dropped.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Entity names used across the dialogue engine.
const (
	EntityFlightNumber = "flight_number"
	EntityAirport      = "airport"
	EntityDate         = "date"
	EntityTime         = "time"
)

// Semantic entity types.
const (
	TypeIdentifierCode = "identifier-code"
	TypeLocationCode   = "location-code"
	TypeDate           = "date"
	TypeTime           = "time"
	TypeFreeText       = "free-text"
)

var entityTypes = map[string]string{
	EntityFlightNumber: TypeIdentifierCode,
	EntityAirport:      TypeLocationCode,
	EntityDate:         TypeDate,
	EntityTime:         TypeTime,
}

// TypeOf returns the semantic type for a known entity name, free-text
// otherwise.
func TypeOf(name string) string {
	if t, ok := entityTypes[name]; ok {
		return t
	}
	return TypeFreeText
}

var (
	flightNumberRe = regexp.MustCompile(`\b([A-Za-z][A-Za-z0-9])[\s-]*([0-9]{1,4})\b`)
	airportCodeRe  = regexp.MustCompile(`\b([A-Za-z]{3})\b`)
	isoDateRe      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`)
	clockTimeRe    = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	hourTimeRe     = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)
)

// Extractor matches entity patterns against reference tables to filter false
// positives: a 3-letter token only counts as an airport if it is a known IATA
// code, and a lowercase letter pair only counts as an airline prefix if the
// airlines table knows it.
type Extractor struct {
	airports map[string]bool
	airlines map[string]bool
	now      func() time.Time
}

// NewExtractor builds an extractor over known airport and airline codes.
// Codes are matched case-insensitively; now resolves relative date words and
// defaults to the wall clock.
func NewExtractor(airportCodes, airlineCodes []string, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	e := &Extractor{
		airports: make(map[string]bool, len(airportCodes)),
		airlines: make(map[string]bool, len(airlineCodes)),
		now:      now,
	}
	for _, c := range airportCodes {
		e.airports[strings.ToUpper(c)] = true
	}
	for _, c := range airlineCodes {
		e.airlines[strings.ToUpper(c)] = true
	}
	return e
}

// Extract returns a map of entity name to value. At most one value per
// pattern class is extracted; the first match wins.
func (e *Extractor) Extract(text string) map[string]string {
	entities := make(map[string]string)

	if fn := e.extractFlightNumber(text); fn != "" {
		entities[EntityFlightNumber] = fn
	}
	if ap := e.extractAirport(text); ap != "" {
		entities[EntityAirport] = ap
	}
	if d := e.extractDate(text); d != "" {
		entities[EntityDate] = d
	}
	if t := extractTime(text); t != "" {
		entities[EntityTime] = t
	}

	return entities
}

// extractFlightNumber normalizes matches to uppercase with separators
// stripped. The airline prefix may be alphanumeric (B6, 9W). A lowercase
// prefix is accepted only when it is a known airline code; that keeps short
// words followed by digits ("at 5") from matching.
func (e *Extractor) extractFlightNumber(text string) string {
	for _, m := range flightNumberRe.FindAllStringSubmatch(text, -1) {
		prefix, digits := m[1], m[2]
		upper := strings.ToUpper(prefix)
		if prefix != upper && !e.airlines[upper] {
			continue
		}
		return upper + digits
	}
	return ""
}

func (e *Extractor) extractAirport(text string) string {
	for _, m := range airportCodeRe.FindAllStringSubmatch(text, -1) {
		code := strings.ToUpper(m[1])
		if e.airports[code] {
			return code
		}
	}
	return ""
}

// extractDate resolves relative date words against the injected clock and
// normalizes everything to YYYY-MM-DD. Calendar-impossible dates are dropped.
func (e *Extractor) extractDate(text string) string {
	lower := strings.ToLower(text)
	today := e.now()

	switch {
	case strings.Contains(lower, "day after tomorrow"):
		return today.AddDate(0, 0, 2).Format("2006-01-02")
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1).Format("2006-01-02")
	case strings.Contains(lower, "yesterday"):
		return today.AddDate(0, 0, -1).Format("2006-01-02")
	case strings.Contains(lower, "today") || strings.Contains(lower, "tonight"):
		return today.Format("2006-01-02")
	}

	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		if _, err := time.Parse("2006-01-02", m[0]); err == nil {
			return m[0]
		}
	}

	if m := slashDateRe.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := today.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		candidate := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		if _, err := time.Parse("2006-01-02", candidate); err == nil {
			return candidate
		}
	}

	return ""
}

func extractTime(text string) string {
	if m := clockTimeRe.FindStringSubmatch(text); m != nil {
		out := m[1] + ":" + m[2]
		if m[3] != "" {
			out += " " + strings.ToUpper(m[3])
		}
		return out
	}
	if m := hourTimeRe.FindStringSubmatch(text); m != nil {
		return m[1] + ":00 " + strings.ToUpper(m[2])
	}
	return ""
}
