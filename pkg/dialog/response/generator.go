// Package response renders the assistant's reply text from the matched
// intent, the flight record, and the entities gathered so far.
package response

import (
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"airport-assistant-be/pkg/dialog/extract"
	"airport-assistant-be/pkg/dialog/intent"
	"airport-assistant-be/pkg/store"
)

// GenericFallback is returned when no intent matched and nothing in the
// message looks like a flight question.
const GenericFallback = "I'm sorry, I didn't quite catch that. You can ask me about a flight's status, delays, or gate, for example \"What's the status of flight AA123?\""

// ClarifyFlightNumber is the slot-filling prompt for flight questions that
// arrive without an identifier.
const ClarifyFlightNumber = "Sure, I can help with that! Could you give me the flight number, like AA123?"

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// intentFallbacks are deterministic last-resort sentences, used when a canned
// template references a placeholder we cannot fill.
var intentFallbacks = map[string]string{
	intent.IntentGreeting:     "Hello! I'm Levi, your airport assistant. How can I help you today?",
	intent.IntentGoodbye:      "Goodbye! Have a safe flight!",
	intent.IntentThanks:       "You're welcome! Anything else I can help with?",
	intent.IntentFlightStatus: "Let me check on that flight for you.",
}

// statusInquiryWords flag identifier-less messages that still read like a
// flight question, so the clarifying prompt beats the generic fallback.
var statusInquiryWords = []string{
	"flight", "status", "delay", "delayed", "gate", "departure",
	"arrival", "arrive", "depart", "boarding", "landed", "on time",
}

// Generator is shared across sessions. The random source is injected so
// tests can pin the seed; it is mutex-guarded because sessions render in
// parallel.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *log.Logger
}

func NewGenerator(rng *rand.Rand, logger *log.Logger) *Generator {
	return &Generator{rng: rng, logger: logger}
}

// Render produces the reply text. Selection order: canned template for the
// intent, then the record path, then the clarifying prompt for
// identifier-less flight questions, then the generic fallback.
func (g *Generator) Render(intentName string, templates []string, record *store.FlightRecord, entities map[string]string, message string) string {
	if len(templates) > 0 {
		template := g.pick(templates)
		text, ok := substitute(template, substitutionValues(record, entities))
		if ok {
			return text
		}
		g.logger.Printf("[WARN] Template for intent %q has an unresolved placeholder, using fallback", intentName)
		if fallback, found := intentFallbacks[intentName]; found {
			return fallback
		}
		return GenericFallback
	}

	if record != nil {
		return g.renderRecord(intentName, record)
	}

	if looksLikeStatusInquiry(message) {
		return ClarifyFlightNumber
	}

	return GenericFallback
}

func (g *Generator) pick(templates []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return templates[g.rng.Intn(len(templates))]
}

// renderRecord phrases the record to match what was asked. Delay and gate
// questions get a focused answer; everything else gets the full status line.
func (g *Generator) renderRecord(intentName string, record *store.FlightRecord) string {
	var b strings.Builder

	switch intentName {
	case intent.IntentDelayInquiry:
		if record.IsLate() {
			fmt.Fprintf(&b, "Yes, flight %s is running about %d minutes late. Departure is now estimated at %s.",
				record.FlightNumber, record.DelayMinutes, record.Origin.Estimated.Format("15:04"))
		} else if record.Status == store.FlightStatusCancelled {
			fmt.Fprintf(&b, "Unfortunately flight %s has been cancelled. Please contact %s for rebooking options.",
				record.FlightNumber, record.Airline)
		} else {
			fmt.Fprintf(&b, "Good news! Flight %s is not delayed. Current status: %s.",
				record.FlightNumber, record.Status)
		}
	case intent.IntentGateInquiry:
		if record.Origin.Gate != "" {
			fmt.Fprintf(&b, "Flight %s departs from gate %s", record.FlightNumber, record.Origin.Gate)
			if record.Origin.Terminal != "" {
				fmt.Fprintf(&b, ", terminal %s", record.Origin.Terminal)
			}
			b.WriteString(".")
		} else {
			fmt.Fprintf(&b, "A gate hasn't been assigned for flight %s yet. Check back closer to departure.",
				record.FlightNumber)
		}
	default:
		fmt.Fprintf(&b, "Flight %s (%s) from %s to %s is currently %s.",
			record.FlightNumber, record.Airline,
			endpointName(record.Origin), endpointName(record.Destination),
			record.Status)
		if record.IsLate() {
			fmt.Fprintf(&b, " It's running about %d minutes behind schedule.", record.DelayMinutes)
		}
		if record.Origin.Gate != "" {
			fmt.Fprintf(&b, " It departs from gate %s.", record.Origin.Gate)
		}
	}

	// A congestion aside adds color on delayed flights, but not when the
	// question was already about airport conditions.
	if record.IsLate() && intentName != intent.IntentAirportConditions {
		b.WriteString(" The airport is fairly busy right now, so allow some extra time.")
	}

	return b.String()
}

func endpointName(ep store.FlightEndpoint) string {
	if ep.City != "" {
		return fmt.Sprintf("%s (%s)", ep.City, ep.Code)
	}
	if ep.Name != "" {
		return ep.Name
	}
	return ep.Code
}

// substitutionValues carries a safe default for every recognized placeholder
// so a sparse record or entity set never breaks a template.
func substitutionValues(record *store.FlightRecord, entities map[string]string) map[string]string {
	values := map[string]string{
		"flight_number": "your flight",
		"airline":       "the airline",
		"status":        "on schedule",
		"origin":        "the origin airport",
		"destination":   "the destination airport",
		"gate":          "TBD",
		"terminal":      "TBD",
		"delay_minutes": "0",
		"duration":      "Unknown",
		"date":          "today",
	}
	if record != nil {
		values["flight_number"] = record.FlightNumber
		values["airline"] = record.Airline
		values["status"] = record.Status
		values["origin"] = endpointName(record.Origin)
		values["destination"] = endpointName(record.Destination)
		values["delay_minutes"] = fmt.Sprintf("%d", record.DelayMinutes)
		values["duration"] = record.Duration
		values["date"] = record.Date
		if record.Origin.Gate != "" {
			values["gate"] = record.Origin.Gate
		}
		if record.Origin.Terminal != "" {
			values["terminal"] = record.Origin.Terminal
		}
	}
	if v := entities[extract.EntityFlightNumber]; v != "" && record == nil {
		values["flight_number"] = v
	}
	if v := entities[extract.EntityDate]; v != "" && record == nil {
		values["date"] = v
	}
	return values
}

// substitute fills {placeholder} tokens from values. It reports false when a
// template references a placeholder with no value, which routes the caller to
// the per-intent fallback.
func substitute(template string, values map[string]string) (string, bool) {
	ok := true
	text := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if v, found := values[name]; found {
			return v
		}
		ok = false
		return match
	})
	return text, ok
}

func looksLikeStatusInquiry(message string) bool {
	lower := strings.ToLower(message)
	for _, w := range statusInquiryWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
