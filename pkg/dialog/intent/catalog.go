// Package intent holds the intent catalog and the deterministic lexical
// matcher that scores free text against it.
package intent

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Definition describes one named intent: utterances that exemplify it,
// canned response templates (may be empty), and entity names that must be in
// context before the intent can be fully served.
type Definition struct {
	Examples        []string `json:"examples"`
	Responses       []string `json:"responses"`
	RequiredContext []string `json:"required_context,omitempty"`
}

// Catalog maps a lowercase intent name to its definition. Immutable after
// load.
type Catalog map[string]Definition

// Where the loaded catalog came from. Downstream code only ever sees the
// canonical Catalog shape; the source is kept for logging and introspection.
const (
	SourceFile       = "file"       // parsed as-is from the catalog file
	SourceNormalized = "normalized" // list-of-objects shape rewritten to a mapping
	SourceBuiltin    = "builtin"    // file absent or unusable, built-in set used
)

// LoadResult is the tagged outcome of a catalog load.
type LoadResult struct {
	Catalog Catalog
	Source  string
	Reason  string
}

// Well-known intent names.
const (
	IntentGreeting          = "greeting"
	IntentGoodbye           = "goodbye"
	IntentThanks            = "thanks"
	IntentFlightStatus      = "flight_status"
	IntentDelayInquiry      = "delay_inquiry"
	IntentGateInquiry       = "gate_inquiry"
	IntentAirportConditions = "airport_conditions"
	IntentReset             = "reset"
)

// rawDefinition decodes leniently: a malformed field drops that field, not
// the whole intent.
type rawDefinition struct {
	Name            string          `json:"name"`
	Examples        json.RawMessage `json:"examples"`
	Responses       json.RawMessage `json:"responses"`
	RequiredContext json.RawMessage `json:"required_context"`
}

// Load reads the intent catalog from path. A missing file is created from the
// default set so the service is operable standalone; a file that cannot be
// normalized falls back to the minimal built-in catalog in memory (the broken
// file is left untouched for inspection).
func Load(path string, logger *log.Logger) LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			catalog := DefaultCatalog()
			if werr := writeCatalog(path, catalog); werr != nil {
				logger.Printf("[WARN] Could not persist default intent catalog to %s: %v", path, werr)
			}
			return LoadResult{Catalog: catalog, Source: SourceBuiltin, Reason: "catalog file missing, defaults written"}
		}
		logger.Printf("[WARN] Intent catalog unreadable (%v), using built-in catalog", err)
		return LoadResult{Catalog: BuiltinCatalog(), Source: SourceBuiltin, Reason: "catalog file unreadable: " + err.Error()}
	}

	if catalog, ok := parseMapping(data); ok {
		return LoadResult{Catalog: catalog, Source: SourceFile}
	}

	if catalog, ok := parseList(data); ok {
		logger.Printf("[WARN] Intent catalog %s is a list, normalized to a mapping", path)
		return LoadResult{Catalog: catalog, Source: SourceNormalized, Reason: "list-of-objects shape normalized"}
	}

	logger.Printf("[WARN] Intent catalog %s is malformed, using built-in catalog", path)
	return LoadResult{Catalog: BuiltinCatalog(), Source: SourceBuiltin, Reason: "catalog file malformed"}
}

// parseMapping handles the canonical {"intent": {...}} shape. Intent names
// are lowercased; entries that are not objects are skipped, not errors.
func parseMapping(data []byte) (Catalog, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	catalog := make(Catalog, len(raw))
	for name, entry := range raw {
		var rd rawDefinition
		if err := json.Unmarshal(entry, &rd); err != nil {
			continue
		}
		def := Definition{
			Examples:        decodeStrings(rd.Examples),
			Responses:       decodeStrings(rd.Responses),
			RequiredContext: decodeStrings(rd.RequiredContext),
		}
		if len(def.Examples) == 0 && len(def.Responses) == 0 {
			continue
		}
		catalog[strings.ToLower(strings.TrimSpace(name))] = def
	}
	if len(catalog) == 0 {
		return nil, false
	}
	return catalog, true
}

// parseList handles the [{"name": ..., "examples": ...}] shape some catalog
// exports produce, normalizing it into the mapping.
func parseList(data []byte) (Catalog, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}

	catalog := make(Catalog, len(items))
	for _, item := range items {
		var rd rawDefinition
		if err := json.Unmarshal(item, &rd); err != nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(rd.Name))
		if name == "" {
			continue
		}
		def := Definition{
			Examples:        decodeStrings(rd.Examples),
			Responses:       decodeStrings(rd.Responses),
			RequiredContext: decodeStrings(rd.RequiredContext),
		}
		if len(def.Examples) == 0 && len(def.Responses) == 0 {
			continue
		}
		catalog[name] = def
	}
	if len(catalog) == 0 {
		return nil, false
	}
	return catalog, true
}

// decodeStrings tolerates junk inside example lists: a non-sequence yields
// nil, non-string elements are dropped.
func decodeStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func writeCatalog(path string, catalog Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuiltinCatalog is the minimal small-talk set the engine always has, even
// with a broken catalog file.
func BuiltinCatalog() Catalog {
	return Catalog{
		IntentGreeting: {
			Examples: []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"},
			Responses: []string{
				"Hello! I'm Levi, your airport assistant. How can I help you today?",
				"Hi there! Ask me about any flight and I'll look it up for you.",
				"Hey! I'm Levi. Which flight can I check for you?",
			},
		},
		IntentGoodbye: {
			Examples: []string{"bye", "goodbye", "see you", "take care", "that's all"},
			Responses: []string{
				"Safe travels! Come back any time you need flight info.",
				"Goodbye! Have a smooth journey.",
			},
		},
		IntentThanks: {
			Examples: []string{"thanks", "thank you", "appreciate it", "cheers"},
			Responses: []string{
				"You're welcome! Anything else about your flight?",
				"Happy to help! Let me know if you need anything else.",
			},
		},
	}
}

// DefaultCatalog extends the built-in set with the flight intents and is what
// gets written when no catalog file exists yet.
func DefaultCatalog() Catalog {
	catalog := BuiltinCatalog()
	catalog[IntentFlightStatus] = Definition{
		Examples: []string{
			"what's the status of my flight",
			"is my flight on time",
			"flight status",
			"track my flight",
			"where is my flight",
		},
		RequiredContext: []string{"flight_number"},
	}
	catalog[IntentDelayInquiry] = Definition{
		Examples: []string{
			"is it delayed",
			"is my flight delayed",
			"how late is the flight",
			"any delays",
		},
		RequiredContext: []string{"flight_number"},
	}
	catalog[IntentGateInquiry] = Definition{
		Examples: []string{
			"which gate",
			"what gate does it leave from",
			"gate number",
			"which terminal",
		},
		RequiredContext: []string{"flight_number"},
	}
	catalog[IntentAirportConditions] = Definition{
		Examples: []string{
			"how busy is the airport",
			"how long are the security lines",
			"how is the weather at the airport",
		},
		Responses: []string{
			"Security lines are moving steadily right now; the usual 30 minutes should be plenty.",
			"The airport is moderately busy at the moment. Weather is not affecting operations.",
		},
	}
	return catalog
}
