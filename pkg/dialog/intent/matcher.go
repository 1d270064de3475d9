package intent

import (
	"log"
	"sort"
	"strings"
	"unicode"
)

// AcceptThreshold is the minimum overlap score an intent must reach when no
// example is a whole-phrase substring of the message. Taken as given from
// operational tuning; note the score is not normalized by message length, so
// short messages can over-match.
const AcceptThreshold = 0.6

// greetingPhrases short-circuit matching before any scoring happens.
var greetingPhrases = []string{
	"hello", "hi", "hey", "hiya",
	"good morning", "good afternoon", "good evening",
}

// Matcher scores free text against a catalog. Intents are enumerated in
// sorted name order so substring tie-breaks are deterministic.
type Matcher struct {
	catalog Catalog
	order   []string
	logger  *log.Logger
}

func NewMatcher(catalog Catalog, logger *log.Logger) *Matcher {
	order := make([]string, 0, len(catalog))
	for name := range catalog {
		order = append(order, name)
	}
	sort.Strings(order)
	return &Matcher{catalog: catalog, order: order, logger: logger}
}

// Definition exposes a catalog entry to the orchestrator and renderer.
func (m *Matcher) Definition(name string) (Definition, bool) {
	def, ok := m.catalog[name]
	return def, ok
}

// IsGreeting reports whether the message is, or contains as a whole word, a
// phrase from the fixed greeting set.
func (m *Matcher) IsGreeting(text string) bool {
	norm := normalize(text)
	if norm == "" {
		return false
	}
	for _, phrase := range greetingPhrases {
		if norm == phrase || containsPhrase(norm, phrase) {
			return true
		}
	}
	return false
}

// Match returns the best intent name, or "" when nothing clears the
// threshold.
//
// Order of resolution: greeting short-circuit, then per-example whole-word
// substring hits (first intent in enumeration order wins), then the highest
// overlap score |example words ∩ message words| / |example words| at or above
// AcceptThreshold.
func (m *Matcher) Match(text string) string {
	norm := normalize(text)
	if norm == "" {
		return ""
	}

	if _, ok := m.catalog[IntentGreeting]; ok && m.IsGreeting(norm) {
		return IntentGreeting
	}

	msgWords := wordSet(norm)

	bestName := ""
	bestScore := 0.0
	for _, name := range m.order {
		def := m.catalog[name]
		for _, example := range def.Examples {
			exNorm := normalize(example)
			if exNorm == "" {
				continue
			}
			if containsPhrase(norm, exNorm) {
				return name
			}
			exWords := strings.Fields(exNorm)
			if len(exWords) == 0 {
				continue
			}
			common := 0
			for _, w := range exWords {
				if msgWords[w] {
					common++
				}
			}
			score := float64(common) / float64(len(exWords))
			if score > bestScore {
				bestName, bestScore = name, score
			}
		}
	}

	if bestScore >= AcceptThreshold {
		m.logger.Printf("[INTENT] Matched %q (score %.2f)", bestName, bestScore)
		return bestName
	}
	return ""
}

// normalize lowercases, trims, and squashes punctuation to spaces so
// substring checks align on word boundaries.
func normalize(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// containsPhrase reports a whole-word substring hit of phrase in text; both
// must already be normalized.
func containsPhrase(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

func wordSet(norm string) map[string]bool {
	words := strings.Fields(norm)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
