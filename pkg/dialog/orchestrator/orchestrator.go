// Package orchestrator wires the dialogue pipeline together: one orchestrator
// per session, one pass through the pipeline per incoming message.
package orchestrator

import (
	gocontext "context"
	"log"
	"strings"
	"time"

	dialogctx "airport-assistant-be/pkg/dialog/context"
	"airport-assistant-be/pkg/dialog/extract"
	"airport-assistant-be/pkg/dialog/intent"
	"airport-assistant-be/pkg/dialog/response"
	"airport-assistant-be/pkg/flightdata"
	"airport-assistant-be/pkg/store"
)

// EmptyPrompt answers blank input without running the pipeline.
const EmptyPrompt = "I didn't catch anything there. What would you like to know about your flight?"

// resetPhrases trigger a conversation reset before any other rule.
var resetPhrases = map[string]bool{
	"reset":            true,
	"start over":       true,
	"start again":      true,
	"restart":          true,
	"clear":            true,
	"new conversation": true,
}

// TurnResult is what one processed message yields, handed back to the
// transport layer.
type TurnResult struct {
	Response  string              `json:"response"`
	Intent    string              `json:"intent,omitempty"`
	Entities  map[string]string   `json:"entities,omitempty"`
	Record    *store.FlightRecord `json:"flight_data,omitempty"`
	State     string              `json:"state"`
	Timestamp time.Time           `json:"timestamp"`
}

// Deps are the process-wide collaborators shared by every orchestrator.
type Deps struct {
	Extractor *extract.Extractor
	Matcher   *intent.Matcher
	Connector *flightdata.Connector
	Generator *response.Generator
	Logger    *log.Logger

	ContextTTL  time.Duration
	HistorySize int
	Now         func() time.Time
}

// Orchestrator owns one session's state. The transport serializes turns
// within a session, so no locking happens here; only the shared collaborators
// synchronize internally.
type Orchestrator struct {
	deps    Deps
	session *store.Session
	context *dialogctx.Store
}

func New(sessionID string, deps Deps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{
		deps:    deps,
		session: store.NewSession(sessionID, deps.HistorySize),
		context: dialogctx.NewStore(deps.ContextTTL, deps.Now),
	}
}

func (o *Orchestrator) Session() *store.Session {
	return o.session
}

// HandleMessage runs one message through the pipeline. Rule precedence:
// reset command, then greeting, then context-complete intents, then the
// clarifying question. It never returns an error; every failure mode ends in
// some rendered text.
func (o *Orchestrator) HandleMessage(ctx gocontext.Context, message string) TurnResult {
	message = strings.TrimSpace(message)
	if message == "" {
		// Nothing to process and nothing worth remembering.
		return TurnResult{
			Response:  EmptyPrompt,
			State:     o.context.GetState(),
			Timestamp: o.deps.Now(),
		}
	}

	if resetPhrases[strings.ToLower(message)] {
		ack := o.Reset()
		return TurnResult{
			Response:  ack.Message,
			Intent:    intent.IntentReset,
			State:     o.context.GetState(),
			Timestamp: o.deps.Now(),
		}
	}

	entities := o.deps.Extractor.Extract(message)
	o.context.Update(entities)

	matched := o.deps.Matcher.Match(message)
	if matched == "" && o.deps.Matcher.IsGreeting(message) {
		matched = intent.IntentGreeting
	}

	def, hasDef := o.deps.Matcher.Definition(matched)
	canned := hasDef && len(def.Responses) > 0

	flightNumber := o.resolve(entities, extract.EntityFlightNumber)
	date := o.resolve(entities, extract.EntityDate)

	var record *store.FlightRecord
	if flightNumber != "" && matched != intent.IntentGreeting && !canned {
		record = o.deps.Connector.Fetch(ctx, flightNumber, date)
		o.context.SetState(store.StateFlightIdentified)
	}

	// An intent that needs context we don't have gets the slot-filling
	// question instead of a half-filled answer.
	if hasDef && !canned && record == nil && missingRequired(def, entities, o.context) {
		return o.finishTurn(message, TurnResult{
			Response: response.ClarifyFlightNumber,
			Intent:   matched,
			Entities: entities,
		})
	}

	var templates []string
	if canned {
		templates = def.Responses
	}
	text := o.deps.Generator.Render(matched, templates, record, o.mergedEntities(entities), message)

	return o.finishTurn(message, TurnResult{
		Response: text,
		Intent:   matched,
		Entities: entities,
		Record:   record,
	})
}

// Reset clears context, state, and history. Called for explicit reset
// commands and the reset action frame on the persistent connection.
func (o *Orchestrator) Reset() dialogctx.ResetAck {
	o.session.ClearHistory()
	return o.context.Reset()
}

// Greeting renders the opening line a new connection is welcomed with.
func (o *Orchestrator) Greeting() string {
	def, ok := o.deps.Matcher.Definition(intent.IntentGreeting)
	if !ok || len(def.Responses) == 0 {
		return response.GenericFallback
	}
	return o.deps.Generator.Render(intent.IntentGreeting, def.Responses, nil, nil, "")
}

// resolve prefers this turn's extraction, then remembered context.
func (o *Orchestrator) resolve(entities map[string]string, name string) string {
	if v := entities[name]; v != "" {
		return v
	}
	if v, ok := o.context.Value(name); ok {
		return v
	}
	return ""
}

// mergedEntities overlays this turn's entities on remembered context for
// template substitution.
func (o *Orchestrator) mergedEntities(entities map[string]string) map[string]string {
	merged := o.context.Get()
	for name, value := range entities {
		if value != "" {
			merged[name] = value
		}
	}
	return merged
}

func missingRequired(def intent.Definition, entities map[string]string, ctx *dialogctx.Store) bool {
	for _, name := range def.RequiredContext {
		if entities[name] != "" {
			continue
		}
		if _, ok := ctx.Value(name); ok {
			continue
		}
		return true
	}
	return false
}

func (o *Orchestrator) finishTurn(message string, result TurnResult) TurnResult {
	result.State = o.context.GetState()
	result.Timestamp = o.deps.Now()
	o.session.AddTurn(store.Turn{
		UserMessage: message,
		Response:    result.Response,
		Intent:      result.Intent,
		CreatedAt:   result.Timestamp,
	})
	return result
}
