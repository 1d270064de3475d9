package store

import "time"

// Conversation state labels. The state biases response phrasing only; it
// never gates an action.
const (
	StateInitial          = "initial"
	StateFlightIdentified = "flight_identified"
)

// Turn is one completed exchange, kept in the session's bounded history ring.
type Turn struct {
	UserMessage string    `json:"user_message"`
	Response    string    `json:"response"`
	Intent      string    `json:"intent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session is the in-memory per-conversation state. One session is owned by
// exactly one transport connection (or one session_id on the REST side); the
// transport serializes turns, so Session is not locked.
type Session struct {
	ID         string `json:"id"`
	History    []Turn `json:"history"`
	MaxHistory int    `json:"-"`
}

func NewSession(id string, maxHistory int) *Session {
	if maxHistory <= 0 {
		maxHistory = 10
	}
	return &Session{ID: id, MaxHistory: maxHistory}
}

// AddTurn appends to the ring, evicting the oldest turn once full.
func (s *Session) AddTurn(t Turn) {
	s.History = append(s.History, t)
	if len(s.History) > s.MaxHistory {
		s.History = s.History[len(s.History)-s.MaxHistory:]
	}
}

// ClearHistory drops all recorded turns, used by the conversation reset.
func (s *Session) ClearHistory() {
	s.History = nil
}
