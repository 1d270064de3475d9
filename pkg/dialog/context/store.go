// Package context holds the per-session, TTL-bounded memory of entities a
// user has supplied across turns, plus the coarse conversation state label.
package context

import (
	"time"

	"airport-assistant-be/pkg/store"
)

// Entry pairs an entity value with the time it was last written.
type Entry struct {
	Value     string
	UpdatedAt time.Time
}

// ResetAck is the payload surfaced to the user after an explicit reset.
type ResetAck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Store keeps entity values until they age past the TTL. Expiry is lazy:
// there is no background timer, expired entries are dropped on every read and
// write. A Store belongs to exactly one session and is never shared.
type Store struct {
	ttl     time.Duration
	entries map[string]Entry
	state   string
	now     func() time.Time
}

func NewStore(ttl time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]Entry),
		state:   store.StateInitial,
		now:     now,
	}
}

// Update merges extracted entities, last-write-wins per key. Empty values are
// ignored so a turn without a given entity never clobbers remembered context.
func (s *Store) Update(entities map[string]string) {
	s.evictExpired()
	now := s.now()
	for name, value := range entities {
		if value == "" {
			continue
		}
		s.entries[name] = Entry{Value: value, UpdatedAt: now}
	}
}

// Get returns a copy of all live entries.
func (s *Store) Get() map[string]string {
	s.evictExpired()
	out := make(map[string]string, len(s.entries))
	for name, e := range s.entries {
		out[name] = e.Value
	}
	return out
}

// Value looks up a single entity, if it has not expired.
func (s *Store) Value(name string) (string, bool) {
	s.evictExpired()
	e, ok := s.entries[name]
	if !ok {
		return "", false
	}
	return e.Value, true
}

func (s *Store) SetState(label string) {
	s.state = label
}

func (s *Store) GetState() string {
	return s.state
}

// Reset clears all entries and returns the session to the initial state.
func (s *Store) Reset() ResetAck {
	s.entries = make(map[string]Entry)
	s.state = store.StateInitial
	return ResetAck{
		Status:  "reset",
		Message: "Okay, let's start over. Which flight can I help you with?",
	}
}

// Entries served strictly after UpdatedAt+ttl are stale; an entry read at
// exactly the TTL boundary is still live.
func (s *Store) evictExpired() {
	now := s.now()
	for name, e := range s.entries {
		if now.Sub(e.UpdatedAt) > s.ttl {
			delete(s.entries, name)
		}
	}
}
