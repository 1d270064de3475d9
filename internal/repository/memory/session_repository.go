package memory

import (
	"sync"
	"time"

	"airport-assistant-be/pkg/dialog/orchestrator"

	"github.com/patrickmn/go-cache"
)

// ManagedSession wraps one session's orchestrator with the lock the REST
// transport uses to serialize turns. The websocket transport owns its
// orchestrator per connection and reads frames sequentially, so it never
// needs this.
type ManagedSession struct {
	mu   sync.Mutex
	orch *orchestrator.Orchestrator
}

// WithLock runs fn with exclusive access to the orchestrator.
func (m *ManagedSession) WithLock(fn func(o *orchestrator.Orchestrator)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.orch)
}

type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions idle for an hour are dropped; the janitor sweeps every 10
	// minutes. Context entities inside expire on their own shorter TTL.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// GetOrCreate returns the managed session for sessionID, creating it through
// factory on first sight. Each access refreshes the idle expiration.
func (r *SessionRepository) GetOrCreate(sessionID string, factory func(string) *orchestrator.Orchestrator) *ManagedSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(sessionID); found {
		ms := x.(*ManagedSession)
		r.cache.Set(sessionID, ms, cache.DefaultExpiration)
		return ms
	}
	ms := &ManagedSession{orch: factory(sessionID)}
	r.cache.Set(sessionID, ms, cache.DefaultExpiration)
	return ms
}

func (r *SessionRepository) Get(sessionID string) (*ManagedSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*ManagedSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Count reports live sessions, surfaced by the health endpoint.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
