package context

import (
	"testing"
	"time"

	"airport-assistant-be/pkg/store"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time         { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestStoreTTLExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(10*time.Minute, clock.Now)

	s.Update(map[string]string{"flight_number": "AA123"})

	// Present at every read up to and including the TTL boundary.
	checkpoints := []time.Duration{0, time.Minute, 5 * time.Minute, 10 * time.Minute}
	base := clock.t
	for _, d := range checkpoints {
		clock.t = base.Add(d)
		if v, ok := s.Value("flight_number"); !ok || v != "AA123" {
			t.Fatalf("at +%v: got (%q, %v), want (AA123, true)", d, v, ok)
		}
	}

	// Absent once past the TTL, and it stays absent.
	clock.t = base.Add(10*time.Minute + time.Second)
	if _, ok := s.Value("flight_number"); ok {
		t.Fatal("entry still present past its TTL")
	}
	if got := s.Get(); len(got) != 0 {
		t.Fatalf("Get() after expiry = %v, want empty", got)
	}
}

func TestStoreLastWriteWins(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := NewStore(time.Hour, clock.Now)

	s.Update(map[string]string{"flight_number": "AA123"})
	clock.Advance(time.Minute)
	s.Update(map[string]string{"flight_number": "DL456"})

	if v, _ := s.Value("flight_number"); v != "DL456" {
		t.Fatalf("flight_number = %q, want DL456", v)
	}
}

func TestStoreUpdateRefreshesTimestamp(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := NewStore(10*time.Minute, clock.Now)

	s.Update(map[string]string{"airport": "JFK"})
	clock.Advance(8 * time.Minute)
	s.Update(map[string]string{"airport": "JFK"})
	clock.Advance(8 * time.Minute)

	// 16 minutes after the first write but only 8 after the refresh.
	if _, ok := s.Value("airport"); !ok {
		t.Fatal("refreshed entry expired against its original timestamp")
	}
}

func TestStoreEmptyValuesIgnored(t *testing.T) {
	s := NewStore(time.Hour, nil)
	s.Update(map[string]string{"flight_number": "UA99"})
	s.Update(map[string]string{"flight_number": ""})

	if v, _ := s.Value("flight_number"); v != "UA99" {
		t.Fatalf("empty value overwrote context, got %q", v)
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore(time.Hour, nil)
	s.Update(map[string]string{"flight_number": "AA123", "date": "2025-06-01"})
	s.SetState(store.StateFlightIdentified)

	ack := s.Reset()

	if ack.Status != "reset" || ack.Message == "" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if got := s.Get(); len(got) != 0 {
		t.Fatalf("context not empty after reset: %v", got)
	}
	if s.GetState() != store.StateInitial {
		t.Fatalf("state after reset = %q, want %q", s.GetState(), store.StateInitial)
	}
}
