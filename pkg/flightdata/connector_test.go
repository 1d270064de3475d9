package flightdata

import (
	"context"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airport-assistant-be/pkg/store"
)

func testNow() time.Time {
	return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func builtinRef() *ReferenceData {
	ref := &ReferenceData{
		airports: make(map[string]Airport),
		airlines: make(map[string]Airline),
	}
	for _, a := range builtinAirports() {
		ref.airports[a.Code] = a
	}
	for _, a := range builtinAirlines() {
		ref.airlines[a.Code] = a
	}
	return ref
}

func newMockConnector(seed int64) *Connector {
	return NewConnector(
		ModeMock, "", "",
		5*time.Second,
		NewCache(15*time.Minute),
		builtinRef(),
		rand.New(rand.NewSource(seed)),
		testLogger(),
		testNow,
	)
}

func TestFetchSynthesizesCompleteRecord(t *testing.T) {
	c := newMockConnector(1)

	record := c.Fetch(context.Background(), "UA123", "2025-06-20")

	require.NotNil(t, record)
	assert.Equal(t, "UA123", record.FlightNumber)
	assert.Equal(t, "United Airlines", record.Airline)
	assert.Equal(t, "2025-06-20", record.Date)
	assert.Equal(t, store.RecordSourceSynthesized, record.Source)
	assert.NotEqual(t, record.Origin.Code, record.Destination.Code)
	assert.NotEmpty(t, record.Status)
	assert.NotEmpty(t, record.Origin.Gate)
	assert.NotEqual(t, "Unknown", record.Duration)
	if record.Status == store.FlightStatusDelayed {
		assert.GreaterOrEqual(t, record.DelayMinutes, 15)
		assert.LessOrEqual(t, record.DelayMinutes, 120)
	} else {
		assert.Zero(t, record.DelayMinutes)
	}
}

func TestFetchSynthesizesWithSparseAirportTable(t *testing.T) {
	single := &ReferenceData{
		airports: map[string]Airport{
			"JFK": {Code: "JFK", Name: "John F. Kennedy International", City: "New York"},
		},
		airlines: make(map[string]Airline),
	}
	empty := &ReferenceData{
		airports: make(map[string]Airport),
		airlines: make(map[string]Airline),
	}

	for name, ref := range map[string]*ReferenceData{"one airport": single, "no airports": empty} {
		t.Run(name, func(t *testing.T) {
			c := NewConnector(
				ModeMock, "", "",
				5*time.Second,
				NewCache(15*time.Minute),
				ref,
				rand.New(rand.NewSource(7)),
				testLogger(),
				testNow,
			)

			record := c.Fetch(context.Background(), "AA1", "")

			require.NotNil(t, record)
			assert.NotEmpty(t, record.Origin.Code)
			assert.NotEmpty(t, record.Destination.Code)
			assert.NotEqual(t, record.Origin.Code, record.Destination.Code)
		})
	}
}

func TestFetchCachesRecord(t *testing.T) {
	c := newMockConnector(2)

	first := c.Fetch(context.Background(), "DL456", "2025-06-20")
	second := c.Fetch(context.Background(), "DL456", "2025-06-20")

	assert.Same(t, first, second, "second fetch within TTL should be a cache hit")
}

func TestFetchNormalizesFlightNumber(t *testing.T) {
	c := newMockConnector(3)

	first := c.Fetch(context.Background(), "ua 123", "2025-06-20")
	second := c.Fetch(context.Background(), "UA123", "2025-06-20")

	assert.Equal(t, "UA123", first.FlightNumber)
	assert.Same(t, first, second)
}

func TestFetchDefaultsDateToToday(t *testing.T) {
	c := newMockConnector(4)

	record := c.Fetch(context.Background(), "AA100", "")

	assert.Equal(t, "2025-06-15", record.Date)
}

func TestFetchSeedDeterminism(t *testing.T) {
	a := newMockConnector(7)
	b := newMockConnector(7)

	ra := a.Fetch(context.Background(), "WN22", "2025-06-20")
	rb := b.Fetch(context.Background(), "WN22", "2025-06-20")

	assert.Equal(t, ra, rb, "same seed must synthesize identical records")
}

func TestFetchUnknownAirlinePrefix(t *testing.T) {
	c := newMockConnector(5)

	record := c.Fetch(context.Background(), "ZZ999", "2025-06-20")

	assert.Equal(t, "ZZ Air", record.Airline)
}

func TestFetchLiveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UA123", r.URL.Query().Get("flight_iata"))
		assert.Equal(t, "test-key", r.URL.Query().Get("access_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{
			"flight_date":"2025-06-20",
			"flight_status":"active",
			"departure":{"airport":"","iata":"SFO","scheduled":"2025-06-20T08:00:00+00:00","estimated":"2025-06-20T08:25:00+00:00","gate":"B12","terminal":"3"},
			"arrival":{"airport":"","iata":"JFK","scheduled":"2025-06-20T16:30:00+00:00","estimated":"2025-06-20T16:55:00+00:00"},
			"airline":{"name":"United Airlines"}
		}]}`))
	}))
	defer srv.Close()

	c := NewConnector(ModeLive, "test-key", srv.URL, 5*time.Second,
		NewCache(15*time.Minute), builtinRef(), rand.New(rand.NewSource(1)), testLogger(), testNow)

	record := c.Fetch(context.Background(), "UA123", "2025-06-20")

	assert.Equal(t, store.RecordSourceLive, record.Source)
	assert.Equal(t, store.FlightStatusInAir, record.Status)
	assert.Equal(t, "SFO", record.Origin.Code)
	assert.Equal(t, "San Francisco International", record.Origin.Name, "missing display name filled from reference table")
	assert.Equal(t, "B12", record.Origin.Gate)
	assert.Equal(t, 25, record.DelayMinutes)
	assert.Equal(t, "8h 30m", record.Duration)
}

func TestFetchLiveFailureFallsBackToSynthesis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewConnector(ModeLive, "test-key", srv.URL, 5*time.Second,
		NewCache(15*time.Minute), builtinRef(), rand.New(rand.NewSource(1)), testLogger(), testNow)

	record := c.Fetch(context.Background(), "UA123", "2025-06-20")

	require.NotNil(t, record)
	assert.Equal(t, store.RecordSourceSynthesized, record.Source)

	again := c.Fetch(context.Background(), "UA123", "2025-06-20")
	assert.Same(t, record, again, "synthesized fallback must be cached")
}

func TestFetchLiveEmptyDataFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewConnector(ModeLive, "test-key", srv.URL, 5*time.Second,
		NewCache(15*time.Minute), builtinRef(), rand.New(rand.NewSource(1)), testLogger(), testNow)

	record := c.Fetch(context.Background(), "UA123", "2025-06-20")
	assert.Equal(t, store.RecordSourceSynthesized, record.Source)
}

func TestComputeDerivedMalformedTimestamps(t *testing.T) {
	record := &store.FlightRecord{
		Origin:      store.FlightEndpoint{Scheduled: time.Time{}, Estimated: time.Time{}},
		Destination: store.FlightEndpoint{},
	}
	computeDerived(record)

	assert.Zero(t, record.DelayMinutes)
	assert.Equal(t, "Unknown", record.Duration)
}

func TestMapLiveStatus(t *testing.T) {
	assert.Equal(t, store.FlightStatusOnTime, mapLiveStatus("scheduled"))
	assert.Equal(t, store.FlightStatusInAir, mapLiveStatus("active"))
	assert.Equal(t, store.FlightStatusLanded, mapLiveStatus("landed"))
	assert.Equal(t, store.FlightStatusCancelled, mapLiveStatus("cancelled"))
	assert.Equal(t, store.FlightStatusDelayed, mapLiveStatus("incident"))
	assert.Equal(t, store.FlightStatusOnTime, mapLiveStatus("somethingelse"))
}
