// Package flightdata resolves flight status records by (flight number, date)
// through a TTL cache, a live aviation data source, and a synthesizer that
// guarantees an answer when the live source is unavailable.
package flightdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"airport-assistant-be/pkg/store"
)

// Connector modes.
const (
	ModeMock = "mock"
	ModeLive = "live"
)

// Connector resolves flight records. Resolution order: cache hit within TTL,
// then the live source when configured, then synthesis. Upstream failures are
// absorbed and logged, never returned; Fetch always yields a record.
type Connector struct {
	mode    string
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *Cache
	ref     *ReferenceData
	logger  *log.Logger
	now     func() time.Time

	// rng is injected so tests can fix the seed; guarded because sessions
	// fetch in parallel and rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

func NewConnector(
	mode, apiKey, baseURL string,
	fetchTimeout time.Duration,
	cache *Cache,
	ref *ReferenceData,
	rng *rand.Rand,
	logger *log.Logger,
	now func() time.Time,
) *Connector {
	if now == nil {
		now = time.Now
	}
	return &Connector{
		mode:    mode,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: fetchTimeout},
		cache:   cache,
		ref:     ref,
		rng:     rng,
		logger:  logger,
		now:     now,
	}
}

// Fetch resolves a record. An empty date means today. The returned record is
// shared with the cache and must be treated as read-only.
func (c *Connector) Fetch(ctx context.Context, flightNumber, date string) *store.FlightRecord {
	flightNumber = strings.ToUpper(strings.ReplaceAll(flightNumber, " ", ""))
	if date == "" {
		date = c.now().Format("2006-01-02")
	}

	if record, found := c.cache.Get(flightNumber, date); found {
		return record
	}

	if c.mode == ModeLive && c.apiKey != "" {
		record, err := c.fetchLive(ctx, flightNumber, date)
		if err == nil {
			c.cache.Set(record)
			return record
		}
		c.logger.Printf("[WARN] Live flight lookup failed for %s on %s, synthesizing: %v", flightNumber, date, err)
	}

	record := c.synthesize(flightNumber, date)
	c.cache.Set(record)
	return record
}

// Live-source payload shapes (aviationstack-compatible). Fields are decoded
// defensively: anything missing or unparsable degrades to a default instead
// of failing the whole record.
type liveResponse struct {
	Data []liveFlight `json:"data"`
}

type liveFlight struct {
	FlightDate   string       `json:"flight_date"`
	FlightStatus string       `json:"flight_status"`
	Departure    liveEndpoint `json:"departure"`
	Arrival      liveEndpoint `json:"arrival"`
	Airline      struct {
		Name string `json:"name"`
	} `json:"airline"`
}

type liveEndpoint struct {
	Airport   string `json:"airport"`
	Iata      string `json:"iata"`
	Scheduled string `json:"scheduled"`
	Estimated string `json:"estimated"`
	Gate      string `json:"gate"`
	Terminal  string `json:"terminal"`
}

func (c *Connector) fetchLive(ctx context.Context, flightNumber, date string) (*store.FlightRecord, error) {
	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("flight_iata", flightNumber)
	q.Set("flight_date", date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/flights?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var payload liveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding upstream payload: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("no data for flight %s on %s", flightNumber, date)
	}

	record := c.transformLive(flightNumber, date, payload.Data[0])
	return record, nil
}

func (c *Connector) transformLive(flightNumber, date string, lf liveFlight) *store.FlightRecord {
	record := &store.FlightRecord{
		FlightNumber: flightNumber,
		Airline:      lf.Airline.Name,
		Status:       mapLiveStatus(lf.FlightStatus),
		Date:         date,
		Origin:       c.transformEndpoint(lf.Departure),
		Destination:  c.transformEndpoint(lf.Arrival),
		Source:       store.RecordSourceLive,
	}
	if record.Airline == "" {
		if airline, ok := c.ref.AirlineForFlight(flightNumber); ok {
			record.Airline = airline.Name
		}
	}
	computeDerived(record)
	return record
}

// transformEndpoint fills display names from the reference table when the
// upstream omits them.
func (c *Connector) transformEndpoint(le liveEndpoint) store.FlightEndpoint {
	ep := store.FlightEndpoint{
		Code:      strings.ToUpper(le.Iata),
		Name:      le.Airport,
		Scheduled: parseLiveTime(le.Scheduled),
		Estimated: parseLiveTime(le.Estimated),
		Gate:      le.Gate,
		Terminal:  le.Terminal,
	}
	if airport, ok := c.ref.Airport(ep.Code); ok {
		if ep.Name == "" {
			ep.Name = airport.Name
		}
		ep.City = airport.City
	}
	return ep
}

// parseLiveTime returns the zero time for anything it cannot parse; derived
// fields treat zero as "unknown".
func parseLiveTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func mapLiveStatus(s string) string {
	switch strings.ToLower(s) {
	case "scheduled":
		return store.FlightStatusOnTime
	case "active":
		return store.FlightStatusInAir
	case "landed":
		return store.FlightStatusLanded
	case "cancelled":
		return store.FlightStatusCancelled
	case "delayed", "incident", "diverted":
		return store.FlightStatusDelayed
	default:
		return store.FlightStatusOnTime
	}
}

// synthStatuses is weighted toward the common case so synthesized data reads
// plausibly.
var synthStatuses = []string{
	store.FlightStatusOnTime, store.FlightStatusOnTime, store.FlightStatusOnTime, store.FlightStatusOnTime,
	store.FlightStatusDelayed, store.FlightStatusDelayed,
	store.FlightStatusBoarding,
	store.FlightStatusDeparted,
	store.FlightStatusInAir,
	store.FlightStatusLanded,
	store.FlightStatusCancelled,
}

// synthesize fabricates a plausible record from the reference tables. Caching
// the result keeps repeated queries within the TTL window consistent.
func (c *Connector) synthesize(flightNumber, date string) *store.FlightRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	airports := c.ref.airportList()
	if len(airports) < 2 {
		// A sparse table cannot supply two distinct endpoints; borrow the
		// rest from the builtin list. Lookups still see only the loaded rows.
		for _, a := range builtinAirports() {
			if _, ok := c.ref.airports[a.Code]; !ok {
				airports = append(airports, a)
			}
		}
	}

	originIdx := c.rng.Intn(len(airports))
	destIdx := c.rng.Intn(len(airports) - 1)
	if destIdx >= originIdx {
		destIdx++
	}
	origin, dest := airports[originIdx], airports[destIdx]

	airlineName := flightNumber[:min(2, len(flightNumber))] + " Air"
	if airline, ok := c.ref.AirlineForFlight(flightNumber); ok {
		airlineName = airline.Name
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		day = c.now().Truncate(24 * time.Hour)
		date = day.Format("2006-01-02")
	}

	status := synthStatuses[c.rng.Intn(len(synthStatuses))]
	depScheduled := day.Add(time.Duration(6+c.rng.Intn(16)) * time.Hour).Add(time.Duration(5*c.rng.Intn(12)) * time.Minute)
	flightTime := time.Duration(120+c.rng.Intn(420)) * time.Minute

	var delay time.Duration
	if status == store.FlightStatusDelayed {
		delay = time.Duration(15+c.rng.Intn(106)) * time.Minute
	}

	record := &store.FlightRecord{
		FlightNumber: flightNumber,
		Airline:      airlineName,
		Status:       status,
		Date:         date,
		Origin: store.FlightEndpoint{
			Code:      origin.Code,
			Name:      origin.Name,
			City:      origin.City,
			Scheduled: depScheduled,
			Estimated: depScheduled.Add(delay),
			Gate:      fmt.Sprintf("%c%d", 'A'+rune(c.rng.Intn(6)), 1+c.rng.Intn(30)),
			Terminal:  fmt.Sprintf("%d", 1+c.rng.Intn(5)),
		},
		Destination: store.FlightEndpoint{
			Code:      dest.Code,
			Name:      dest.Name,
			City:      dest.City,
			Scheduled: depScheduled.Add(flightTime),
			Estimated: depScheduled.Add(flightTime + delay),
		},
		Source: store.RecordSourceSynthesized,
	}
	computeDerived(record)
	return record
}

// computeDerived fills delay minutes and duration from the schedule pair.
// Malformed or missing timestamps yield 0 delay and "Unknown" duration.
func computeDerived(record *store.FlightRecord) {
	record.DelayMinutes = 0
	if !record.Origin.Scheduled.IsZero() && !record.Origin.Estimated.IsZero() {
		if d := record.Origin.Estimated.Sub(record.Origin.Scheduled); d > 0 {
			record.DelayMinutes = int(d.Minutes())
		}
	}

	record.Duration = "Unknown"
	if !record.Origin.Scheduled.IsZero() && !record.Destination.Scheduled.IsZero() {
		if d := record.Destination.Scheduled.Sub(record.Origin.Scheduled); d > 0 {
			record.Duration = fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
		}
	}
}
