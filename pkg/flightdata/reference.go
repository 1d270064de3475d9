package flightdata

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Airport is one row of the airport reference table.
type Airport struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

// Airline is one row of the airline reference table.
type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ReferenceData holds the airport and airline lookup tables. Loaded once at
// startup and read-only afterwards, so it is shared across sessions without
// locking.
type ReferenceData struct {
	airports map[string]Airport
	airlines map[string]Airline
}

const (
	airportsFile = "airports.json"
	airlinesFile = "airlines.json"
)

// LoadReferenceData reads both tables from dir. A missing or unreadable file
// is replaced with the built-in table, which is also persisted back so the
// next startup loads cleanly.
func LoadReferenceData(dir string, logger *log.Logger) *ReferenceData {
	ref := &ReferenceData{
		airports: make(map[string]Airport),
		airlines: make(map[string]Airline),
	}

	var airports []Airport
	if !loadTable(filepath.Join(dir, airportsFile), &airports, logger) {
		airports = builtinAirports()
		persistTable(filepath.Join(dir, airportsFile), airports, logger)
	}
	for _, a := range airports {
		ref.airports[strings.ToUpper(a.Code)] = a
	}

	var airlines []Airline
	if !loadTable(filepath.Join(dir, airlinesFile), &airlines, logger) {
		airlines = builtinAirlines()
		persistTable(filepath.Join(dir, airlinesFile), airlines, logger)
	}
	for _, a := range airlines {
		ref.airlines[strings.ToUpper(a.Code)] = a
	}

	return ref
}

func loadTable(path string, out interface{}, logger *log.Logger) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("[WARN] Reference table %s unreadable: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.Printf("[WARN] Reference table %s malformed, using built-in table: %v", path, err)
		return false
	}
	return true
}

func persistTable(path string, table interface{}, logger *log.Logger) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Printf("[WARN] Could not create data dir for %s: %v", path, err)
		return
	}
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Printf("[WARN] Could not persist reference table %s: %v", path, err)
	}
}

// Airport looks a code up, case-insensitively.
func (r *ReferenceData) Airport(code string) (Airport, bool) {
	a, ok := r.airports[strings.ToUpper(code)]
	return a, ok
}

// Airline looks a code up, case-insensitively.
func (r *ReferenceData) Airline(code string) (Airline, bool) {
	a, ok := r.airlines[strings.ToUpper(code)]
	return a, ok
}

// AirlineForFlight resolves the operator from a flight number's prefix.
func (r *ReferenceData) AirlineForFlight(flightNumber string) (Airline, bool) {
	if len(flightNumber) < 2 {
		return Airline{}, false
	}
	return r.Airline(flightNumber[:2])
}

// AirportCodes returns all known IATA codes in sorted order.
func (r *ReferenceData) AirportCodes() []string {
	codes := make([]string, 0, len(r.airports))
	for code := range r.airports {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// AirlineCodes returns all known airline codes in sorted order.
func (r *ReferenceData) AirlineCodes() []string {
	codes := make([]string, 0, len(r.airlines))
	for code := range r.airlines {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// airportList returns the airports in sorted code order, used by the
// synthesizer for deterministic indexing under a seeded random source.
func (r *ReferenceData) airportList() []Airport {
	out := make([]Airport, 0, len(r.airports))
	for _, code := range r.AirportCodes() {
		out = append(out, r.airports[code])
	}
	return out
}

func builtinAirports() []Airport {
	return []Airport{
		{Code: "ATL", Name: "Hartsfield-Jackson Atlanta International", City: "Atlanta"},
		{Code: "BOS", Name: "Boston Logan International", City: "Boston"},
		{Code: "CDG", Name: "Paris Charles de Gaulle", City: "Paris"},
		{Code: "DEN", Name: "Denver International", City: "Denver"},
		{Code: "DFW", Name: "Dallas/Fort Worth International", City: "Dallas"},
		{Code: "DXB", Name: "Dubai International", City: "Dubai"},
		{Code: "JFK", Name: "John F. Kennedy International", City: "New York"},
		{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles"},
		{Code: "LHR", Name: "London Heathrow", City: "London"},
		{Code: "MIA", Name: "Miami International", City: "Miami"},
		{Code: "ORD", Name: "Chicago O'Hare International", City: "Chicago"},
		{Code: "SEA", Name: "Seattle-Tacoma International", City: "Seattle"},
		{Code: "SFO", Name: "San Francisco International", City: "San Francisco"},
		{Code: "SIN", Name: "Singapore Changi", City: "Singapore"},
	}
}

func builtinAirlines() []Airline {
	return []Airline{
		{Code: "AA", Name: "American Airlines"},
		{Code: "AF", Name: "Air France"},
		{Code: "B6", Name: "JetBlue Airways"},
		{Code: "BA", Name: "British Airways"},
		{Code: "DL", Name: "Delta Air Lines"},
		{Code: "EK", Name: "Emirates"},
		{Code: "LH", Name: "Lufthansa"},
		{Code: "SQ", Name: "Singapore Airlines"},
		{Code: "UA", Name: "United Airlines"},
		{Code: "WN", Name: "Southwest Airlines"},
	}
}
