package store

import "time"

// Flight status labels as they appear in rendered responses.
const (
	FlightStatusOnTime    = "On Time"
	FlightStatusDelayed   = "Delayed"
	FlightStatusBoarding  = "Boarding"
	FlightStatusDeparted  = "Departed"
	FlightStatusInAir     = "In Air"
	FlightStatusLanded    = "Landed"
	FlightStatusCancelled = "Cancelled"
)

// Record provenance.
const (
	RecordSourceLive        = "live"
	RecordSourceSynthesized = "synthesized"
)

// FlightEndpoint is one side of a flight with its display fields and
// schedule. Zero timestamps mean the upstream payload had none.
type FlightEndpoint struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Scheduled time.Time `json:"scheduled"`
	Estimated time.Time `json:"estimated"`
	Gate      string    `json:"gate,omitempty"`
	Terminal  string    `json:"terminal,omitempty"`
}

// FlightRecord is the domain record resolved by the data connector and cached
// under (flight number, date). Records are treated as read-only once cached.
type FlightRecord struct {
	FlightNumber string         `json:"flight_number"`
	Airline      string         `json:"airline"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	Origin       FlightEndpoint `json:"origin"`
	Destination  FlightEndpoint `json:"destination"`
	DelayMinutes int            `json:"delay_minutes"`
	Duration     string         `json:"duration"`
	Source       string         `json:"source"`
}

// IsLate reports whether the record should trigger delay phrasing.
func (r *FlightRecord) IsLate() bool {
	return r.Status == FlightStatusDelayed || r.DelayMinutes > 0
}
