package dto

import (
	"time"

	"airport-assistant-be/pkg/dialog/orchestrator"
	"airport-assistant-be/pkg/store"
)

type ChatRequest struct {
	SessionId string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required"`
}

// ChatResponse mirrors a turn result. Response/Text and FlightData/Record
// carry the same values; older clients read one name, newer ones the other.
type ChatResponse struct {
	SessionId  string              `json:"session_id"`
	Response   string              `json:"response"`
	Text       string              `json:"text"`
	Intent     string              `json:"intent,omitempty"`
	Entities   map[string]string   `json:"entities,omitempty"`
	FlightData *store.FlightRecord `json:"flight_data,omitempty"`
	Record     *store.FlightRecord `json:"record,omitempty"`
	State      string              `json:"state"`
	Timestamp  time.Time           `json:"timestamp"`
}

func NewChatResponse(sessionId string, result orchestrator.TurnResult) *ChatResponse {
	return &ChatResponse{
		SessionId:  sessionId,
		Response:   result.Response,
		Text:       result.Response,
		Intent:     result.Intent,
		Entities:   result.Entities,
		FlightData: result.Record,
		Record:     result.Record,
		State:      result.State,
		Timestamp:  result.Timestamp,
	}
}

type ResetRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type ResetResponse struct {
	SessionId string    `json:"session_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnCompletedMessage is the payload published on the event bus after every
// processed turn.
type TurnCompletedMessage struct {
	SessionId   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	Response    string    `json:"response"`
	Intent      string    `json:"intent,omitempty"`
	State       string    `json:"state"`
	Timestamp   time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Sessions    int       `json:"sessions"`
	Connections int       `json:"connections"`
	Timestamp   time.Time `json:"timestamp"`
}
