package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"airport-assistant-be/internal/bootstrap"
	"airport-assistant-be/internal/config"
	"airport-assistant-be/internal/dto"
	"airport-assistant-be/internal/server"
	"airport-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *server.Server {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("LOG_FILE_PATH", dir+"/assistant.log")
	t.Setenv("FLIGHT_DATA_MODE", "mock")
	t.Setenv("DIALOG_RANDOM_SEED", "42")

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	return server.New(cfg, container)
}

func postChat(t *testing.T, srv *server.Server, body string) (int, *dto.ChatResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/chat/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.GetApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var chatResp dto.ChatResponse
	if resp.StatusCode == 200 {
		require.NoError(t, json.Unmarshal(data, &chatResp))
	}
	return resp.StatusCode, &chatResp
}

func TestChatEndpointGreeting(t *testing.T) {
	srv := setupApp(t)

	status, resp := postChat(t, srv, `{"message":"hello"}`)

	require.Equal(t, 200, status)
	assert.Equal(t, "greeting", resp.Intent)
	assert.NotEmpty(t, resp.Response)
	assert.Equal(t, resp.Response, resp.Text, "response and text carry the same value")
	assert.Nil(t, resp.FlightData)
	assert.NotEmpty(t, resp.SessionId)
}

func TestChatEndpointFlightStatus(t *testing.T) {
	srv := setupApp(t)

	status, resp := postChat(t, srv, `{"message":"what's the status of flight AA123"}`)

	require.Equal(t, 200, status)
	assert.Equal(t, "flight_status", resp.Intent)
	assert.Equal(t, "AA123", resp.Entities["flight_number"])
	require.NotNil(t, resp.FlightData)
	assert.Equal(t, "AA123", resp.FlightData.FlightNumber)
	assert.Contains(t, resp.Response, resp.FlightData.Status)
	assert.Equal(t, store.StateFlightIdentified, resp.State)
}

func TestChatEndpointContextAcrossTurns(t *testing.T) {
	srv := setupApp(t)

	_, first := postChat(t, srv, `{"message":"flight UA456"}`)
	require.NotEmpty(t, first.SessionId)

	status, second := postChat(t, srv, `{"session_id":"`+first.SessionId+`","message":"is it delayed?"}`)

	require.Equal(t, 200, status)
	assert.Equal(t, "delay_inquiry", second.Intent)
	require.NotNil(t, second.FlightData)
	assert.Equal(t, "UA456", second.FlightData.FlightNumber)
}

func TestChatEndpointMissingMessage(t *testing.T) {
	srv := setupApp(t)

	status, _ := postChat(t, srv, `{}`)

	assert.Equal(t, 400, status)
}

func TestResetEndpoint(t *testing.T) {
	srv := setupApp(t)

	_, first := postChat(t, srv, `{"message":"flight UA456"}`)

	req := httptest.NewRequest("POST", "/api/chat/reset", bytes.NewBufferString(`{"session_id":"`+first.SessionId+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.GetApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)

	var ack dto.ResetResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	assert.Equal(t, "reset", ack.Status)
	assert.NotEmpty(t, ack.Message)
	assert.False(t, ack.Timestamp.IsZero(), "reset ack carries a timestamp like every other reply")

	// The remembered flight must be gone.
	status, followup := postChat(t, srv, `{"session_id":"`+first.SessionId+`","message":"is it delayed?"}`)
	require.Equal(t, 200, status)
	assert.Nil(t, followup.FlightData)
}

func TestFlightLookupEndpoint(t *testing.T) {
	srv := setupApp(t)

	req := httptest.NewRequest("GET", "/api/flights/DL789?date=2025-06-20", nil)
	resp, err := srv.GetApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Success bool               `json:"success"`
		Data    store.FlightRecord `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "DL789", envelope.Data.FlightNumber)
	assert.Equal(t, "2025-06-20", envelope.Data.Date)
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupApp(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := srv.GetApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Success bool               `json:"success"`
		Data    dto.HealthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.False(t, envelope.Data.Timestamp.IsZero())
}
