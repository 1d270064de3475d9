package websocket

import (
	gocontext "context"
	"encoding/json"
	"strings"
	"time"

	"airport-assistant-be/internal/constant"
	"airport-assistant-be/internal/dto"
	"airport-assistant-be/internal/service"
	"airport-assistant-be/pkg/dialog/intent"
	"airport-assistant-be/pkg/dialog/orchestrator"
	"airport-assistant-be/pkg/store"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// chatFrame is what a peer may send: a message to process or a control
// action. Anything that fails to parse is treated as raw message text.
type chatFrame struct {
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Client binds one websocket connection to one orchestrator. Frames are read
// one at a time, which is exactly the per-session turn serialization the
// dialogue engine assumes.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// SessionID for this connection, minted at upgrade time.
	SessionID string

	// Orchestrator owned exclusively by this connection.
	Orchestrator *orchestrator.Orchestrator

	// Buffered channel of outbound messages.
	Send chan []byte

	publisher service.IPublisherService
}

// readPump processes inbound frames through the orchestrator and queues the
// replies. Turns run with a background context: a peer dropping mid-fetch
// still lets the fetch finish and warm the cache, the reply is just never
// delivered.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn(constant.LogModuleWebSocket, "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID, "error": err.Error(),
				})
			}
			break
		}
		c.handleFrame(raw)
	}
}

func (c *Client) handleFrame(raw []byte) {
	var frame chatFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		// Malformed frames are plain text from simple clients.
		frame = chatFrame{Message: string(raw)}
	}

	if strings.EqualFold(frame.Action, "reset") {
		ack := c.Orchestrator.Reset()
		c.publisher.PublishReset(gocontext.Background(), c.SessionID)
		c.enqueue(dto.ResetResponse{
			SessionId: c.SessionID,
			Status:    ack.Status,
			Message:   ack.Message,
			Timestamp: time.Now(),
		})
		return
	}

	result := c.Orchestrator.HandleMessage(gocontext.Background(), frame.Message)
	c.publisher.PublishTurn(gocontext.Background(), c.SessionID, frame.Message, result)
	c.enqueue(dto.NewChatResponse(c.SessionID, result))
}

// sendGreeting pushes the opening line every fresh connection receives.
func (c *Client) sendGreeting() {
	greeting := c.Orchestrator.Greeting()
	c.enqueue(&dto.ChatResponse{
		SessionId: c.SessionID,
		Response:  greeting,
		Text:      greeting,
		Intent:    intent.IntentGreeting,
		State:     store.StateInitial,
		Timestamp: time.Now(),
	})
}

func (c *Client) enqueue(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.Hub.logger.Error(constant.LogModuleWebSocket, "Failed to marshal frame", map[string]interface{}{
			"session_id": c.SessionID, "error": err.Error(),
		})
		return
	}
	select {
	case c.Send <- data:
	default:
		c.Hub.logger.Warn(constant.LogModuleWebSocket, "Send buffer full, dropping frame", map[string]interface{}{
			"session_id": c.SessionID,
		})
	}
}

// writePump pumps queued frames to the websocket connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
