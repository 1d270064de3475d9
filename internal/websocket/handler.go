package websocket

import (
	"airport-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Handler upgrades chat connections and binds each one to a fresh session.
type Handler struct {
	hub         *Hub
	chatService service.IChatService
	publisher   service.IPublisherService
}

func NewHandler(hub *Hub, chatService service.IChatService, publisher service.IPublisherService) *Handler {
	return &Handler{
		hub:         hub,
		chatService: chatService,
		publisher:   publisher,
	}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(h.serve))
}

// serve runs for the lifetime of one connection. readPump stays on this
// goroutine so the fiber handler does not return while the peer is connected.
func (h *Handler) serve(conn *websocket.Conn) {
	sessionID := uuid.NewString()

	client := &Client{
		Hub:          h.hub,
		Conn:         conn,
		SessionID:    sessionID,
		Orchestrator: h.chatService.NewOrchestrator(sessionID),
		Send:         make(chan []byte, 256),
		publisher:    h.publisher,
	}
	client.Hub.register <- client

	go client.writePump()
	client.sendGreeting()
	client.readPump()
}
