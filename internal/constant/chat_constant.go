package constant

const (
	// Watermill topic carrying completed turns to the transcript consumer.
	TopicChatTurns = "chat_turns"

	// Event type published to NATS for external consumers.
	EventChatTurnCompleted = "CHAT_TURN_COMPLETED"
	EventSessionReset      = "SESSION_RESET"

	// Logger module tags.
	LogModuleServer     = "Server"
	LogModuleDialogue   = "Dialogue"
	LogModuleTranscript = "Transcript"
	LogModuleWebSocket  = "WebSocket"
	LogModuleFlightData = "FlightData"
)
