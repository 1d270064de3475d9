package service

import (
	"context"
	"time"

	"airport-assistant-be/internal/constant"
	"airport-assistant-be/internal/dto"
	"airport-assistant-be/internal/pkg/logger"
	"airport-assistant-be/internal/repository/memory"
	"airport-assistant-be/pkg/dialog/orchestrator"
	"airport-assistant-be/pkg/flightdata"
	"airport-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// IChatService is the dialogue engine's service facade for both transports.
type IChatService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	Reset(ctx context.Context, sessionID string) (*dto.ResetResponse, error)
	FlightStatus(ctx context.Context, flightNumber, date string) *store.FlightRecord

	// NewOrchestrator hands the websocket transport its own per-connection
	// orchestrator; connection frames are read sequentially, so it needs no
	// session repository entry.
	NewOrchestrator(sessionID string) *orchestrator.Orchestrator
}

type chatService struct {
	sessionRepo *memory.SessionRepository
	orchDeps    orchestrator.Deps
	connector   *flightdata.Connector
	publisher   IPublisherService
	sysLogger   logger.ILogger
}

func NewChatService(
	sessionRepo *memory.SessionRepository,
	orchDeps orchestrator.Deps,
	connector *flightdata.Connector,
	publisher IPublisherService,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo: sessionRepo,
		orchDeps:    orchDeps,
		connector:   connector,
		publisher:   publisher,
		sysLogger:   sysLogger,
	}
}

func (s *chatService) NewOrchestrator(sessionID string) *orchestrator.Orchestrator {
	return orchestrator.New(sessionID, s.orchDeps)
}

func (s *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionID := request.SessionId
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ms := s.sessionRepo.GetOrCreate(sessionID, s.NewOrchestrator)

	var result orchestrator.TurnResult
	ms.WithLock(func(o *orchestrator.Orchestrator) {
		result = o.HandleMessage(ctx, request.Message)
	})

	s.sysLogger.Debug(constant.LogModuleDialogue, "Turn processed", map[string]interface{}{
		"session_id": sessionID,
		"intent":     result.Intent,
		"state":      result.State,
	})
	s.publisher.PublishTurn(ctx, sessionID, request.Message, result)

	return dto.NewChatResponse(sessionID, result), nil
}

func (s *chatService) Reset(ctx context.Context, sessionID string) (*dto.ResetResponse, error) {
	// Resetting an unknown session creates it; either way the caller ends up
	// with a clean slate under that ID.
	ms := s.sessionRepo.GetOrCreate(sessionID, s.NewOrchestrator)

	var response *dto.ResetResponse
	ms.WithLock(func(o *orchestrator.Orchestrator) {
		ack := o.Reset()
		response = &dto.ResetResponse{
			SessionId: sessionID,
			Status:    ack.Status,
			Message:   ack.Message,
			Timestamp: time.Now(),
		}
	})

	s.sysLogger.Info(constant.LogModuleDialogue, "Session reset", map[string]interface{}{
		"session_id": sessionID,
	})
	s.publisher.PublishReset(ctx, sessionID)

	return response, nil
}

// FlightStatus backs the direct lookup endpoint, no conversation involved.
func (s *chatService) FlightStatus(ctx context.Context, flightNumber, date string) *store.FlightRecord {
	return s.connector.Fetch(ctx, flightNumber, date)
}
