package service

import (
	"context"
	"encoding/json"
	"log"

	"airport-assistant-be/internal/constant"
	"airport-assistant-be/internal/dto"
	"airport-assistant-be/pkg/dialog/orchestrator"
	"airport-assistant-be/pkg/events"
	pkgNats "airport-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishTurn(ctx context.Context, sessionID, userMessage string, result orchestrator.TurnResult)
	PublishReset(ctx context.Context, sessionID string)
}

// publisherService fans a completed turn out to the in-process bus (for the
// transcript consumer) and, when configured, to NATS for external consumers.
// Publishing is best effort: a bus failure is logged and the turn still
// reaches the user.
type publisherService struct {
	topic   string
	pubSub  *gochannel.GoChannel
	natsPub *pkgNats.Publisher // nil when NATS is not configured
}

func NewPublisherService(topic string, pubSub *gochannel.GoChannel, natsPub *pkgNats.Publisher) IPublisherService {
	return &publisherService{
		topic:   topic,
		pubSub:  pubSub,
		natsPub: natsPub,
	}
}

func (ps *publisherService) PublishTurn(ctx context.Context, sessionID, userMessage string, result orchestrator.TurnResult) {
	payload := dto.TurnCompletedMessage{
		SessionId:   sessionID,
		UserMessage: userMessage,
		Response:    result.Response,
		Intent:      result.Intent,
		State:       result.State,
		Timestamp:   result.Timestamp,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ERROR] Failed to marshal turn payload: %v", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := ps.pubSub.Publish(ps.topic, msg); err != nil {
		log.Printf("[WARN] Failed to publish turn to local bus: %v", err)
	}

	if ps.natsPub != nil {
		event := events.NewChatTurnEvent(constant.EventChatTurnCompleted, sessionID, userMessage, result.Response, result.Intent)
		if err := ps.natsPub.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish turn to NATS: %v", err)
		}
	}
}

func (ps *publisherService) PublishReset(ctx context.Context, sessionID string) {
	if ps.natsPub == nil {
		return
	}
	event := events.NewChatTurnEvent(constant.EventSessionReset, sessionID, "", "", "")
	if err := ps.natsPub.Publish(ctx, event); err != nil {
		log.Printf("[WARN] Failed to publish reset to NATS: %v", err)
	}
}
