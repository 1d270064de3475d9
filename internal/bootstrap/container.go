package bootstrap

import (
	"context"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"airport-assistant-be/internal/config"
	"airport-assistant-be/internal/constant"
	"airport-assistant-be/internal/controller"
	"airport-assistant-be/internal/pkg/logger"
	"airport-assistant-be/internal/repository/memory"
	"airport-assistant-be/internal/service"
	"airport-assistant-be/internal/websocket"
	"airport-assistant-be/pkg/dialog/extract"
	"airport-assistant-be/pkg/dialog/intent"
	"airport-assistant-be/pkg/dialog/orchestrator"
	"airport-assistant-be/pkg/dialog/response"
	"airport-assistant-be/pkg/events"
	"airport-assistant-be/pkg/flightdata"

	pkgNats "airport-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	FlightController controller.IFlightController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHandler *websocket.Handler
	WebSocketHub     *websocket.Hub

	// Shared infrastructure the server and health endpoint reach into
	SessionRepository *memory.SessionRepository
	Logger            logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS is optional; without it events stay on the in-process bus only.
	var natsPub *pkgNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}

		natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			// Tap the assistant stream so events from every instance land in
			// this instance's log.
			err = natsSub.Subscribe("assistant.>", "assistant-event-log", func(_ context.Context, event events.Event) error {
				sysLogger.Info(constant.LogModuleDialogue, "Bus event "+event.EventType(), event.Payload())
				return nil
			})
			if err != nil {
				log.Printf("[WARN] Failed to subscribe to assistant events: %v", err)
			}
		}
	}

	// 3. Dialogue engine components
	seed := cfg.Dialog.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ref := flightdata.LoadReferenceData(cfg.App.DataDir, stdLogger)

	catalogResult := intent.Load(filepath.Join(cfg.App.DataDir, "intents.json"), stdLogger)
	sysLogger.Info(constant.LogModuleDialogue, "Intent catalog loaded", map[string]interface{}{
		"source":  catalogResult.Source,
		"reason":  catalogResult.Reason,
		"intents": len(catalogResult.Catalog),
	})

	connector := flightdata.NewConnector(
		cfg.Flight.Mode,
		cfg.Flight.APIKey,
		cfg.Flight.APIBaseURL,
		time.Duration(cfg.Flight.FetchTimeoutSec)*time.Second,
		flightdata.NewCache(time.Duration(cfg.Flight.CacheTTLMinutes)*time.Minute),
		ref,
		rand.New(rand.NewSource(seed)),
		stdLogger,
		time.Now,
	)

	orchDeps := orchestrator.Deps{
		Extractor:   extract.NewExtractor(ref.AirportCodes(), ref.AirlineCodes(), time.Now),
		Matcher:     intent.NewMatcher(catalogResult.Catalog, stdLogger),
		Connector:   connector,
		Generator:   response.NewGenerator(rand.New(rand.NewSource(seed+1)), stdLogger),
		Logger:      stdLogger,
		ContextTTL:  time.Duration(cfg.Dialog.ContextTTLSeconds) * time.Second,
		HistorySize: cfg.Dialog.HistorySize,
		Now:         time.Now,
	}

	// 4. Services
	sessionRepo := memory.NewSessionRepository()
	publisherService := service.NewPublisherService(constant.TopicChatTurns, pubSub, natsPub)
	consumerService := service.NewConsumerService(pubSub, constant.TopicChatTurns, sysLogger)
	chatService := service.NewChatService(sessionRepo, orchDeps, connector, publisherService, sysLogger)

	// 5. WebSocket Hub
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()
	wsHandler := websocket.NewHandler(wsHub, chatService, publisherService)

	// 6. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService),
		FlightController: controller.NewFlightController(chatService),

		ConsumerService: consumerService,

		WebSocketHandler: wsHandler,
		WebSocketHub:     wsHub,

		SessionRepository: sessionRepo,
		Logger:            sysLogger,
	}
}
