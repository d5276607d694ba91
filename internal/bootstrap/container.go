package bootstrap

import (
	"context"
	"fmt"
	"io"

	"pdf-quiz-bot/internal/config"
	"pdf-quiz-bot/internal/controller"
	"pdf-quiz-bot/internal/handler"
	"pdf-quiz-bot/internal/pkg/logger"
	"pdf-quiz-bot/internal/repository/implementation"
	"pdf-quiz-bot/internal/repository/memory"
	"pdf-quiz-bot/internal/service"
	"pdf-quiz-bot/pkg/database"
	"pdf-quiz-bot/pkg/ocr"
	"pdf-quiz-bot/pkg/rag"
	"pdf-quiz-bot/pkg/utils"

	pktNats "pdf-quiz-bot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const EventsTopic = "quiz.events"

type Container struct {
	Logger logger.ILogger

	Bot        *tgbotapi.BotAPI
	Sessions   *memory.SessionRepository
	Dispatcher *handler.Dispatcher

	// Controllers
	HealthController   controller.IHealthController
	TelegramController controller.ITelegramController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []io.Closer
	cleanup []func()
}

func NewContainer(cfg *config.Config) (_ *Container, err error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.EventLogPath)

	c := &Container{Logger: sysLogger}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()
	c.cleanup = append(c.cleanup, func() { _ = auditLogger.Sync() })

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermillLogger,
	)
	c.closers = append(c.closers, pubSub)

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if natsPub != nil {
			forwarder = natsPub
			c.cleanup = append(c.cleanup, natsPub.Close)
		}
		if err != nil {
			sysLogger.Warn("BOOT", "NATS publisher degraded", map[string]interface{}{"error": err.Error()})
		}
	}

	publisherService := service.NewPublisherService(EventsTopic, pubSub, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, EventsTopic, auditLogger, forwarder, sysLogger)

	// 3. AI providers
	embedder, closers, err := NewEmbeddingProvider(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closers...)

	llmProvider, err := NewLLMProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	sysLogger.Info("BOOT", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 4. Vector store
	var vectors rag.VectorStore
	switch cfg.Storage.VectorStore {
	case config.VectorStorePgvector:
		db, err := database.NewGormDBFromDSN(cfg.Storage.DatabaseURL, cfg.Storage.VerboseSQLLogger)
		if err != nil {
			return nil, err
		}
		repo := implementation.NewChunkEmbeddingRepository(db)
		if err := repo.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("migrate chunk embeddings: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, sqlDB)
		}
		vectors = repo
	default:
		vectors = rag.NewMemoryStore()
	}

	// 5. Services
	quizService := service.NewQuizService(
		ocr.NewTabulaExtractor(),
		utils.NewTextSplitter(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap),
		embedder,
		vectors,
		llmProvider,
		publisherService,
		service.QuizOptions{
			UserFilesDir: cfg.App.UserFilesDir,
			TopK:         cfg.Rag.TopK,
			MaxAttempts:  cfg.Rag.MaxAttempts,
			LLMTimeout:   cfg.Ai.LLMTimeout,
		},
		sysLogger,
	)

	c.Sessions = memory.NewSessionRepository(cfg.App.SessionTTL, func(chatID int64) {
		if err := quizService.Reset(context.Background(), chatID); err != nil {
			sysLogger.Warn("BOT", "Failed to release session vectors", map[string]interface{}{
				"chat_id": chatID,
				"error":   err.Error(),
			})
		}
	})

	// 6. Telegram
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	bot.Debug = cfg.Telegram.Debug
	c.Bot = bot
	sysLogger.Info("BOOT", "Authorized on Telegram", map[string]interface{}{"username": bot.Self.UserName})

	botHandler := handler.NewBotHandler(bot, c.Sessions, quizService, sysLogger)
	c.Dispatcher = handler.NewDispatcher(botHandler, cfg.App.UpdateWorkers, cfg.App.RequestTimeout, sysLogger)

	// 7. Controllers
	c.HealthController = controller.NewHealthController(c.Sessions)
	if cfg.Telegram.Mode == config.ModeWebhook {
		c.TelegramController = controller.NewTelegramController(c.Dispatcher, cfg.Telegram.WebhookSecret)
	}

	return c, nil
}

// Close releases infrastructure in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.cleanup) - 1; i >= 0; i-- {
		c.cleanup[i]()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			c.Logger.Warn("BOOT", "Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = c.Logger.Sync()
}
