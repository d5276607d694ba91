package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"pdf-quiz-bot/internal/bootstrap"
	"pdf-quiz-bot/internal/config"
	"pdf-quiz-bot/internal/server"
	"pdf-quiz-bot/internal/tracer"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	// 3. Tracing
	shutdownTracer := tracer.InitTracer(cfg.Telemetry, container.Logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("BOOT", "Event consumer failed to start", map[string]interface{}{"error": err.Error()})
	}

	// 5. Telegram updates
	bot := container.Bot
	polling := make(chan struct{})
	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL + "/telegram/webhook/" + cfg.Telegram.WebhookSecret)
		if err != nil {
			log.Fatalf("Invalid webhook URL: %v", err)
		}
		if _, err := bot.Request(wh); err != nil {
			log.Fatalf("Unable to register webhook: %v", err)
		}
		container.Dispatcher.Start(ctx)
		close(polling)
	default:
		// A webhook left over from an earlier deployment blocks getUpdates.
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			container.Logger.Warn("BOOT", "Failed to delete webhook", map[string]interface{}{"error": err.Error()})
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := bot.GetUpdatesChan(u)
		go func() {
			defer close(polling)
			container.Dispatcher.Run(ctx, updates)
		}()
	}

	container.Logger.Info("BOOT", "Bot started", map[string]interface{}{
		"mode":     cfg.Telegram.Mode,
		"username": bot.Self.UserName,
	})

	// 6. HTTP server (health, webhook)
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			container.Logger.Error("SERVER", "HTTP server stopped", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	container.Logger.Info("BOOT", "Shutting down", nil)

	if cfg.Telegram.Mode != config.ModeWebhook {
		bot.StopReceivingUpdates()
	}
	<-polling

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Warn("SERVER", "Shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	container.Dispatcher.Stop()
}
