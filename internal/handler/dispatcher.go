package handler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pdf-quiz-bot/internal/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// Dispatcher fans updates out to a fixed set of workers. A chat always maps
// to the same worker, so its updates are handled in arrival order while
// different chats proceed concurrently.
type Dispatcher struct {
	handler UpdateHandler
	shards  []chan tgbotapi.Update
	timeout time.Duration
	logger  logger.ILogger

	wg      sync.WaitGroup
	once    sync.Once
	started bool
}

func NewDispatcher(h UpdateHandler, workers int, timeout time.Duration, log logger.ILogger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	shards := make([]chan tgbotapi.Update, workers)
	for i := range shards {
		shards[i] = make(chan tgbotapi.Update, 64)
	}
	return &Dispatcher{
		handler: h,
		shards:  shards,
		timeout: timeout,
		logger:  log,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.started = true
	for _, ch := range d.shards {
		d.wg.Add(1)
		go func(ch <-chan tgbotapi.Update) {
			defer d.wg.Done()
			for update := range ch {
				d.process(ctx, update)
			}
		}(ch)
	}
}

// Dispatch queues an update; it blocks only when the chat's worker is
// backed up.
func (d *Dispatcher) Dispatch(update tgbotapi.Update) {
	var chatID int64
	if chat := update.FromChat(); chat != nil {
		chatID = chat.ID
	}
	if chatID < 0 {
		chatID = -chatID
	}
	d.shards[chatID%int64(len(d.shards))] <- update
}

// Stop drains queued updates and waits for in-flight ones.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		for _, ch := range d.shards {
			close(ch)
		}
	})
	d.wg.Wait()
}

// Run feeds a long-polling channel into the workers until ctx is done or
// the channel closes.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	if !d.started {
		d.Start(ctx)
	}
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			d.Dispatch(update)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("BOT", "Panic while handling update", map[string]interface{}{
				"update_id": update.UpdateID,
				"error":     fmt.Sprint(r),
			})
		}
	}()

	uctx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		uctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	err := d.handler.HandleUpdate(uctx, update)
	if err == nil {
		return
	}

	details := map[string]interface{}{
		"update_id": update.UpdateID,
		"error":     err.Error(),
	}
	if chat := update.FromChat(); chat != nil {
		details["chat_id"] = chat.ID
	}
	if errors.Is(err, ErrUnknownCommand) {
		d.logger.Error("BOT", "Unknown command, update dropped", details)
		return
	}
	d.logger.Error("BOT", "Failed to handle update", details)
}
