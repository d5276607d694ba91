package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdf-quiz-bot/internal/constant"
	"pdf-quiz-bot/internal/pkg/logger"
	"pdf-quiz-bot/internal/repository/memory"
	"pdf-quiz-bot/internal/service"
	"pdf-quiz-bot/pkg/quiz"
	"pdf-quiz-bot/pkg/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects messages longer than this many characters.
const MaxMessageLength = 4096

var ErrUnknownCommand = errors.New("unknown command")

// Sender is the subset of *tgbotapi.BotAPI the handler talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type BotHandler struct {
	bot      Sender
	sessions *memory.SessionRepository
	quiz     service.IQuizService
	client   *http.Client
	logger   logger.ILogger
}

func NewBotHandler(bot Sender, sessions *memory.SessionRepository, quizService service.IQuizService, log logger.ILogger) *BotHandler {
	return &BotHandler{
		bot:      bot,
		sessions: sessions,
		quiz:     quizService,
		client:   &http.Client{Timeout: 2 * time.Minute},
		logger:   log,
	}
}

// HandleUpdate applies one update to its chat's session. The session stays
// locked for the whole update.
func (h *BotHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	chat := update.FromChat()
	if chat == nil {
		return nil
	}

	session := h.sessions.GetOrCreate(chat.ID)
	session.Lock()
	defer session.Unlock()
	session.Touch()

	if cq := update.CallbackQuery; cq != nil {
		if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			h.logger.Warn("BOT", "Failed to answer callback", map[string]interface{}{
				"chat_id": chat.ID,
				"error":   err.Error(),
			})
		}
		return h.handleCallback(ctx, session, cq.Data)
	}

	msg := update.Message
	if msg == nil {
		return nil
	}

	switch {
	case msg.IsCommand():
		return h.handleCommand(ctx, session, msg.Command())
	case msg.Document != nil:
		return h.handleDocument(ctx, session, msg.Document)
	case msg.Text != "":
		return h.handleText(ctx, session, msg.Text)
	}
	return nil
}

func (h *BotHandler) handleCommand(ctx context.Context, s *store.Session, command string) error {
	switch command {
	case "start", "help":
		return h.reply(s.ChatID, constant.MessageStart, false)
	case "cancel":
		return h.cancel(ctx, s)
	case "sources":
		return h.explainSources(s)
	}
	return nil
}

func (h *BotHandler) handleCallback(ctx context.Context, s *store.Session, data string) error {
	switch data {
	case constant.CallbackMCQ:
		return h.askTopic(s, store.StateAwaitMCQ, constant.MessageEnterMCQTopic)
	case constant.CallbackFFQ:
		return h.askTopic(s, store.StateAwaitFFQ, constant.MessageEnterFFQTopic)
	case constant.CallbackExplain:
		leaveTopicPrompt(s)
		return h.explainReasoning(s)
	case constant.CallbackSave:
		leaveTopicPrompt(s)
		return h.saveQuestion(ctx, s)
	case constant.CallbackCompile:
		leaveTopicPrompt(s)
		return h.compileQuestions(ctx, s)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, data)
}

// leaveTopicPrompt drops a pending topic request so the next text message is
// not taken as a topic.
func leaveTopicPrompt(s *store.Session) {
	if s.State == store.StateAwaitMCQ || s.State == store.StateAwaitFFQ {
		s.State = store.StateSelectingCommand
	}
}

func (h *BotHandler) handleText(ctx context.Context, s *store.Session, text string) error {
	switch s.State {
	case store.StateAwaitMCQ:
		return h.generate(ctx, s, quiz.KindMCQ, text)
	case store.StateAwaitFFQ:
		return h.generate(ctx, s, quiz.KindFFQ, text)
	case store.StateSelectingCommand:
		return h.reply(s.ChatID, constant.MessageChooseAction, true)
	}
	return h.reply(s.ChatID, constant.MessageSendDocument, false)
}

func (h *BotHandler) askTopic(s *store.Session, next, prompt string) error {
	if !s.Ready() {
		return h.reply(s.ChatID, constant.WarnProcessPDFFirst, s.State != store.StateNone)
	}
	s.State = next
	return h.reply(s.ChatID, prompt, false)
}

func (h *BotHandler) generate(ctx context.Context, s *store.Session, kind quiz.Kind, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return h.reply(s.ChatID, constant.MessageEmptyTopic, false)
	}
	if !s.Ready() {
		s.State = store.StateNone
		return h.reply(s.ChatID, constant.WarnProcessPDFFirst, false)
	}

	s.State = store.StateSelectingCommand
	h.typing(s.ChatID)

	result, err := h.quiz.Generate(ctx, s.ChatID, s.Generator(kind), topic)
	if err != nil {
		return h.reply(s.ChatID, constant.MessageGenerationFailed, true)
	}

	s.Last = result
	return h.reply(s.ChatID, result.Question(), true)
}

func (h *BotHandler) explainReasoning(s *store.Session) error {
	if s.Last == nil {
		return h.reply(s.ChatID, constant.WarnGenerateFirst, true)
	}
	return h.reply(s.ChatID, s.Last.Reasoning, true)
}

func (h *BotHandler) explainSources(s *store.Session) error {
	if s.Last == nil {
		return h.reply(s.ChatID, constant.WarnGenerateFirst, true)
	}
	return h.reply(s.ChatID, s.Last.SourcesText(), true)
}

func (h *BotHandler) saveQuestion(ctx context.Context, s *store.Session) error {
	if s.Last == nil {
		return h.reply(s.ChatID, constant.WarnGenerateFirst, true)
	}
	total := s.SaveLast()
	h.quiz.Saved(ctx, s.ChatID, total)
	return h.reply(s.ChatID, constant.MessageQuestionSaved, true)
}

func (h *BotHandler) compileQuestions(ctx context.Context, s *store.Session) error {
	if len(s.Saved) == 0 {
		return h.reply(s.ChatID, constant.WarnSaveBeforeCompile, true)
	}

	path, err := h.quiz.Compile(ctx, s.ChatID, s.Saved)
	if err != nil {
		return fmt.Errorf("compile questions: %w", err)
	}

	doc := tgbotapi.NewDocument(s.ChatID, tgbotapi.FilePath(path))
	doc.ReplyMarkup = mainKeyboard()
	if _, err := h.bot.Send(doc); err != nil {
		return fmt.Errorf("send compilation: %w", err)
	}
	return nil
}

func (h *BotHandler) cancel(ctx context.Context, s *store.Session) error {
	s.Reset()
	// Deleting the session fires the eviction hook, which drops the vectors.
	h.sessions.Delete(s.ChatID)
	h.logger.Info("BOT", "Session cancelled", map[string]interface{}{"chat_id": s.ChatID})
	return h.reply(s.ChatID, constant.MessageCancelled, false)
}

func isPDF(doc *tgbotapi.Document) bool {
	return doc.MimeType == "application/pdf" || strings.EqualFold(filepath.Ext(doc.FileName), ".pdf")
}

func (h *BotHandler) handleDocument(ctx context.Context, s *store.Session, doc *tgbotapi.Document) error {
	if !isPDF(doc) {
		return h.reply(s.ChatID, constant.MessageNotPDF, false)
	}

	path := h.quiz.DocumentPath(s.ChatID)
	if err := h.download(ctx, doc.FileID, path); err != nil {
		_ = h.reply(s.ChatID, constant.MessageDocumentFailed, false)
		return fmt.Errorf("download document: %w", err)
	}
	if err := h.reply(s.ChatID, constant.MessageFileDownloaded, false); err != nil {
		return err
	}
	h.typing(s.ChatID)

	pipelines, err := h.quiz.Ingest(ctx, s.ChatID, path)
	if err != nil {
		h.logger.Error("INGEST", "Document ingestion failed", map[string]interface{}{
			"chat_id": s.ChatID,
			"file":    doc.FileName,
			"error":   err.Error(),
		})
		s.MCQ, s.FFQ = nil, nil
		s.State = store.StateNone
		return h.reply(s.ChatID, constant.MessageDocumentFailed, false)
	}

	s.MCQ = pipelines.MCQ
	s.FFQ = pipelines.FFQ
	s.Chunks = pipelines.Chunks
	s.DocumentPath = path
	s.State = store.StateSelectingCommand

	return h.reply(s.ChatID, constant.MessageDocumentReady, true)
}

func (h *BotHandler) download(ctx context.Context, fileID, path string) error {
	url, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (h *BotHandler) typing(chatID int64) {
	_, _ = h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

// reply sends text, split to fit Telegram's limit. The menu goes on the
// last part only.
func (h *BotHandler) reply(chatID int64, text string, withMenu bool) error {
	parts := SplitMessage(text, MaxMessageLength)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		if withMenu && i == len(parts)-1 {
			msg.ReplyMarkup = mainKeyboard()
		}
		if _, err := h.bot.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// SplitMessage cuts text into parts of at most limit runes, preferring to
// break after a newline. Empty text yields a single placeholder part.
func SplitMessage(text string, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return []string{"(empty)"}
	}

	runes := []rune(text)
	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
