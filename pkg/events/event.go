package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Quiz lifecycle event types.
const (
	DocumentIngested  = "DOCUMENT_INGESTED"
	QuestionGenerated = "QUESTION_GENERATED"
	GenerationFailed  = "GENERATION_FAILED"
	QuestionSaved     = "QUESTION_SAVED"
	QuestionsCompiled = "QUESTIONS_COMPILED"
	SessionReset      = "SESSION_RESET"
)

// Event defines the contract for all system events.
type Event interface {
	// EventID is unique per emitted event.
	EventID() string

	// EventType returns the unique code for this event (e.g., "QUESTION_SAVED").
	EventType() string

	// ChatID is the Telegram chat the event belongs to.
	ChatID() int64

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Chat       int64                  `json:"chat_id"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, chatID int64, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Chat:       chatID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) ChatID() int64 {
	return e.Chat
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Marshal encodes any Event into the wire envelope.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{
		ID:         e.EventID(),
		Type:       e.EventType(),
		Chat:       e.ChatID(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
