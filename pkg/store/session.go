package store

import (
	"sync"
	"time"

	"pdf-quiz-bot/pkg/quiz"
)

// Conversation states.
const (
	StateNone             = ""
	StateSelectingCommand = "SELECTING_COMMAND"
	StateAwaitMCQ         = "AWAIT_MCQ"
	StateAwaitFFQ         = "AWAIT_FFQ"
)

// Session is the per-chat conversation state. Handlers lock it for the whole
// update so one chat's updates are applied in order.
type Session struct {
	sync.Mutex

	ChatID int64
	State  string

	DocumentPath string
	Chunks       int

	// Generators are nil until a document has been ingested.
	MCQ *quiz.Generator
	FFQ *quiz.Generator

	// Last is overwritten by every generation; Saved only grows.
	Last  *quiz.Result
	Saved []*quiz.Result

	UpdatedAt time.Time
}

func NewSession(chatID int64) *Session {
	return &Session{ChatID: chatID, UpdatedAt: time.Now()}
}

// Ready reports whether the question pipelines have been built.
func (s *Session) Ready() bool {
	return s.MCQ != nil && s.FFQ != nil
}

func (s *Session) Generator(kind quiz.Kind) *quiz.Generator {
	if kind == quiz.KindFFQ {
		return s.FFQ
	}
	return s.MCQ
}

// SaveLast appends the last result to the saved set and returns its size.
func (s *Session) SaveLast() int {
	s.Saved = append(s.Saved, s.Last)
	return len(s.Saved)
}

// Reset drops the document, pipelines and every result.
func (s *Session) Reset() {
	s.State = StateNone
	s.DocumentPath = ""
	s.Chunks = 0
	s.MCQ = nil
	s.FFQ = nil
	s.Last = nil
	s.Saved = nil
}

func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}
