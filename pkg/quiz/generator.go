package quiz

import (
	"context"
	"errors"
	"fmt"

	"pdf-quiz-bot/internal/pkg/logger"
)

const (
	DefaultMaxAttempts = 5
	reasoningExcerpt   = 400
)

var ErrGenerationFailed = errors.New("generation failed")

// GenerationError is returned when no attempt produced a valid question.
// Last is the final invalid result, or nil when every attempt errored.
type GenerationError struct {
	Topic    string
	Attempts int
	Last     *Result
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s for topic %q after %d attempts: %v", ErrGenerationFailed, e.Topic, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s for topic %q after %d attempts", ErrGenerationFailed, e.Topic, e.Attempts)
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Chain produces a raw model answer for a topic.
type Chain interface {
	Invoke(ctx context.Context, topic string) (*Answer, error)
}

type Generator struct {
	kind        Kind
	chain       Chain
	parse       Parser
	maxAttempts int
	logger      logger.ILogger
}

func NewGenerator(kind Kind, chain Chain, maxAttempts int, log logger.ILogger) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Generator{
		kind:        kind,
		chain:       chain,
		parse:       ParserFor(kind),
		maxAttempts: maxAttempts,
		logger:      log,
	}
}

func (g *Generator) Kind() Kind {
	return g.kind
}

// Attempt runs the chain once and parses the answer. Invalid model output is
// not an error; it comes back as a Result with Valid=false.
func (g *Generator) Attempt(ctx context.Context, topic string) (*Result, error) {
	answer, err := g.chain.Invoke(ctx, topic)
	if err != nil {
		return nil, err
	}
	result := g.parse(*answer)
	result.Topic = topic
	return result, nil
}

// Generate retries Attempt until a valid question comes back or the attempt
// budget is spent.
func (g *Generator) Generate(ctx context.Context, topic string) (*Result, error) {
	var (
		last    *Result
		lastErr error
	)

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := g.Attempt(ctx, topic)
		if err != nil {
			lastErr = err
			g.logger.Warn("QUIZ", "Generation attempt errored", map[string]interface{}{
				"kind":    g.kind,
				"topic":   topic,
				"attempt": attempt,
				"error":   err.Error(),
			})
			continue
		}
		if result.Valid {
			if attempt > 1 {
				g.logger.Info("QUIZ", "Valid question after retries", map[string]interface{}{
					"kind":     g.kind,
					"topic":    topic,
					"attempts": attempt,
				})
			}
			return result, nil
		}

		last = result
		lastErr = nil
		g.logger.Warn("QUIZ", "Invalid question, retrying", map[string]interface{}{
			"kind":      g.kind,
			"topic":     topic,
			"attempt":   attempt,
			"reason":    result.Question(),
			"reasoning": excerpt(result.Reasoning, reasoningExcerpt),
		})
	}

	return nil, &GenerationError{
		Topic:    topic,
		Attempts: g.maxAttempts,
		Last:     last,
		Err:      lastErr,
	}
}

// excerpt keeps the last n runes of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "..." + string(r[len(r)-n:])
}
