package rag

import (
	"context"
	"fmt"
	"time"

	"pdf-quiz-bot/pkg/llm"
	"pdf-quiz-bot/pkg/rag/prompt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ContextRetriever supplies the reference segments for a topic.
type ContextRetriever interface {
	Retrieve(ctx context.Context, topic string) ([]string, error)
}

// Chain is the retrieve -> prompt -> LLM pipeline for one question kind.
type Chain struct {
	retriever   ContextRetriever
	llm         llm.LLMProvider
	instruction string
	timeout     time.Duration
}

type ChainOption func(*Chain)

// WithTimeout bounds every LLM call made by the chain.
func WithTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		c.timeout = d
	}
}

func NewChain(retriever ContextRetriever, provider llm.LLMProvider, instruction string, opts ...ChainOption) *Chain {
	c := &Chain{
		retriever:   retriever,
		llm:         provider,
		instruction: instruction,
		timeout:     2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke retrieves context for topic, asks the model and returns its raw
// answer together with the context used.
func (c *Chain) Invoke(ctx context.Context, topic string) (*Answer, error) {
	ctx, span := otel.Tracer("rag").Start(ctx, "Chain.Invoke")
	defer span.End()
	span.SetAttributes(attribute.String("rag.topic", topic))

	segments, err := c.retriever.Retrieve(ctx, topic)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	span.SetAttributes(attribute.Int("rag.segments", len(segments)))

	p := prompt.NewContextualBuilder(c.instruction, segments, topic).Build()

	llmCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		llmCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.llm.Generate(llmCtx, p)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("llm generate: %w", err)
	}

	return &Answer{Text: text, Context: segments}, nil
}
