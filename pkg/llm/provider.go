package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	TopP        float64
	TopK        int
	Stop        []string
	Model       string // Override default model
}

// Apply folds opts over a copy of base.
func Apply(base Options, opts ...Option) *Options {
	o := base
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithTopP(p float64) Option {
	return func(o *Options) {
		o.TopP = p
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = k
	}
}

func WithStop(stop ...string) Option {
	return func(o *Options) {
		o.Stop = stop
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ProviderType enumerates the supported backends. It is resolved once from
// configuration at startup.
type ProviderType string

const (
	ProviderOpenAI      ProviderType = "openai"
	ProviderVLLM        ProviderType = "vllm"
	ProviderHuggingFace ProviderType = "huggingface"
	ProviderOllama      ProviderType = "ollama"
	ProviderYandex      ProviderType = "yandex"
	ProviderGigaChat    ProviderType = "gigachat"
)

var ErrUnsupportedProvider = errors.New("unsupported LLM provider")

var providerTypes = []ProviderType{
	ProviderOpenAI,
	ProviderVLLM,
	ProviderHuggingFace,
	ProviderOllama,
	ProviderYandex,
	ProviderGigaChat,
}

// ParseProviderType accepts the exact provider names, case-insensitively.
func ParseProviderType(s string) (ProviderType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range providerTypes {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
}
