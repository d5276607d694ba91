package factory

import (
	"fmt"
	"time"

	"pdf-quiz-bot/pkg/llm"
	"pdf-quiz-bot/pkg/llm/gigachat"
	"pdf-quiz-bot/pkg/llm/ollama"
	"pdf-quiz-bot/pkg/llm/openai"
	"pdf-quiz-bot/pkg/llm/yandex"
)

// Config is the flat provider configuration read from the environment or
// from the evaluate command flags.
type Config struct {
	Provider    llm.ProviderType
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int

	// Yandex
	FolderID string

	// GigaChat
	Credentials        string
	Scope              string
	InsecureSkipVerify bool
}

// Sampling defaults used for self-hosted vLLM models.
var VLLMDefaults = llm.Options{
	Temperature: 0.8,
	MaxTokens:   2048,
	TopP:        0.95,
	TopK:        10,
	Stop:        []string{"<|eot_id|>"},
}

func withOverrides(base llm.Options, cfg Config) llm.Options {
	if cfg.Temperature > 0 {
		base.Temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		base.MaxTokens = cfg.MaxTokens
	}
	return base
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case llm.ProviderOpenAI:
		return openai.NewProvider(openai.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  or(cfg.BaseURL, openai.DefaultOpenAIBaseURL),
			Model:    cfg.Model,
			Timeout:  cfg.Timeout,
			Defaults: withOverrides(llm.Options{Temperature: 0.7, MaxTokens: 2048}, cfg),
		}), nil
	case llm.ProviderVLLM:
		return openai.NewProvider(openai.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  or(cfg.BaseURL, openai.DefaultVLLMBaseURL),
			Model:    cfg.Model,
			Timeout:  cfg.Timeout,
			Defaults: withOverrides(VLLMDefaults, cfg),
		}), nil
	case llm.ProviderHuggingFace:
		return openai.NewProvider(openai.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  or(cfg.BaseURL, openai.DefaultHuggingFaceBaseURL),
			Model:    cfg.Model,
			Timeout:  cfg.Timeout,
			Defaults: withOverrides(llm.Options{Temperature: 0.7, MaxTokens: 2048}, cfg),
		}), nil
	case llm.ProviderOllama:
		p := ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.Timeout)
		p.Defaults = withOverrides(p.Defaults, cfg)
		return p, nil
	case llm.ProviderYandex:
		if cfg.FolderID == "" {
			return nil, fmt.Errorf("yandex provider requires a folder id")
		}
		return yandex.NewProvider(yandex.Config{
			APIKey:   cfg.APIKey,
			FolderID: cfg.FolderID,
			Model:    cfg.Model,
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
			Defaults: withOverrides(llm.Options{Temperature: 0.6, MaxTokens: 2048}, cfg),
		}), nil
	case llm.ProviderGigaChat:
		if cfg.Credentials == "" {
			return nil, fmt.Errorf("gigachat provider requires credentials")
		}
		return gigachat.NewProvider(gigachat.Config{
			Credentials:        cfg.Credentials,
			Scope:              cfg.Scope,
			Model:              cfg.Model,
			BaseURL:            cfg.BaseURL,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			Timeout:            cfg.Timeout,
			Defaults:           withOverrides(llm.Options{MaxTokens: gigachat.DefaultMaxToken}, cfg),
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", llm.ErrUnsupportedProvider, cfg.Provider)
	}
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
