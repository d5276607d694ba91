package factory

import (
	"testing"

	"pdf-quiz-bot/pkg/llm"
	"pdf-quiz-bot/pkg/llm/gigachat"
	"pdf-quiz-bot/pkg/llm/ollama"
	"pdf-quiz-bot/pkg/llm/openai"
	"pdf-quiz-bot/pkg/llm/yandex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	t.Run("Builds every supported backend", func(t *testing.T) {
		cases := []struct {
			cfg  Config
			want interface{}
		}{
			{Config{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini"}, &openai.Provider{}},
			{Config{Provider: llm.ProviderVLLM, Model: "meta-llama/Llama-3-8B"}, &openai.Provider{}},
			{Config{Provider: llm.ProviderHuggingFace, Model: "x"}, &openai.Provider{}},
			{Config{Provider: llm.ProviderOllama, Model: "llama3"}, &ollama.OllamaProvider{}},
			{Config{Provider: llm.ProviderYandex, Model: "yandexgpt", FolderID: "b1g"}, &yandex.Provider{}},
			{Config{Provider: llm.ProviderGigaChat, Model: "GigaChat", Credentials: "abc"}, &gigachat.Provider{}},
		}
		for _, c := range cases {
			p, err := NewLLMProvider(c.cfg)
			require.NoError(t, err, c.cfg.Provider)
			assert.IsType(t, c.want, p, c.cfg.Provider)
		}
	})

	t.Run("Unknown provider is rejected", func(t *testing.T) {
		_, err := NewLLMProvider(Config{Provider: "mistral-ish"})

		assert.ErrorIs(t, err, llm.ErrUnsupportedProvider)
	})

	t.Run("Yandex needs a folder", func(t *testing.T) {
		_, err := NewLLMProvider(Config{Provider: llm.ProviderYandex, Model: "yandexgpt"})

		assert.Error(t, err)
	})

	t.Run("GigaChat needs credentials", func(t *testing.T) {
		_, err := NewLLMProvider(Config{Provider: llm.ProviderGigaChat})

		assert.Error(t, err)
	})

	t.Run("Overrides apply on top of backend defaults", func(t *testing.T) {
		opts := withOverrides(VLLMDefaults, Config{Temperature: 0.2})

		assert.Equal(t, 0.2, opts.Temperature)
		assert.Equal(t, 2048, opts.MaxTokens)
		assert.Equal(t, 10, opts.TopK)
		assert.Equal(t, []string{"<|eot_id|>"}, opts.Stop)
	})
}
