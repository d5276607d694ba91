package config

import (
	"testing"
	"time"

	"pdf-quiz-bot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := Load()

		assert.Equal(t, 1024, cfg.Rag.ChunkSize)
		assert.Equal(t, 128, cfg.Rag.ChunkOverlap)
		assert.Equal(t, 3, cfg.Rag.TopK)
		assert.Equal(t, 5, cfg.Rag.MaxAttempts)
		assert.Equal(t, ModePolling, cfg.Telegram.Mode)
		assert.Equal(t, VectorStoreMemory, cfg.Storage.VectorStore)
		assert.NotEmpty(t, cfg.Telegram.WebhookSecret)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "GigaChat")
		t.Setenv("LLM_TIMEOUT", "45s")
		t.Setenv("CHUNK_SIZE", "512")
		t.Setenv("GIGACHAT_VERIFY_SSL", "true")

		cfg := Load()

		p, err := cfg.ProviderType()
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderGigaChat, p)
		assert.Equal(t, 45*time.Second, cfg.Ai.LLMTimeout)
		assert.Equal(t, 512, cfg.Rag.ChunkSize)
		assert.True(t, cfg.Ai.GigaChatVerifySSL)
	})

	t.Run("Malformed numbers fall back", func(t *testing.T) {
		t.Setenv("RETRIEVER_TOP_K", "three")
		t.Setenv("SESSION_TTL", "soon")

		cfg := Load()

		assert.Equal(t, 3, cfg.Rag.TopK)
		assert.Equal(t, 6*time.Hour, cfg.App.SessionTTL)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
		return Load()
	}

	t.Run("Defaults with a token are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Token is required", func(t *testing.T) {
		cfg := valid()
		cfg.Telegram.Token = ""

		assert.Error(t, cfg.Validate())
	})

	t.Run("Provider names are not substring matched", func(t *testing.T) {
		cfg := valid()
		cfg.Ai.LLMProvider = "my-openai-proxy"

		assert.ErrorIs(t, cfg.Validate(), llm.ErrUnsupportedProvider)
	})

	t.Run("Webhook mode needs a url", func(t *testing.T) {
		cfg := valid()
		cfg.Telegram.Mode = ModeWebhook

		assert.Error(t, cfg.Validate())
	})

	t.Run("Pgvector needs a DSN", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.VectorStore = VectorStorePgvector

		assert.Error(t, cfg.Validate())
	})

	t.Run("Overlap must be smaller than size", func(t *testing.T) {
		cfg := valid()
		cfg.Rag.ChunkOverlap = cfg.Rag.ChunkSize

		assert.Error(t, cfg.Validate())
	})
}
