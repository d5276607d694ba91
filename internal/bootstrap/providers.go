package bootstrap

import (
	"context"
	"fmt"
	"io"

	"pdf-quiz-bot/internal/config"
	"pdf-quiz-bot/internal/pkg/logger"
	"pdf-quiz-bot/pkg/embedding"
	"pdf-quiz-bot/pkg/llm"
	"pdf-quiz-bot/pkg/llm/factory"

	"github.com/redis/go-redis/v9"
)

// NewLLMProvider resolves the configured backend once at startup.
func NewLLMProvider(cfg *config.Config) (llm.LLMProvider, error) {
	providerType, err := cfg.ProviderType()
	if err != nil {
		return nil, err
	}
	return factory.NewLLMProvider(factory.Config{
		Provider:           providerType,
		Model:              cfg.Ai.LLMModel,
		BaseURL:            cfg.Ai.LLMBaseURL,
		APIKey:             cfg.Ai.LLMAPIKey,
		Timeout:            cfg.Ai.LLMTimeout,
		Temperature:        cfg.Ai.Temperature,
		MaxTokens:          cfg.Ai.MaxTokens,
		FolderID:           cfg.Ai.YandexFolderID,
		Credentials:        cfg.Ai.GigaChatCredentials,
		Scope:              cfg.Ai.GigaChatScope,
		InsecureSkipVerify: !cfg.Ai.GigaChatVerifySSL,
	})
}

// NewEmbeddingProvider builds the embedder and, when Redis is configured, a
// cache in front of it. The returned closers must run on shutdown.
func NewEmbeddingProvider(cfg *config.Config, log logger.ILogger) (embedding.EmbeddingProvider, []io.Closer, error) {
	var (
		provider embedding.EmbeddingProvider
		closers  []io.Closer
	)

	switch cfg.Ai.EmbeddingProvider {
	case "hugot":
		hp, err := embedding.NewHugotProvider(cfg.Ai.EmbeddingModel, cfg.Ai.HugotModelDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init hugot embeddings: %w", err)
		}
		provider = hp
		closers = append(closers, hp)
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel)
	case "openai":
		provider = embedding.NewOpenAIProvider(cfg.Ai.EmbeddingAPIKey, cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel)
	default:
		return nil, nil, fmt.Errorf("unknown EMBEDDING_PROVIDER %q", cfg.Ai.EmbeddingProvider)
	}

	log.Info("BOOT", "Embedding provider ready", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
		"model":    cfg.Ai.EmbeddingModel,
	})

	if cfg.Storage.RedisURL == "" {
		return provider, closers, nil
	}

	opt, err := redis.ParseURL(cfg.Storage.RedisURL)
	if err != nil {
		log.Warn("BOOT", "Failed to parse Redis URL, using it as address", map[string]interface{}{
			"error": err.Error(),
		})
		opt = &redis.Options{Addr: cfg.Storage.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("BOOT", "Redis unreachable, embedding cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
		_ = rdb.Close()
		return provider, closers, nil
	}

	closers = append(closers, rdb)
	return embedding.NewCachedProvider(provider, rdb, cfg.Ai.EmbeddingModel, cfg.Storage.EmbeddingTTL), closers, nil
}
