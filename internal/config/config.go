package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"pdf-quiz-bot/pkg/llm"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Telegram  TelegramConfig
	Ai        AIConfig
	Rag       RAGConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port           string
	Environment    string
	LogFilePath    string
	EventLogPath   string
	UserFilesDir   string
	NatsURL        string
	SessionTTL     time.Duration
	UpdateWorkers  int
	RequestTimeout time.Duration
}

type TelegramConfig struct {
	Token         string
	Mode          string // "polling" or "webhook"
	WebhookURL    string
	WebhookSecret string
	Debug         bool
}

type AIConfig struct {
	LLMProvider string // see llm.ProviderType
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string
	LLMTimeout  time.Duration
	Temperature float64
	MaxTokens   int

	YandexFolderID string

	GigaChatCredentials string
	GigaChatScope       string
	GigaChatVerifySSL   bool

	EmbeddingProvider string // "hugot", "ollama" or "openai"
	EmbeddingModel    string
	EmbeddingBaseURL  string
	EmbeddingAPIKey   string
	HugotModelDir     string
}

type RAGConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	MaxAttempts  int
}

type StorageConfig struct {
	VectorStore      string // "memory" or "pgvector"
	DatabaseURL      string
	RedisURL         string
	EmbeddingTTL     time.Duration
	VerboseSQLLogger bool
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"

	VectorStoreMemory   = "memory"
	VectorStorePgvector = "pgvector"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:           getEnv("APP_PORT", "3000"),
			Environment:    getEnv("GO_ENV", "development"),
			LogFilePath:    getEnv("LOG_FILE_PATH", "logs/bot.log"),
			EventLogPath:   getEnv("EVENT_LOG_PATH", "logs/events.log"),
			UserFilesDir:   getEnv("USER_FILES_DIR", "user_files"),
			NatsURL:        getEnv("NATS_URL", ""),
			SessionTTL:     getEnvAsDuration("SESSION_TTL", 6*time.Hour),
			UpdateWorkers:  getEnvAsInt("UPDATE_WORKERS", 8),
			RequestTimeout: getEnvAsDuration("UPDATE_TIMEOUT", 15*time.Minute),
		},
		Telegram: TelegramConfig{
			Token:         getEnv("TELEGRAM_BOT_TOKEN", ""),
			Mode:          strings.ToLower(getEnv("BOT_MODE", ModePolling)),
			WebhookURL:    getEnv("WEBHOOK_URL", ""),
			// Random per process unless pinned; the webhook is re-registered on start.
			WebhookSecret: getEnv("WEBHOOK_SECRET", uuid.NewString()),
			Debug:         getEnvAsBool("TELEGRAM_DEBUG", false),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", string(llm.ProviderVLLM)),
			LLMModel:    getEnv("LLM_MODEL", "meta-llama/Meta-Llama-3-8B-Instruct"),
			LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:   getEnv("LLM_API_KEY", ""),
			LLMTimeout:  getEnvAsDuration("LLM_TIMEOUT", 2*time.Minute),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 0),

			YandexFolderID: getEnv("YANDEX_FOLDER_ID", ""),

			GigaChatCredentials: getEnv("GIGACHAT_CREDENTIALS", ""),
			GigaChatScope:       getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			GigaChatVerifySSL:   getEnvAsBool("GIGACHAT_VERIFY_SSL", false),

			EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "hugot")),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "intfloat/multilingual-e5-large"),
			EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
			EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", ""),
			HugotModelDir:     getEnv("HUGOT_MODEL_DIR", "models"),
		},
		Rag: RAGConfig{
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1024),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 128),
			TopK:         getEnvAsInt("RETRIEVER_TOP_K", 3),
			MaxAttempts:  getEnvAsInt("MAX_GENERATION_ATTEMPTS", 5),
		},
		Storage: StorageConfig{
			VectorStore:      strings.ToLower(getEnv("VECTOR_STORE", VectorStoreMemory)),
			DatabaseURL:      getEnv("DB_CONNECTION_STRING", ""),
			RedisURL:         getEnv("REDIS_URL", ""),
			EmbeddingTTL:     getEnvAsDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),
			VerboseSQLLogger: getEnvAsBool("DB_DEBUG", false),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "pdf-quiz-bot"),
		},
	}
}

// ProviderType resolves the configured LLM backend.
func (c *Config) ProviderType() (llm.ProviderType, error) {
	return llm.ParseProviderType(c.Ai.LLMProvider)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate reports settings the bot cannot start without.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if _, err := c.ProviderType(); err != nil {
		return err
	}
	switch c.Telegram.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.Telegram.WebhookURL == "" || c.Telegram.WebhookSecret == "" {
			return fmt.Errorf("webhook mode needs WEBHOOK_URL")
		}
	default:
		return fmt.Errorf("unknown BOT_MODE %q", c.Telegram.Mode)
	}
	switch c.Storage.VectorStore {
	case VectorStoreMemory:
	case VectorStorePgvector:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("pgvector store needs DB_CONNECTION_STRING")
		}
	default:
		return fmt.Errorf("unknown VECTOR_STORE %q", c.Storage.VectorStore)
	}
	if c.Rag.ChunkOverlap >= c.Rag.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.Rag.ChunkOverlap, c.Rag.ChunkSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
