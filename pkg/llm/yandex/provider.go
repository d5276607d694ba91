// Package yandex talks to the YandexGPT foundation models completion API.
package yandex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"pdf-quiz-bot/pkg/llm"
)

const DefaultBaseURL = "https://llm.api.cloud.yandex.net/foundationModels/v1"

type Config struct {
	APIKey   string
	FolderID string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	Defaults llm.Options
}

type Provider struct {
	apiKey   string
	modelURI string
	baseURL  string
	defaults llm.Options
	client   *http.Client
}

var _ llm.LLMProvider = (*Provider)(nil)

type completionOptions struct {
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	MaxTokens   string  `json:"maxTokens,omitempty"`
}

type message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type completionRequest struct {
	ModelURI          string            `json:"modelUri"`
	CompletionOptions completionOptions `json:"completionOptions"`
	Messages          []message         `json:"messages"`
}

type completionResponse struct {
	Result struct {
		Alternatives []struct {
			Message message `json:"message"`
			Status  string  `json:"status"`
		} `json:"alternatives"`
	} `json:"result"`
}

// ModelURI builds the gpt://<folder>/<model> identifier the API expects.
func ModelURI(folderID, model string) string {
	return fmt.Sprintf("gpt://%s/%s", folderID, model)
}

func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Provider{
		apiKey:   cfg.APIKey,
		modelURI: ModelURI(cfg.FolderID, cfg.Model),
		baseURL:  cfg.BaseURL,
		defaults: cfg.Defaults,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(p.defaults, opts...)

	msgs := make([]message, len(history))
	for i, m := range history {
		msgs[i] = message{Role: m.Role, Text: m.Content}
	}

	reqBody := completionRequest{
		ModelURI: p.modelURI,
		CompletionOptions: completionOptions{
			Stream:      false,
			Temperature: options.Temperature,
		},
		Messages: msgs,
	}
	// The API wants maxTokens as a string (int64 in proto JSON).
	if options.MaxTokens > 0 {
		reqBody.CompletionOptions.MaxTokens = strconv.Itoa(options.MaxTokens)
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/completion", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Api-Key "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("yandex request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yandex error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Result.Alternatives) == 0 {
		return "", fmt.Errorf("yandex returned no alternatives")
	}
	return out.Result.Alternatives[0].Message.Text, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
