// Package gigachat implements the Sber GigaChat chat API. Access tokens are
// short lived and obtained with the client credentials against the OAuth
// endpoint; they are cached and refreshed through an oauth2.TokenSource.
package gigachat

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pdf-quiz-bot/pkg/llm"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL  = "https://gigachat.devices.sberbank.ru/api/v1"
	DefaultAuthURL  = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	DefaultScope    = "GIGACHAT_API_PERS"
	DefaultTimeout  = 90 * time.Second
	DefaultMaxToken = 2048
)

type Config struct {
	// Credentials is the base64 "client_id:client_secret" authorization key.
	Credentials        string
	Scope              string
	Model              string
	BaseURL            string
	AuthURL            string
	InsecureSkipVerify bool
	Timeout            time.Duration
	Defaults           llm.Options
}

type Provider struct {
	baseURL  string
	model    string
	defaults llm.Options
	client   *http.Client
}

var _ llm.LLMProvider = (*Provider)(nil)

type tokenSource struct {
	authURL     string
	credentials string
	scope       string
	client      *http.Client
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // unix millis
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	form := url.Values{"scope": {s.scope}}
	req, err := http.NewRequest(http.MethodPost, s.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+s.credentials)
	req.Header.Set("RqUID", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gigachat auth failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gigachat auth error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("gigachat auth returned an empty token")
	}

	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   "Bearer",
		Expiry:      time.UnixMilli(tr.ExpiresAt),
	}, nil
}

func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// Sber endpoints are signed by the Russian national CA.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	base := &http.Client{Transport: transport, Timeout: cfg.Timeout}

	src := oauth2.ReuseTokenSource(nil, &tokenSource{
		authURL:     cfg.AuthURL,
		credentials: cfg.Credentials,
		scope:       cfg.Scope,
		client:      base,
	})

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, src)
	client.Timeout = cfg.Timeout

	return &Provider{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		defaults: cfg.Defaults,
		client:   client,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(p.defaults, opts...)

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    history,
		Temperature: options.Temperature,
		TopP:        options.TopP,
		MaxTokens:   options.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gigachat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gigachat error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("gigachat returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
