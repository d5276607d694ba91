package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdf-quiz-bot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderChat(t *testing.T) {
	t.Run("Sends sampling options and reads the first choice", func(t *testing.T) {
		var got chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"},"finish_reason":"stop"}]}`))
		}))
		defer srv.Close()

		p := NewProvider(Config{
			APIKey:   "key",
			BaseURL:  srv.URL + "/v1/",
			Model:    "llama",
			Defaults: llm.Options{Temperature: 0.8, MaxTokens: 2048, TopK: 10, Stop: []string{"<|eot_id|>"}},
		})

		out, err := p.Generate(context.Background(), "hi", llm.WithTopP(0.95))

		require.NoError(t, err)
		assert.Equal(t, "hello", out)
		assert.Equal(t, "llama", got.Model)
		assert.Equal(t, 2048, got.MaxTokens)
		assert.Equal(t, 10, got.TopK)
		assert.Equal(t, 0.95, got.TopP)
		assert.Equal(t, []string{"<|eot_id|>"}, got.Stop)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, "user", got.Messages[0].Role)
	})

	t.Run("No API key means no auth header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}))
		defer srv.Close()

		_, err := NewProvider(Config{BaseURL: srv.URL}).Generate(context.Background(), "hi")

		assert.NoError(t, err)
	})

	t.Run("Non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewProvider(Config{BaseURL: srv.URL}).Generate(context.Background(), "hi")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("Empty choices is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		_, err := NewProvider(Config{BaseURL: srv.URL}).Generate(context.Background(), "hi")

		assert.Error(t, err)
	})
}
