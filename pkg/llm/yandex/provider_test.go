package yandex

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
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/completion", r.URL.Path)
		assert.Equal(t, "Api-Key secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"result":{"alternatives":[{"message":{"role":"assistant","text":"Привет"},"status":"ALTERNATIVE_STATUS_FINAL"}]}}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{
		APIKey:   "secret",
		FolderID: "b1gfolder",
		Model:    "yandexgpt/latest",
		BaseURL:  srv.URL,
		Defaults: llm.Options{Temperature: 0.6, MaxTokens: 2048},
	})

	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Привет", out)
	assert.Equal(t, "gpt://b1gfolder/yandexgpt/latest", got.ModelURI)
	assert.Equal(t, "2048", got.CompletionOptions.MaxTokens)
	assert.False(t, got.CompletionOptions.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "be brief", got.Messages[0].Text)
}

func TestProviderNoAlternatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"alternatives":[]}}`))
	}))
	defer srv.Close()

	_, err := NewProvider(Config{FolderID: "f", Model: "m", BaseURL: srv.URL}).Generate(context.Background(), "hi")

	assert.Error(t, err)
}
