package ollama

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

func TestOllamaChat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"done"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", 0)

	out, err := p.Chat(context.Background(), []llm.Message{{Role: "model", Content: "earlier"}}, llm.WithMaxTokens(64))

	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, "assistant", got.Messages[0].Role)
	assert.Equal(t, 64, got.Options.NumPredict)
	assert.False(t, got.Stream)
}
