package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestNormalizeVector(t *testing.T) {
	t.Run("Unit length", func(t *testing.T) {
		out := normalizeVector([]float32{3, 4})

		assert.InDelta(t, 0.6, out[0], 1e-6)
		assert.InDelta(t, 0.8, out[1], 1e-6)
		assert.InDelta(t, 1.0, magnitude(out), 1e-6)
	})

	t.Run("Zero vector is returned unchanged", func(t *testing.T) {
		out := normalizeVector([]float32{0, 0, 0})

		assert.Equal(t, []float32{0, 0, 0}, out)
	})
}

func TestOpenAIProvider(t *testing.T) {
	t.Run("Sends e5 prefixes and normalises", func(t *testing.T) {
		var got embeddingRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[{"object":"embedding","index":0,"embedding":[0,3,4]}]}`))
		}))
		defer srv.Close()

		p := NewOpenAIProvider("secret", srv.URL+"/v1/", "intfloat/multilingual-e5-large")

		resp, err := p.Generate(context.Background(), "photosynthesis", TaskRetrievalQuery)

		require.NoError(t, err)
		assert.Equal(t, []string{"query: photosynthesis"}, got.Input)
		assert.InDelta(t, 1.0, magnitude(resp.Embedding.Values), 1e-6)
	})

	t.Run("Passages use the passage prefix", func(t *testing.T) {
		assert.Equal(t, "passage: ", e5Prefix("multilingual-e5-large", TaskRetrievalDocument))
		assert.Equal(t, "", e5Prefix("text-embedding-3-small", TaskRetrievalQuery))
	})

	t.Run("Propagates API errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
		}))
		defer srv.Close()

		p := NewOpenAIProvider("", srv.URL, "m")

		_, err := p.Generate(context.Background(), "x", TaskRetrievalDocument)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("Empty data is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer srv.Close()

		_, err := NewOpenAIProvider("", srv.URL, "m").Generate(context.Background(), "x", TaskRetrievalDocument)

		assert.Error(t, err)
	})
}

func TestOllamaProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		_, _ = w.Write([]byte(`{"embedding":[1.0,1.0]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")

	resp, err := p.Generate(context.Background(), "hello", TaskRetrievalDocument)

	require.NoError(t, err)
	require.Len(t, resp.Embedding.Values, 2)
	assert.InDelta(t, 1.0, magnitude(resp.Embedding.Values), 1e-6)
}
