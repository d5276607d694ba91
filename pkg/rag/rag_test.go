package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pdf-quiz-bot/pkg/embedding"
	"pdf-quiz-bot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bagEmbedder maps text to a tiny bag-of-letters vector, enough to make
// identical texts maximally similar.
type bagEmbedder struct{}

func (bagEmbedder) Generate(ctx context.Context, text, taskType string) (*embedding.EmbeddingResponse, error) {
	v := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: v}}, nil
}

type fakeLLM struct {
	prompt      string
	reply       string
	err         error
	sawDeadline bool
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *fakeLLM) Generate(ctx context.Context, p string, opts ...llm.Option) (string, error) {
	f.prompt = p
	_, f.sawDeadline = ctx.Deadline()
	return f.reply, f.err
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Identical query ranks its chunk first", func(t *testing.T) {
		store := NewMemoryStore()
		idx := NewIndexer(bagEmbedder{}, store)
		segments := []string{
			"mitochondria produce energy",
			"photosynthesis converts light into chemical energy",
			"zebras run fast",
			"volcanoes erupt lava",
		}

		n, err := idx.Index(ctx, "42", segments)
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		got, err := NewRetriever(bagEmbedder{}, store, "42", 3).Retrieve(ctx, segments[1])

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, segments[1], got[0])
	})

	t.Run("Collections are isolated", func(t *testing.T) {
		store := NewMemoryStore()
		idx := NewIndexer(bagEmbedder{}, store)
		_, _ = idx.Index(ctx, "1", []string{"alpha"})
		_, _ = idx.Index(ctx, "2", []string{"beta", "gamma"})

		hits, err := store.Search(ctx, "1", []float32{1}, 5)

		require.NoError(t, err)
		assert.Len(t, hits, 1)
		assert.Equal(t, 2, store.Len("2"))
	})

	t.Run("Reindexing replaces the collection", func(t *testing.T) {
		store := NewMemoryStore()
		idx := NewIndexer(bagEmbedder{}, store)
		_, _ = idx.Index(ctx, "1", []string{"old", "older"})
		_, _ = idx.Index(ctx, "1", []string{"new"})

		assert.Equal(t, 1, store.Len("1"))
	})

	t.Run("Delete drops the collection", func(t *testing.T) {
		store := NewMemoryStore()
		_ = store.Add(ctx, "1", []Chunk{{Content: "x", Embedding: []float32{1}}})

		require.NoError(t, store.Delete(ctx, "1"))
		assert.Equal(t, 0, store.Len("1"))
	})
}

type staticRetriever []string

func (s staticRetriever) Retrieve(ctx context.Context, topic string) ([]string, error) {
	return s, nil
}

func TestChain(t *testing.T) {
	t.Run("Returns text with the context used", func(t *testing.T) {
		fake := &fakeLLM{reply: "```yaml\nquestion: q\n```"}
		chain := NewChain(staticRetriever{"chunk A", "chunk B"}, fake, "Write an MCQ.", WithTimeout(time.Second))

		ans, err := chain.Invoke(context.Background(), "Photosynthesis")

		require.NoError(t, err)
		assert.Equal(t, fake.reply, ans.Text)
		assert.Equal(t, []string{"chunk A", "chunk B"}, ans.Context)
		assert.Contains(t, fake.prompt, "chunk A")
		assert.Contains(t, fake.prompt, "Photosynthesis")
		assert.True(t, fake.sawDeadline)
	})

	t.Run("LLM errors are wrapped", func(t *testing.T) {
		boom := errors.New("backend down")
		chain := NewChain(staticRetriever{}, &fakeLLM{err: boom}, "x")

		_, err := chain.Invoke(context.Background(), "t")

		assert.ErrorIs(t, err, boom)
	})
}
