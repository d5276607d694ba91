package mapper

import (
	"testing"

	"pdf-quiz-bot/pkg/rag"

	"github.com/stretchr/testify/assert"
)

func TestChunkEmbeddingMapper(t *testing.T) {
	m := NewChunkEmbeddingMapper()
	chunk := rag.Chunk{Index: 2, Content: "Фотосинтез", Embedding: []float32{0.6, 0.8}}

	model := m.ToModel("42", chunk)

	assert.Equal(t, "42", model.Collection)
	assert.Equal(t, 2, model.ChunkIndex)
	assert.JSONEq(t, `{"runes":10,"dims":2}`, string(model.Metadata))
	assert.Equal(t, chunk, m.ToChunk(model))
}
