package mapper

import (
	"fmt"

	"pdf-quiz-bot/internal/model"
	"pdf-quiz-bot/pkg/rag"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkEmbeddingMapper struct{}

func NewChunkEmbeddingMapper() *ChunkEmbeddingMapper {
	return &ChunkEmbeddingMapper{}
}

func (m *ChunkEmbeddingMapper) ToChunk(e *model.ChunkEmbedding) rag.Chunk {
	return rag.Chunk{
		Index:     e.ChunkIndex,
		Content:   e.Document,
		Embedding: e.EmbeddingValue.Slice(),
	}
}

func (m *ChunkEmbeddingMapper) ToModel(collection string, c rag.Chunk) *model.ChunkEmbedding {
	return &model.ChunkEmbedding{
		Collection:     collection,
		ChunkIndex:     c.Index,
		Document:       c.Content,
		EmbeddingValue: pgvector.NewVector(c.Embedding),
		Metadata:       datatypes.JSON([]byte(fmt.Sprintf(`{"runes":%d,"dims":%d}`, len([]rune(c.Content)), len(c.Embedding)))),
	}
}

func (m *ChunkEmbeddingMapper) ToModels(collection string, chunks []rag.Chunk) []*model.ChunkEmbedding {
	models := make([]*model.ChunkEmbedding, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(collection, c)
	}
	return models
}
