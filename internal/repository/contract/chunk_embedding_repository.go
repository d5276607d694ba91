package contract

import (
	"context"

	"pdf-quiz-bot/pkg/rag"
)

// ChunkEmbeddingRepository is the Postgres-backed vector store.
type ChunkEmbeddingRepository interface {
	rag.VectorStore
	Migrate(ctx context.Context) error
}
