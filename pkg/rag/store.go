package rag

import "context"

// Chunk is one embedded text segment of a document.
type Chunk struct {
	Index     int
	Content   string
	Embedding []float32
}

type ScoredChunk struct {
	Chunk
	Similarity float64
}

// VectorStore keeps chunk embeddings grouped by collection. The bot uses the
// chat id as collection so documents of different chats never mix.
type VectorStore interface {
	Add(ctx context.Context, collection string, chunks []Chunk) error
	// Search returns at most k chunks ordered by descending similarity.
	Search(ctx context.Context, collection string, query []float32, k int) ([]ScoredChunk, error)
	Delete(ctx context.Context, collection string) error
}
