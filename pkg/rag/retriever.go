package rag

import (
	"context"
	"fmt"

	"pdf-quiz-bot/pkg/embedding"
)

const DefaultTopK = 3

// Indexer embeds document segments and stores them in a collection.
type Indexer struct {
	embedder embedding.EmbeddingProvider
	store    VectorStore
}

func NewIndexer(embedder embedding.EmbeddingProvider, store VectorStore) *Indexer {
	return &Indexer{embedder: embedder, store: store}
}

// Index replaces the collection with the given segments.
func (i *Indexer) Index(ctx context.Context, collection string, segments []string) (int, error) {
	if err := i.store.Delete(ctx, collection); err != nil {
		return 0, fmt.Errorf("clear collection: %w", err)
	}

	chunks := make([]Chunk, 0, len(segments))
	for idx, seg := range segments {
		res, err := i.embedder.Generate(ctx, seg, embedding.TaskRetrievalDocument)
		if err != nil {
			return 0, fmt.Errorf("embed segment %d: %w", idx, err)
		}
		chunks = append(chunks, Chunk{
			Index:     idx,
			Content:   seg,
			Embedding: res.Embedding.Values,
		})
	}

	if err := i.store.Add(ctx, collection, chunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}
	return len(chunks), nil
}

// Retriever answers topic queries against one collection.
type Retriever struct {
	embedder   embedding.EmbeddingProvider
	store      VectorStore
	collection string
	k          int
}

func NewRetriever(embedder embedding.EmbeddingProvider, store VectorStore, collection string, k int) *Retriever {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Retriever{
		embedder:   embedder,
		store:      store,
		collection: collection,
		k:          k,
	}
}

// Retrieve returns the contents of the k segments most similar to topic,
// best match first.
func (r *Retriever) Retrieve(ctx context.Context, topic string) ([]string, error) {
	res, err := r.embedder.Generate(ctx, topic, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.store.Search(ctx, r.collection, res.Embedding.Values, r.k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Content
	}
	return out, nil
}
