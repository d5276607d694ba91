package implementation

import (
	"context"

	"pdf-quiz-bot/internal/mapper"
	"pdf-quiz-bot/internal/model"
	"pdf-quiz-bot/internal/repository/contract"
	"pdf-quiz-bot/internal/repository/scope"
	"pdf-quiz-bot/internal/repository/specification"
	"pdf-quiz-bot/pkg/rag"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChunkEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkEmbeddingMapper
}

func NewChunkEmbeddingRepository(db *gorm.DB) contract.ChunkEmbeddingRepository {
	return &ChunkEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkEmbeddingMapper(),
	}
}

func (r *ChunkEmbeddingRepositoryImpl) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.ChunkEmbedding{})
}

func (r *ChunkEmbeddingRepositoryImpl) Add(ctx context.Context, collection string, chunks []rag.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(collection, chunks)
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

// Search ranks by pgvector cosine distance; similarity is 1 - distance.
func (r *ChunkEmbeddingRepositoryImpl) Search(ctx context.Context, collection string, query []float32, k int) ([]rag.ScoredChunk, error) {
	if k <= 0 {
		k = rag.DefaultTopK
	}

	type result struct {
		model.ChunkEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(query)

	db := r.db.WithContext(ctx).Table("chunk_embeddings")
	err := specification.ApplyAll(db,
		specification.ByCollection{Collection: collection},
		specification.NearestTo{Vector: queryVector},
		specification.Limit{N: k},
	).
		Scopes(scope.OrderByChunkIndex).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]rag.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = rag.ScoredChunk{
			Chunk:      r.mapper.ToChunk(&res.ChunkEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *ChunkEmbeddingRepositoryImpl) Delete(ctx context.Context, collection string) error {
	db := specification.ByCollection{Collection: collection}.Apply(r.db.WithContext(ctx))
	return db.Delete(&model.ChunkEmbedding{}).Error
}
