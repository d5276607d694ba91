package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProvider memoises embeddings in Redis. Re-uploading the same PDF or
// asking the same topic twice does not hit the model again.
type CachedProvider struct {
	next  EmbeddingProvider
	rdb   redis.Cmdable
	model string
	ttl   time.Duration
}

func NewCachedProvider(next EmbeddingProvider, rdb redis.Cmdable, model string, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		rdb:   rdb,
		model: model,
		ttl:   ttl,
	}
}

func (p *CachedProvider) key(text, taskType string) string {
	sum := sha256.Sum256([]byte(p.model + "\x00" + taskType + "\x00" + text))
	return "embedding:" + hex.EncodeToString(sum[:])
}

func (p *CachedProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	key := p.key(text, taskType)

	raw, err := p.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var values []float32
		if jsonErr := json.Unmarshal(raw, &values); jsonErr == nil && len(values) > 0 {
			return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: values}}, nil
		}
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	resp, err := p.next.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}

	// Cache failures only cost a recomputation later.
	if payload, err := json.Marshal(resp.Embedding.Values); err == nil {
		p.rdb.Set(ctx, key, payload, p.ttl)
	}

	return resp, nil
}
