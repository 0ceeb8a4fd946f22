package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	errx "github.com/kira-carbon/server/internal/core/errx"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// RedisStore keeps each document as a JSON string at doc:<collection>:<id>
// and tracks collection membership in the set collection:<collection>:ids so
// collections can be scanned for keyword queries.
type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) docKey(col Collection, id string) string {
	return fmt.Sprintf("doc:%s:%s", col, id)
}

func (s *RedisStore) idsKey(col Collection) string {
	return fmt.Sprintf("collection:%s:ids", col)
}

func (s *RedisStore) Get(ctx context.Context, col Collection, id string) (json.RawMessage, error) {
	raw, err := s.rdb.Get(ctx, s.docKey(col, id)).Result()
	if err != nil {
		if err != redis.Nil {
			logx.Error().Err(err).Str("collection", string(col)).Str("id", id).Msg("failed to read document from redis")
		}
		return nil, errx.WrapRedis(err)
	}
	return json.RawMessage(raw), nil
}

func (s *RedisStore) Set(ctx context.Context, col Collection, id string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		logx.Error().Err(err).Str("collection", string(col)).Str("id", id).Msg("failed to marshal document")
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := s.rdb.Set(ctx, s.docKey(col, id), b, 0).Err(); err != nil {
		logx.Error().Err(err).Str("collection", string(col)).Str("id", id).Msg("failed to write document to redis")
		return errx.WrapRedis(err)
	}
	if err := s.rdb.SAdd(ctx, s.idsKey(col), id).Err(); err != nil {
		logx.Error().Err(err).Str("collection", string(col)).Str("id", id).Msg("failed to index document id")
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisStore) Query(ctx context.Context, col Collection, filter Filter, limit int) ([]json.RawMessage, error) {
	ids, err := s.rdb.SMembers(ctx, s.idsKey(col)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("collection", string(col)).Msg("failed to list collection ids")
		return nil, errx.WrapRedis(err)
	}

	results := make([]json.RawMessage, 0, limit)
	for _, id := range ids {
		raw, err := s.rdb.Get(ctx, s.docKey(col, id)).Result()
		if err == redis.Nil {
			// id set and documents are written without a transaction; a
			// dangling id is skipped, not an error
			continue
		}
		if err != nil {
			logx.Error().Err(err).Str("collection", string(col)).Str("id", id).Msg("failed to read document during query")
			return nil, errx.WrapRedis(err)
		}
		doc := json.RawMessage(raw)
		if !matchesFilter(doc, filter) {
			continue
		}
		results = append(results, doc)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

var _ Store = (*RedisStore)(nil)
