package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

const SnapshotKey = "vitals:snapshot"

var _ domain.SnapshotRepository = (*RedisSnapshotRepository)(nil)

// RedisSnapshotRepository stores the whole snapshot as one JSON value without expiry.
type RedisSnapshotRepository struct {
	rdb *redis.Client
	key string
}

func NewRedisSnapshotRepository(rdb *redis.Client, key string) *RedisSnapshotRepository {
	if key == "" {
		key = SnapshotKey
	}
	return &RedisSnapshotRepository{
		rdb: rdb,
		key: key,
	}
}

func (r *RedisSnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	val, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoData
		}
		return nil, fmt.Errorf("redis snapshot: read failed: %w", err)
	}
	return decodeSnapshot(val)
}

func (r *RedisSnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("redis snapshot: encode failed: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis snapshot: write failed: %w", err)
	}
	return nil
}

func (r *RedisSnapshotRepository) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis snapshot: delete failed: %w", err)
	}
	return nil
}
