package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

const (
	cacheKey = "vitals:snapshot:cache"
	cacheTTL = 30 * time.Minute
)

var _ domain.SnapshotRepository = (*CachedSnapshotRepository)(nil)

type CachedSnapshotRepository struct {
	next  domain.SnapshotRepository
	cache *redis.Client
}

func NewCachedSnapshotRepository(next domain.SnapshotRepository, cache *redis.Client) *CachedSnapshotRepository {
	return &CachedSnapshotRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedSnapshotRepository) invalidate(ctx context.Context) {
	if err := r.cache.Del(ctx, cacheKey).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate snapshot: %v", err)
	}
}

func (r *CachedSnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	val, err := r.cache.Get(ctx, cacheKey).Bytes()
	if err == nil {
		if snapshot, err := decodeSnapshot(val); err == nil {
			return snapshot, nil
		}

		log.Printf("[CACHE] Corrupted snapshot, cleaning up key")
		r.cache.Del(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	snapshot, err := r.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snapshot); err == nil {
		if setErr := r.cache.Set(ctx, cacheKey, data, cacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return snapshot, nil
}

func (r *CachedSnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := r.next.Save(ctx, snapshot); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedSnapshotRepository) Clear(ctx context.Context) error {
	if err := r.next.Clear(ctx); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}
