package repositories

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"mastodonbridge/src/domain/entities"
	"mastodonbridge/src/infra/metrics"
)

// EntityCache is the subset of the redis client the repository needs.
type EntityCache interface {
	GetKey(ctx context.Context, key string) (string, bool, error)
	SetKey(ctx context.Context, key string, value string) error
	DeleteKeys(ctx context.Context, keys []string) error
}

type storedEntitySource interface {
	GetEntity(ctx context.Context, id string) (*entities.StoredEntity, error)
}

// CachedEntityRepository é um read-through em redis na frente do postgres.
// Com cache nil, todas as leituras vão direto para a fonte.
type CachedEntityRepository struct {
	logger *slog.Logger
	source storedEntitySource
	cache  EntityCache
}

func NewCachedEntityRepository(
	logger *slog.Logger,
	source storedEntitySource,
	cache EntityCache,
) *CachedEntityRepository {
	return &CachedEntityRepository{
		logger: logger,
		source: source,
		cache:  cache,
	}
}

func (r *CachedEntityRepository) GetEntity(ctx context.Context, id string) (*entities.StoredEntity, error) {
	if r.cache == nil {
		return r.source.GetEntity(ctx, id)
	}

	cacheKey := entityCacheKey(id)

	cached, found, err := r.getFromCache(ctx, cacheKey)
	switch {
	case err != nil:
		// Erro de cache não derruba a leitura; segue para o postgres.
		metrics.EntityCacheRequests.WithLabelValues("error").Inc()
		r.logger.Warn("Entity cache error", "key", cacheKey, "entity_id", id, "error", err)
	case found:
		metrics.EntityCacheRequests.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.EntityCacheRequests.WithLabelValues("miss").Inc()
	}

	stored, err := r.source.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		r.setInCache(ctxWithTimeout, cacheKey, stored)
	}()

	return stored, nil
}

func (r *CachedEntityRepository) InvalidateByEntityIDs(ctx context.Context, entityIDs []string) error {
	if r.cache == nil || len(entityIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entityIDs))
	seen := make(map[string]bool, len(entityIDs))
	for _, id := range entityIDs {
		key := entityCacheKey(id)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	r.logger.Debug("Invalidating entity cache keys", "count", len(keys))

	if err := r.cache.DeleteKeys(ctx, keys); err != nil {
		return fmt.Errorf("CachedEntityRepository.InvalidateByEntityIDs - %w", err)
	}

	return nil
}

func entityCacheKey(id string) string {
	hash := md5.Sum([]byte(id))
	return fmt.Sprintf("entity:%x", hash)
}

func (r *CachedEntityRepository) getFromCache(ctx context.Context, cacheKey string) (*entities.StoredEntity, bool, error) {
	cachedJSON, found, err := r.cache.GetKey(ctx, cacheKey)
	if !found || err != nil {
		return nil, false, err
	}

	var stored entities.StoredEntity
	if err := json.Unmarshal([]byte(cachedJSON), &stored); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached entity: %w", err)
	}

	return &stored, true, nil
}

func (r *CachedEntityRepository) setInCache(ctx context.Context, cacheKey string, stored *entities.StoredEntity) {
	data, err := json.Marshal(stored)
	if err != nil {
		r.logger.Warn("Failed to marshal entity for cache", "key", cacheKey, "error", err)
		return
	}

	if err := r.cache.SetKey(ctx, cacheKey, string(data)); err != nil {
		r.logger.Warn("Failed to set entity cache", "key", cacheKey, "error", err)
		return
	}

	r.logger.Debug("Entity cache SET", "key", cacheKey, "entity_id", stored.ID)
}
