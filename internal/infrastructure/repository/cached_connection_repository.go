package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// connectionCacheTTL bounds staleness for cached connection reads.
const connectionCacheTTL = 5 * time.Minute

// CachedConnectionRepository decorates a ConnectionRepository with a
// read-through Redis cache on single-row lookups. Cache failures are never
// surfaced; the repository falls back to the database.
type CachedConnectionRepository struct {
	inner  ports.ConnectionRepository
	client *redis.Client
	logger zerolog.Logger
}

// NewCachedConnectionRepository wraps inner with a Redis cache.
func NewCachedConnectionRepository(inner ports.ConnectionRepository, client *redis.Client, logger zerolog.Logger) ports.ConnectionRepository {
	return &CachedConnectionRepository{
		inner:  inner,
		client: client,
		logger: logger,
	}
}

func connectionCacheKey(id int64) string {
	return fmt.Sprintf("vendorcatalog:connection:%d", id)
}

// Create passes through to the inner repository.
func (r *CachedConnectionRepository) Create(ctx context.Context, conn *domain.Connection) (int64, error) {
	return r.inner.Create(ctx, conn)
}

// Get returns the cached connection when present, otherwise reads through
// to the database and populates the cache.
func (r *CachedConnectionRepository) Get(ctx context.Context, id int64) (*domain.Connection, error) {
	key := connectionCacheKey(id)
	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var conn domain.Connection
		if err := json.Unmarshal(data, &conn); err == nil {
			return &conn, nil
		}
		// undecodable entry, drop it
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.Debug().Err(err).Str("key", key).Msg("Cache read failed, falling back to database")
	}

	conn, err := r.inner.Get(ctx, id)
	if err != nil || conn == nil {
		return conn, err
	}

	if data, err := json.Marshal(conn); err == nil {
		if err := r.client.Set(ctx, key, data, connectionCacheTTL).Err(); err != nil {
			r.logger.Debug().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return conn, nil
}

// ListByVendor passes through to the inner repository.
func (r *CachedConnectionRepository) ListByVendor(ctx context.Context, vendorID int64) ([]*domain.Connection, error) {
	return r.inner.ListByVendor(ctx, vendorID)
}

// Update writes through and invalidates the cached entry.
func (r *CachedConnectionRepository) Update(ctx context.Context, conn *domain.Connection) error {
	if err := r.inner.Update(ctx, conn); err != nil {
		return err
	}
	r.invalidate(ctx, conn.ID)
	return nil
}

// Delete writes through and invalidates the cached entry.
func (r *CachedConnectionRepository) Delete(ctx context.Context, id int64) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedConnectionRepository) invalidate(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, connectionCacheKey(id)).Err(); err != nil {
		r.logger.Debug().Err(err).Int64("connectionId", id).Msg("Cache invalidation failed")
	}
}
