package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/newriverone/portal/internal/core/domain/bulletin"
	"github.com/newriverone/portal/internal/core/ports"
)

var sf singleflight.Group

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingPostRepository decorates a PostRepository with cache-aside on the
// recent-posts page. The page is tiny but read on every portal load, and a
// short TTL keeps the cache from masking fresh inserts for long; Create
// invalidates it anyway.
type CachingPostRepository struct {
	inner ports.PostRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingPostRepository(inner ports.PostRepository, cache ports.Cache, ttl time.Duration) ports.PostRepository {
	return &CachingPostRepository{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachingPostRepository) recentKey(limit int) string {
	return fmt.Sprintf("bulletin:recent:%d", limit)
}

func (c *CachingPostRepository) Recent(ctx context.Context, limit int) ([]*bulletin.Post, error) {
	key := c.recentKey(limit)
	if v, ok := cacheGet[[]*bulletin.Post](c.cache, ctx, key); ok {
		return *v, nil
	}
	res, err, _ := sf.Do(key, func() (any, error) {
		if v, ok := cacheGet[[]*bulletin.Post](c.cache, ctx, key); ok {
			return *v, nil
		}
		posts, err := c.inner.Recent(ctx, limit)
		if err != nil {
			return nil, err
		}
		cacheSetSilently(c.cache, ctx, key, posts, c.ttl)
		return posts, nil
	})
	if err != nil {
		return nil, err
	}
	posts, ok := res.([]*bulletin.Post)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return posts, nil
}

func (c *CachingPostRepository) Create(ctx context.Context, content string) (*bulletin.Post, error) {
	post, err := c.inner.Create(ctx, content)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		// Invalidate every plausible page size rather than tracking which
		// limits were cached.
		for limit := 1; limit <= 10; limit++ {
			_ = c.cache.Delete(ctx, c.recentKey(limit))
		}
	}
	return post, nil
}
