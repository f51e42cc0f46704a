package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs for public reads
const (
	TTLArticle    = 2 * time.Minute
	TTLArticles   = 30 * time.Second
	TTLCategories = 10 * time.Minute
	TTLDefault    = 5 * time.Minute
)

// Key prefixes
const (
	PrefixArticle    = "article:"
	PrefixArticles   = "articles:"
	PrefixCategories = "categories:"
)

// ErrMiss is returned by Get when the key is absent or the cache is disabled
var ErrMiss = errors.New("cache miss")

// Service is the read-through cache used by the public site
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	ArticleKey(slug string) string
	ArticleListKey(kind string, page, perPage int) string
	CategoriesKey(kind string) string

	// InvalidateArticles drops every cached article page and the given slugs
	InvalidateArticles(ctx context.Context, slugs ...string) error
	InvalidateCategories(ctx context.Context) error

	IsAvailable() bool
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service. A nil client yields a no-op cache.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) ArticleKey(slug string) string {
	return PrefixArticle + slug
}

func (c *redisCache) ArticleListKey(kind string, page, perPage int) string {
	return fmt.Sprintf("%s%s:%d:%d", PrefixArticles, kind, page, perPage)
}

func (c *redisCache) CategoriesKey(kind string) string {
	return PrefixCategories + kind
}

func (c *redisCache) InvalidateArticles(ctx context.Context, slugs ...string) error {
	if c.client == nil {
		return nil
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		keys = append(keys, c.ArticleKey(s))
	}
	if err := c.Delete(ctx, keys...); err != nil {
		return err
	}
	return c.deleteByPattern(ctx, PrefixArticles+"*")
}

func (c *redisCache) InvalidateCategories(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixCategories+"*")
}

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
