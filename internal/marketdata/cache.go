package marketdata

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kritika-v/stockwatch/backend/internal/models"
)

// QuoteTTL bounds how stale a cached provider response may be. Indicators and
// charts are still recomputed on every request.
const QuoteTTL = 5 * time.Minute

// QuoteCache is the quote persistence contract used by CachedFetcher.
// Get returns (nil, nil) on a miss.
type QuoteCache interface {
	Get(ctx context.Context, ticker string) (*models.Quote, error)
	Set(ctx context.Context, ticker string, q *models.Quote) error
}

// CachedFetcher wraps a Fetcher with a per-ticker quote cache. Cache failures
// are logged and fall through to the upstream fetch.
type CachedFetcher struct {
	inner Fetcher
	cache QuoteCache
}

func NewCachedFetcher(inner Fetcher, cache QuoteCache) *CachedFetcher {
	return &CachedFetcher{inner: inner, cache: cache}
}

func (c *CachedFetcher) Fetch(ctx context.Context, ticker string) (*models.Quote, error) {
	cached, err := c.cache.Get(ctx, ticker)
	if err != nil {
		log.Printf("quote cache read error (ignored): %v", err)
	} else if cached != nil {
		return cached, nil
	}

	q, err := c.inner.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, ticker, q); err != nil {
		log.Printf("quote cache write error (ignored): %v", err)
	}
	return q, nil
}

// RedisQuoteCache keeps JSON-marshalled quotes in Redis with a TTL.
type RedisQuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisQuoteCache(rdb *redis.Client) *RedisQuoteCache {
	return &RedisQuoteCache{rdb: rdb, ttl: QuoteTTL}
}

func (r *RedisQuoteCache) Get(ctx context.Context, ticker string) (*models.Quote, error) {
	raw, err := r.rdb.Get(ctx, "quote:"+ticker).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var q models.Quote
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *RedisQuoteCache) Set(ctx context.Context, ticker string, q *models.Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, "quote:"+ticker, data, r.ttl).Err()
}
