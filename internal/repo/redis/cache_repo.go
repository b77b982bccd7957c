package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const portfolioCacheKey = "cache:portfolio"

// CacheRepo holds the rendered portfolio aggregate so the public read path
// does not fan out to four tables on every request.
type CacheRepo struct {
	client *goredis.Client
}

func NewCacheRepo(client *goredis.Client) *CacheRepo {
	return &CacheRepo{client: client}
}

func (r *CacheRepo) GetPortfolio(ctx context.Context) ([]byte, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}

	data, err := r.client.Get(ctx, portfolioCacheKey).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get portfolio cache: %w", err)
	}

	return data, true, nil
}

func (r *CacheRepo) SetPortfolio(ctx context.Context, data []byte, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	if err := r.client.Set(ctx, portfolioCacheKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("set portfolio cache: %w", err)
	}

	return nil
}

func (r *CacheRepo) InvalidatePortfolio(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	if err := r.client.Del(ctx, portfolioCacheKey).Err(); err != nil {
		return fmt.Errorf("invalidate portfolio cache: %w", err)
	}

	return nil
}
