package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// 公開テンプレート詳細のJSONをそのまま持つ。
// 中身の型はusecase側が決める。
type TemplateDetailCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

func NewTemplateDetailCache(client redis.UniversalClient, ttl time.Duration) *TemplateDetailCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TemplateDetailCache{client: client, baseTTL: ttl}
}

func (c *TemplateDetailCache) Get(ctx context.Context, templateID int64) ([]byte, error) {
	data, err := c.client.Get(ctx, cacheKey(templateID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

// 一斉に切れないようTTLを最大1分ずらす
func (c *TemplateDetailCache) Set(ctx context.Context, templateID int64, payload []byte) error {
	jitter := time.Duration(rand.IntN(60)) * time.Second
	if err := c.client.Set(ctx, cacheKey(templateID), payload, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *TemplateDetailCache) Delete(ctx context.Context, templateID int64) error {
	if err := c.client.Del(ctx, cacheKey(templateID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(templateID int64) string {
	return fmt.Sprintf("catalog:template:%d", templateID)
}

// REDIS_ADDR未設定のとき用。常にmiss。
type Noop struct{}

func (Noop) Get(context.Context, int64) ([]byte, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, int64, []byte) error   { return nil }
func (Noop) Delete(context.Context, int64) error        { return nil }
