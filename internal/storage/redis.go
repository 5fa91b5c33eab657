package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/redis/go-redis/v9"
)

const hotItemsPrefix = "stats:hot:"

// RedisStatsCache stores ranked hot item lists as JSON strings.
type RedisStatsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{Client: client, TTL: ttl}
}

func (c *RedisStatsCache) HotItemsKey(kind domain.ItemType, limit int) string {
	return hotItemsPrefix + string(kind) + ":" + strconv.Itoa(limit)
}

func (c *RedisStatsCache) GetHotItems(ctx context.Context, kind domain.ItemType, limit int) ([]domain.HotItem, bool, error) {
	raw, err := c.Client.Get(ctx, c.HotItemsKey(kind, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []domain.HotItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *RedisStatsCache) SetHotItems(ctx context.Context, kind domain.ItemType, limit int, items []domain.HotItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.HotItemsKey(kind, limit), payload, c.TTL).Err()
}

// Invalidate drops every cached hot item list.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.Client.Scan(ctx, cursor, hotItemsPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var _ service.StatsCache = (*RedisStatsCache)(nil)
