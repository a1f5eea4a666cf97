// internal/cache/view_dedup.go
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/javajoker/modhub-backend/internal/config"
)

const DefaultViewWindow = 10 * time.Minute

// ViewDeduper remembers which clients viewed which item within a window.
type ViewDeduper interface {
	// FirstSeen records key and reports whether it was absent.
	FirstSeen(ctx context.Context, key string) (bool, error)
}

func ViewKey(itemID, clientIP string) string {
	return fmt.Sprintf("view_%s_%s", itemID, clientIP)
}

func NewViewDeduper(cfg config.CacheConfig) (ViewDeduper, error) {
	window := cfg.ViewWindow
	if window <= 0 {
		window = DefaultViewWindow
	}

	switch strings.ToLower(cfg.Driver) {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisDeduper(client, window), nil
	case "memory", "":
		return NewMemoryDeduper(window), nil
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", cfg.Driver)
	}
}

// MemoryDeduper keeps the window in process. Every instance has its own.
type MemoryDeduper struct {
	cache *gocache.Cache
}

func NewMemoryDeduper(window time.Duration) *MemoryDeduper {
	if window <= 0 {
		window = DefaultViewWindow
	}
	return &MemoryDeduper{cache: gocache.New(window, 2*window)}
}

func (d *MemoryDeduper) FirstSeen(ctx context.Context, key string) (bool, error) {
	// Add fails when the key is already present and not expired.
	if err := d.cache.Add(key, struct{}{}, gocache.DefaultExpiration); err != nil {
		return false, nil
	}
	return true, nil
}

type RedisDeduper struct {
	client *redis.Client
	window time.Duration
}

func NewRedisDeduper(client *redis.Client, window time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, window: window}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, key, 1, d.window).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (d *RedisDeduper) Close() error {
	return d.client.Close()
}
