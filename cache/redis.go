package cache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the redis client used for full-page feed caching. It is
// constructed once at process start and handed to the server explicitly;
// there is no package-level client.
type Cache struct {
	client *redis.Client

	// One writer at a time per key: concurrent misses on the same page
	// render once, not N times.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(client *redis.Client) *Cache {
	return &Cache{
		client: client,
		locks:  make(map[string]*sync.Mutex),
	}
}

// NewFromEnv connects using REDIS_URL when set, or REDIS_ADDR with optional
// credentials as the local fallback.
func NewFromEnv() (*Cache, error) {
	var client *redis.Client

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		client = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			Username: os.Getenv("REDIS_USERNAME"),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return New(client), nil
}

func (c *Cache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

// GetOrRender returns the cached bytes for key if present; otherwise it runs
// render exactly once, stores the result for ttl and returns it. A hit never
// touches the store behind render, so output can lag writes until the TTL
// runs out or Clear is called.
func (c *Cache) GetOrRender(ctx context.Context, key string, ttl time.Duration, render func() ([]byte, error)) ([]byte, error) {
	if c == nil || c.client == nil {
		return render()
	}

	if cached, err := c.Get(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Re-check under the lock: another request may have rendered while we
	// waited.
	if cached, err := c.Get(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	body, err := render()
	if err != nil {
		return nil, err
	}
	// A failed write is not fatal: the page is served, just not cached.
	_ = c.Set(ctx, key, body, ttl)
	return body, nil
}

// Clear evicts every cached feed page immediately. Administrative and
// test-only: the next GetOrRender observes current store state.
func (c *Cache) Clear(ctx context.Context) error {
	return c.DeleteByPrefix(ctx, "")
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if c == nil || c.client == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}
