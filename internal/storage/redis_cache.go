package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/annel0/shopcraft/internal/logging"
	"github.com/annel0/shopcraft/internal/world"
	"github.com/go-redis/redis/v8"
)

// CacheStats — счётчики кеша
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}

// CachedStore — Read-Through кеш Redis поверх постоянного хранилища.
// Запись идёт сначала в backend, затем ключ в Redis обновляется.
// Ошибки Redis не ломают операции: они логируются, данные берутся из backend.
type CachedStore struct {
	client  *redis.Client
	backend LayoutStore
	codec   *Codec
	ttl     time.Duration
	prefix  string
	logger  *logging.Logger

	hits   int64
	misses int64
	errors int64
}

// NewRedisClient подключается к Redis. Принимает redis:// URL или host:port.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("некорректный Redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: url}
	}
	opts.ReadTimeout = 5 * time.Second
	opts.WriteTimeout = 5 * time.Second

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// NewCachedStore оборачивает backend кешем. ttl <= 0 — 10 минут.
func NewCachedStore(client *redis.Client, backend LayoutStore, ttl time.Duration, logger *logging.Logger) (*CachedStore, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = logging.GetStorageLogger()
	}
	codec, err := NewCodec(true)
	if err != nil {
		return nil, err
	}

	logger.Info("Redis cache initialized (TTL: %s)", ttl)
	return &CachedStore{
		client:  client,
		backend: backend,
		codec:   codec,
		ttl:     ttl,
		prefix:  "shopcraft:",
		logger:  logger,
	}, nil
}

func (c *CachedStore) key(name string) string {
	return c.prefix + layoutPrefix + name
}

// Save пишет в backend и обновляет кеш
func (c *CachedStore) Save(ctx context.Context, name string, l world.Layout) error {
	if err := c.backend.Save(ctx, name, l); err != nil {
		return err
	}
	c.put(ctx, name, l)
	return nil
}

// Load читает из Redis, при промахе из backend (Read-Through)
func (c *CachedStore) Load(ctx context.Context, name string) (world.Layout, error) {
	if err := validateName(name); err != nil {
		return world.Layout{}, err
	}

	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	switch {
	case err == nil:
		l, derr := c.codec.Decode(raw)
		if derr == nil {
			atomic.AddInt64(&c.hits, 1)
			return l, nil
		}
		atomic.AddInt64(&c.errors, 1)
		c.logger.Warn("битое значение в кеше для %q: %v", name, derr)
	case errors.Is(err, redis.Nil):
	default:
		atomic.AddInt64(&c.errors, 1)
		c.logger.Warn("Redis GET %q: %v", name, err)
	}

	atomic.AddInt64(&c.misses, 1)
	l, err := c.backend.Load(ctx, name)
	if err != nil {
		return world.Layout{}, err
	}
	c.put(ctx, name, l)
	return l, nil
}

// List всегда читает backend
func (c *CachedStore) List(ctx context.Context) ([]string, error) {
	return c.backend.List(ctx)
}

// Delete удаляет из backend и инвалидирует кеш
func (c *CachedStore) Delete(ctx context.Context, name string) error {
	if err := c.backend.Delete(ctx, name); err != nil {
		return err
	}
	if err := c.client.Del(ctx, c.key(name)).Err(); err != nil {
		atomic.AddInt64(&c.errors, 1)
		c.logger.Warn("Redis DEL %q: %v", name, err)
	}
	return nil
}

// Close закрывает backend. Клиент Redis закрывает владелец.
func (c *CachedStore) Close() error {
	c.codec.Close()
	return c.backend.Close()
}

// Stats возвращает снимок счётчиков
func (c *CachedStore) Stats() CacheStats {
	return CacheStats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
		Errors: atomic.LoadInt64(&c.errors),
	}
}

func (c *CachedStore) put(ctx context.Context, name string, l world.Layout) {
	data, err := c.codec.Encode(l)
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
		return
	}
	if err := c.client.Set(ctx, c.key(name), data, c.ttl).Err(); err != nil {
		atomic.AddInt64(&c.errors, 1)
		c.logger.Warn("Redis SET %q: %v", name, err)
	}
}
