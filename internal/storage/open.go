package storage

import (
	"context"

	"github.com/annel0/shopcraft/internal/config"
	"github.com/annel0/shopcraft/internal/logging"
)

// Open собирает хранилище по конфигурации: BadgerDB (или память, если
// каталог пуст) и, при заданном RedisURL, кеш Redis поверх.
// Недоступный Redis не фатален: возвращается хранилище без кеша.
func Open(ctx context.Context, cfg config.StorageConfig, logger *logging.Logger) (LayoutStore, error) {
	if logger == nil {
		logger = logging.GetStorageLogger()
	}

	var backend LayoutStore
	if cfg.BadgerDir == "" {
		logger.Warn("каталог BadgerDB не задан, планировки хранятся в памяти")
		backend = NewMemoryStore()
	} else {
		bs, err := NewBadgerStore(cfg.BadgerDir, cfg.Compression, logger)
		if err != nil {
			return nil, err
		}
		backend = bs
	}

	if cfg.RedisURL == "" {
		return backend, nil
	}

	client, err := NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("Redis недоступен, работаем без кеша: %v", err)
		return backend, nil
	}
	cached, err := NewCachedStore(client, backend, cfg.CacheTTL(), logger)
	if err != nil {
		client.Close()
		return backend, nil
	}
	return &ownedClientStore{CachedStore: cached, closeClient: client.Close}, nil
}

// ownedClientStore закрывает клиент Redis вместе с хранилищем
type ownedClientStore struct {
	*CachedStore
	closeClient func() error
}

func (s *ownedClientStore) Close() error {
	err := s.CachedStore.Close()
	if cerr := s.closeClient(); err == nil {
		err = cerr
	}
	return err
}
