package storage

import "github.com/annel0/shopcraft/internal/config"

func storageConfig(dir, redisURL string) config.StorageConfig {
	cfg := config.Default().Storage
	cfg.BadgerDir = dir
	cfg.RedisURL = redisURL
	return cfg
}
