package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"labtrack_backend/internals/configs"
)

// ConnectRedis: nil kalau REDIS_ADDR kosong atau ping gagal (caller fallback ke memory)
func ConnectRedis(cfg configs.AppConfig, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping gagal, fallback ke memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	log.Info("✅ Redis connected.", zap.String("addr", cfg.RedisAddr))
	return rdb
}
