package redis

import (
	"context"
	"fmt"
	"time"

	"vida-social/internal/config"
	"vida-social/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var client *redis.Client

// Init 连接 Redis，读写超时为秒级（通知投递整体受 dispatchTimeout 限制）
func Init(cfg *config.RedisConfig) error {
	client = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr(), err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
		zap.Duration("unread_ttl", cfg.UnreadTTLDuration()),
		zap.String("unread_key_prefix", unreadKeyPrefix),
		zap.String("channel_prefix", userChannelPrefix),
	)

	return nil
}

func Close() error {
	if client == nil {
		return nil
	}
	logger.Info("Redis connection closed")
	return client.Close()
}

// Get 返回已初始化的客户端，未调用 Init 时为 nil
func Get() *redis.Client {
	return client
}
