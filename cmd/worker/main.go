package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vida-social/internal/config"
	infraKafka "vida-social/internal/infra/kafka"
	infraRedis "vida-social/internal/infra/redis"
	"vida-social/pkg/logger"

	"go.uber.org/zap"
)

// 通知推送 worker：消费 Kafka 中的通知事件，转发到 Redis 用户频道供实时网关订阅
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	client := infraRedis.Get()
	handler := func(ctx context.Context, event *infraKafka.NotificationEvent) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := infraRedis.Publish(ctx, client, event.RecipientID, payload); err != nil {
			return err
		}
		logger.Debug("Notification pushed",
			zap.Int64("notification_id", event.ID),
			zap.Int64("recipient_id", event.RecipientID),
			zap.String("type", event.Type),
		)
		return nil
	}

	infraKafka.StartNotificationConsumer(
		ctx,
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic("notification_created"),
		"vida-social-notification-push",
		handler,
	)
}
