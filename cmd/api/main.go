package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vida-social/internal/api/handler"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/router"
	"vida-social/internal/config"
	"vida-social/internal/infra/database"
	infraKafka "vida-social/internal/infra/kafka"
	infraRedis "vida-social/internal/infra/redis"
	"vida-social/internal/repository"
	"vida-social/internal/service"
	"vida-social/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 加载配置文件
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(database.Get()); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化Redis
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	// 初始化Kafka生产者
	producer := infraKafka.NewProducer(&cfg.Kafka, cfg.Kafka.Topic("notification_created"))
	defer producer.Close()

	gin.SetMode(cfg.App.Mode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(cors.New(corsConfig(cfg.CORS.AllowOrigins)))

	// 初始化依赖（Repository -> Service -> Handler）
	store := repository.NewStore(database.Get())
	unread := infraRedis.NewUnreadCounter(infraRedis.Get(), cfg.Redis.UnreadTTLDuration())

	notificationService := service.NewNotificationService(store, producer, unread)
	relationService := service.NewRelationService(store, notificationService)
	commentService := service.NewCommentService(store, notificationService)
	blockService := service.NewBlockService(store)
	userService := service.NewUserService(store)

	r.GET("/healthz", healthCheckHandler)

	router.Setup(r,
		cfg.JWT.Secret,
		handler.NewUserHandler(userService),
		handler.NewRelationHandler(relationService),
		handler.NewBlockHandler(blockService),
		handler.NewCommentHandler(commentService),
		handler.NewNotificationHandler(notificationService),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info("Server listening",
			zap.String("name", cfg.App.Name),
			zap.String("version", cfg.App.Version),
			zap.String("mode", cfg.App.Mode),
			zap.String("addr", addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	c.ExposeHeaders = []string{middleware.HeaderRequestID}
	return c
}

// healthCheckHandler 健康检查接口
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
	})
}
