package internal

import (
	"context"
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/middleware"
	"creatorpay/pkg/models"
	"creatorpay/pkg/queue"
	"creatorpay/pkg/server"
	notificationHTTP "creatorpay/services/notification/internal/controller/http"
	"creatorpay/services/notification/internal/repo/cache"
	"creatorpay/services/notification/internal/repo/persistent"
	"creatorpay/services/notification/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client, chain *eth.Client) {
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize repositories
	notificationRepo := persistent.NewNotificationRepository(db)
	notificationStore := cache.NewNotificationStore(redisClient)

	// Initialize use cases
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, notificationStore, chain, log.Named("notification"))

	// Initialize HTTP handlers
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, notificationStore, log, jwtService)

	ctx, cancel := context.WithCancel(context.Background())

	log.Info("Starting chain event consumer...")
	err := queueClient.ConsumeChainEvents(func(event *models.ChainEvent) error {
		return notificationUseCase.HandleChainEvent(ctx, event)
	})
	if err != nil {
		log.Error("Error starting chain event consumer: %v", err)
	}

	r := server.NewRouter()

	api := r.Group("/api/v1")

	// WebSocket endpoint authenticates via query parameter
	api.GET("/notifications/ws", notificationHandler.HandleWebSocket)

	protected := api.Group("/notifications")
	protected.Use(middleware.RateLimitMiddleware(redisClient, 120, time.Minute), middleware.AuthMiddleware(jwtService))
	{
		protected.GET("", notificationHandler.GetNotifications)
		protected.POST("/read", notificationHandler.MarkAllRead)
	}

	server.Run("Notification", cfg.ServerPort, r, log,
		func() error {
			cancel()
			return nil
		},
		queueClient.Close,
		func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
		redisClient.Close,
		func() error {
			chain.Close()
			return nil
		},
	)
}
