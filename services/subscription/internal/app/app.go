package internal

import (
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/middleware"
	"creatorpay/pkg/server"
	subscriptionHTTP "creatorpay/services/subscription/internal/controller/http"
	"creatorpay/services/subscription/internal/repo/persistent"
	"creatorpay/services/subscription/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, chain *eth.Client) {
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	profileRepo := persistent.NewProfileRepository(db)
	subscriptionUseCase := usecase.NewSubscriptionUseCase(chain, profileRepo, log.Named("subscription"))
	subscriptionHandler := subscriptionHTTP.NewSubscriptionHandler(subscriptionUseCase)

	r := server.NewRouter()

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
	{
		api.GET("/subscriptions", subscriptionHandler.ListSubscriptions)
		api.GET("/subscriptions/:creator", subscriptionHandler.GetStatus)
		api.POST("/subscriptions/:creator", subscriptionHandler.Subscribe)
	}

	server.Run("Subscription", cfg.ServerPort, r, log,
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
