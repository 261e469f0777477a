package internal

import (
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/middleware"
	"creatorpay/pkg/server"
	authHTTP "creatorpay/services/auth/internal/controller/http"
	"creatorpay/services/auth/internal/repo/cache"
	"creatorpay/services/auth/internal/repo/persistent"
	"creatorpay/services/auth/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, chain *eth.Client) {
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	accountRepo := persistent.NewAccountRepository(db)
	nonceStore := cache.NewNonceStore(redisClient)
	authUseCase := usecase.NewAuthUseCase(chain, nonceStore, accountRepo, jwtService, log.Named("auth"))
	authHandler := authHTTP.NewAuthHandler(authUseCase)

	r := server.NewRouter()

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(redisClient, 20, time.Minute))

	auth := api.Group("/auth")
	{
		auth.POST("/nonce", authHandler.Nonce)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(jwtService), authHandler.Me)
	}

	server.Run("Auth", cfg.ServerPort, r, log,
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
