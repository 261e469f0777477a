package internal

import (
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/middleware"
	"creatorpay/pkg/server"
	relayHTTP "creatorpay/services/relay/internal/controller/http"
	"creatorpay/services/relay/internal/repo/cache"
	"creatorpay/services/relay/internal/usecase"

	"github.com/redis/go-redis/v9"
)

func Run(cfg *config.Config, log *logger.Logger, redisClient *redis.Client, chain *eth.Client) {
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	discoveryCache := cache.NewDiscoveryCache(redisClient)
	relayUseCase := usecase.NewRelayUseCase(chain, discoveryCache, log.Named("relay"))
	relayHandler := relayHTTP.NewRelayHandler(relayUseCase)

	r := server.NewRouter()

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(redisClient, 30, time.Minute))

	// Public routes
	{
		api.GET("/tx/:hash", relayHandler.GetReceipt)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.POST("/tx", relayHandler.Submit)
	}

	server.Run("Relay", cfg.ServerPort, r, log,
		redisClient.Close,
		func() error {
			chain.Close()
			return nil
		},
	)
}
