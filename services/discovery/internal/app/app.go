package internal

import (
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/middleware"
	"creatorpay/pkg/server"
	discoveryHTTP "creatorpay/services/discovery/internal/controller/http"
	"creatorpay/services/discovery/internal/repo/cache"
	"creatorpay/services/discovery/internal/repo/persistent"
	"creatorpay/services/discovery/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, chain *eth.Client) {
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize repositories
	profileRepo := persistent.NewProfileRepository(db)
	listingCache := cache.NewListingCache(redisClient, cfg.DiscoveryCacheTTL)

	// Initialize use cases
	discoveryUseCase := usecase.NewDiscoveryUseCase(chain, profileRepo, listingCache, usecase.Options{
		DemoFallback: cfg.DemoFallback,
	}, log.Named("discovery"))

	// Initialize HTTP handlers
	discoveryHandler := discoveryHTTP.NewDiscoveryHandler(discoveryUseCase)

	r := server.NewRouter()

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(redisClient, 120, time.Minute))
	api.Use(middleware.OptionalAuthMiddleware(jwtService))
	{
		api.GET("/creators", discoveryHandler.ListCreators)
		api.GET("/creators/:address", discoveryHandler.GetCreator)
		api.GET("/contract", discoveryHandler.ContractStatus)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.POST("/creators/refresh", discoveryHandler.Refresh)
	}

	server.Run("Discovery", cfg.ServerPort, r, log,
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
