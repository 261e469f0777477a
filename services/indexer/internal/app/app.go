package internal

import (
	"context"
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/middleware"
	"creatorpay/pkg/queue"
	"creatorpay/pkg/server"
	indexerHTTP "creatorpay/services/indexer/internal/controller/http"
	"creatorpay/services/indexer/internal/repo/cache"
	"creatorpay/services/indexer/internal/repo/persistent"
	"creatorpay/services/indexer/internal/usecase"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client, chain *eth.Client) {
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	indexRepo := persistent.NewIndexRepository(db)
	discoveryCache := cache.NewDiscoveryCache(redisClient)

	indexerUseCase := usecase.NewIndexerUseCase(chain, indexRepo, queueClient, discoveryCache, usecase.Options{
		Confirmations: cfg.Confirmations,
	}, log.Named("indexer"))

	indexerHandler := indexerHTTP.NewIndexerHandler(indexerUseCase)

	ctx, cancel := context.WithCancel(context.Background())

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.IndexerSchedule, func() {
		indexerUseCase.Sync(ctx)
	}); err != nil {
		log.Error("Invalid indexer schedule %q: %v", cfg.IndexerSchedule, err)
		panic(err)
	}
	scheduler.Start()
	log.Info("Indexer scheduled %s from block %d with %d confirmations", cfg.IndexerSchedule, chain.StartBlock(), cfg.Confirmations)

	go indexerUseCase.Sync(ctx)

	r := server.NewRouter()

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(redisClient, 60, time.Minute))

	// Public routes
	{
		api.GET("/indexer/status", indexerHandler.GetStatus)
	}

	// Admin routes
	admin := api.Group("/indexer")
	admin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole(jwt.RoleAdmin))
	{
		admin.POST("/sync", indexerHandler.Sync)
	}

	server.Run("Indexer", cfg.ServerPort, r, log,
		func() error {
			cancel()
			<-scheduler.Stop().Done()
			return nil
		},
		func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
		redisClient.Close,
		queueClient.Close,
		func() error {
			chain.Close()
			return nil
		},
	)
}
