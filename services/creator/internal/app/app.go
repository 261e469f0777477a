package internal

import (
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/middleware"
	"creatorpay/pkg/s3"
	"creatorpay/pkg/server"
	creatorHTTP "creatorpay/services/creator/internal/controller/http"
	"creatorpay/services/creator/internal/repo/persistent"
	"creatorpay/services/creator/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, chain *eth.Client, storage s3.Storage) {
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize repositories
	profileRepo := persistent.NewProfileRepository(db)
	activityRepo := persistent.NewActivityRepository(db)

	// Initialize use cases
	creatorUseCase := usecase.NewCreatorUseCase(chain, profileRepo, activityRepo, storage, log.Named("creator"))

	// Initialize HTTP handlers
	creatorHandler := creatorHTTP.NewCreatorHandler(creatorUseCase)

	r := server.NewRouter()

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	// Public routes
	{
		api.GET("/creators/names", creatorHandler.ListNames)
		api.GET("/creators/:address/name", creatorHandler.GetName)
	}

	// Protected routes
	protected := api.Group("/creator")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/dashboard", creatorHandler.GetDashboard)
		protected.GET("/activities", creatorHandler.GetActivities)
		protected.POST("/register", creatorHandler.Register)
		protected.POST("/withdraw", creatorHandler.Withdraw)
		protected.PUT("/profile/name", creatorHandler.SetName)
		protected.DELETE("/profile/name", creatorHandler.RemoveName)
		protected.POST("/profile/avatar", creatorHandler.UploadAvatar)
	}

	server.Run("Creator", cfg.ServerPort, r, log,
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
