package internal

import (
	"time"

	"creatorpay/pkg/config"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/jwt"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/middleware"
	"creatorpay/pkg/server"
	adminHTTP "creatorpay/services/admin/internal/controller/http"
	"creatorpay/services/admin/internal/repo/persistent"
	"creatorpay/services/admin/internal/usecase"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, chain *eth.Client) {
	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	statsRepo := persistent.NewStatsRepository(db)
	adminUseCase := usecase.NewAdminUseCase(chain, statsRepo, log.Named("admin"))
	adminHandler := adminHTTP.NewAdminHandler(adminUseCase)

	r := server.NewRouter()

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(redisClient, 60, time.Minute))

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole(jwt.RoleAdmin))
	{
		admin.GET("/overview", adminHandler.GetOverview)
		admin.POST("/creators/:address/withdraw", adminHandler.WithdrawPlatformCut)
	}

	server.Run("Admin", cfg.ServerPort, r, log,
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
