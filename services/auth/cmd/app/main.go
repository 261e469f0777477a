package main

import (
	"context"
	"time"

	"creatorpay/pkg/cache"
	"creatorpay/pkg/config"
	"creatorpay/pkg/database"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	authApp "creatorpay/services/auth/internal/app"

	_ "creatorpay/docs"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Auth Service API
// @version         1.0
// @description     Wallet signature login for CreatorPay
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Validate JWT_SECRET for services that issue tokens
	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	chain, err := eth.Dial(ctx, eth.ConfigFrom(cfg))
	if err != nil {
		log.Error("Failed to connect to chain: %v", err)
		panic(err)
	}

	authApp.Run(cfg, log, db, redisClient, chain)
}
