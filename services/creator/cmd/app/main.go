package main

import (
	"context"
	"time"

	"creatorpay/pkg/cache"
	"creatorpay/pkg/config"
	"creatorpay/pkg/database"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/s3"
	creatorApp "creatorpay/services/creator/internal/app"

	_ "creatorpay/docs"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Creator Service API
// @version         1.0
// @description     Creator dashboard, registration, withdrawals and profiles
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

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	chain, err := eth.Dial(ctx, eth.ConfigFrom(cfg))
	if err != nil {
		log.Error("Failed to connect to chain: %v", err)
		panic(err)
	}

	creatorApp.Run(cfg, log, db, redisClient, chain, s3Client)
}
