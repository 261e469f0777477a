package main

import (
	"context"
	"time"

	"creatorpay/pkg/cache"
	"creatorpay/pkg/config"
	"creatorpay/pkg/database"
	"creatorpay/pkg/eth"
	"creatorpay/pkg/logger"
	"creatorpay/pkg/queue"
	indexerApp "creatorpay/services/indexer/internal/app"

	_ "creatorpay/docs"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Indexer Service API
// @version         1.0
// @description     Indexes subscription contract events into Postgres and publishes them to RabbitMQ
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

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	chain, err := eth.Dial(ctx, eth.ConfigFrom(cfg))
	if err != nil {
		log.Error("Failed to connect to chain: %v", err)
		panic(err)
	}

	indexerApp.Run(cfg, log, db, redisClient, queueClient, chain)
}
