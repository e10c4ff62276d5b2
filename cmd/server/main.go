package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"helgykoin/internal/api"        // Custom package for API handlers
	"helgykoin/internal/cache"      // Read cache over Redis
	"helgykoin/internal/config"     // Custom package for configuration
	"helgykoin/internal/engine"     // Ledger and staking engine
	"helgykoin/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Construct the engine with the production economics
	eco := engine.DefaultEconomics()
	eco.CacheTTL = cfg.CacheTTL // Operator-tunable read-cache TTL
	eng := engine.New(db, cache.NewRedisStore(redisClient), eco)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Registration endpoint (issues bearer tokens)
	r.POST("/accounts", api.RegisterHandler(eng, cfg.JWTSecret))

	// Public token endpoints
	r.GET("/token", api.GetTokenHandler(eng))            // Token metadata endpoint
	r.GET("/token/marketcap", api.MarketCapHandler(eng)) // Market cap endpoint

	// Wallet routes (protected by JWT)
	walletGroup := r.Group("/wallet")
	walletGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	walletGroup.GET("", api.GetWalletHandler(eng))               // Wallet lookup endpoint
	walletGroup.POST("/transfer", api.TransferHandler(eng))      // Transfer endpoint
	walletGroup.POST("/sell", api.SellHandler(eng))              // Sell-to-system endpoint
	walletGroup.GET("/transactions", api.GetHistoryHandler(eng)) // Ledger history endpoint

	// Staking routes (protected by JWT)
	stakeGroup := r.Group("/stakes")
	stakeGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	stakeGroup.POST("", api.OpenStakeHandler(eng))             // Open stake endpoint
	stakeGroup.GET("", api.ListStakesHandler(eng))             // List stakes with rewards endpoint
	stakeGroup.POST("/claim", api.ClaimAllHandler(eng))        // Claim all rewards endpoint
	stakeGroup.POST("/:id/claim", api.ClaimRewardHandler(eng)) // Claim one stake's reward endpoint
	stakeGroup.DELETE("/:id", api.CloseStakeHandler(eng))      // Unstake endpoint

	// Booster routes (protected by JWT)
	boosterGroup := r.Group("/boosters")
	boosterGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	boosterGroup.GET("", api.CatalogHandler(eng))          // Booster catalog endpoint
	boosterGroup.POST("/:key", api.BuyBoosterHandler(eng)) // Booster purchase endpoint

	// Admin routes (protected, allowlisted accounts only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(cfg))
	adminGroup.POST("/mint", api.MintHandler(eng))      // Token emission endpoint
	adminGroup.POST("/price", api.SetPriceHandler(eng)) // Price override endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
