package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourorg/storefront/internal/client"
	"github.com/yourorg/storefront/internal/config"
	"github.com/yourorg/storefront/internal/handler"
	"github.com/yourorg/storefront/internal/kafka"
	"github.com/yourorg/storefront/internal/middleware"
	"github.com/yourorg/storefront/internal/service"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.String("config", "config/config.yaml", "path to the configuration file")
	pflag.Parse()

	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Redis client
	redisClient, err := setupRedis(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up Redis", zap.Error(err))
		// Continue without Redis
	}

	// Initialize Kafka producer
	kafkaProducer := setupKafka(cfg, logger)

	var events service.EventPublisher
	if kafkaProducer != nil {
		events = kafka.NewViewEvents(kafkaProducer, cfg.Kafka.CatalogEventsTopic())
	}

	catalogClient := client.NewCatalogClient(cfg.CatalogAPI.URL, cfg.CatalogAPI.Timeout, logger)
	catalogService := service.NewCatalogService(catalogClient, events, logger)
	storefrontHandler := handler.NewStorefrontHandler(catalogService, logger)

	var pinger handler.Pinger
	if redisClient != nil {
		pinger = redisClient
	}
	healthHandler := handler.NewHealthHandler(pinger, kafkaProducer != nil, logger)

	// Set up HTTP server with Gin
	router := setupRouter(storefrontHandler, healthHandler, cfg, logger, redisClient)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", client.RequestIDHeader},
		ExposedHeaders: []string{client.RequestIDHeader},
	}).Handler(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting storefront server",
			zap.String("port", cfg.Server.Port),
			zap.String("catalog_api", catalogClient.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if kafkaProducer != nil {
		kafkaProducer.Close()
	}

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited properly")
}

// setupRedis connects to Redis with exponential backoff. An empty URL
// disables Redis and returns a nil client.
func setupRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		logger.Info("Redis disabled")
		return nil, nil
	}

	redisOptions, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Failed to parse Redis URL", zap.Error(err))
		redisOptions = &redis.Options{
			Addr: cfg.Redis.URL,
			DB:   0,
		}
	}

	rdb := redis.NewClient(redisOptions)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.Redis.MaxElapsed

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.ConnectTimeout)
		defer cancel()
		return rdb.Ping(ctx).Err()
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Redis not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(ping, b, notify); err != nil {
		logger.Error("Failed to connect to Redis", zap.Error(err))
		rdb.Close()
		return nil, err
	}

	logger.Info("Connected to Redis", zap.String("addr", redisOptions.Addr))
	return rdb, nil
}

// setupKafka initializes the Kafka producer. No brokers disables it.
func setupKafka(cfg *config.Config, logger *zap.Logger) *kafka.Producer {
	brokers := cfg.Kafka.BrokerList()
	if len(brokers) == 0 {
		logger.Info("Kafka disabled, catalog view events will not be published")
		return nil
	}

	producer := kafka.NewProducer(brokers, cfg.Kafka.ClientID, logger)

	logger.Info("Initialized Kafka producer",
		zap.Strings("brokers", brokers),
		zap.String("topic", cfg.Kafka.CatalogEventsTopic()))
	return producer
}

func setupRouter(
	storefrontHandler *handler.StorefrontHandler,
	healthHandler *handler.HealthHandler,
	cfg *config.Config,
	logger *zap.Logger,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	// Redis-based rate limiting (if Redis is available)
	if redisClient != nil && cfg.RateLimit.Enabled {
		router.Use(middleware.RedisRateLimit(redisClient, middleware.RedisRateLimitConfig{
			Enabled:            cfg.RateLimit.Enabled,
			RequestsPerMinute:  cfg.RateLimit.RequestsPerMinute,
			BurstSize:          cfg.RateLimit.BurstSize,
			ClientIPHeaderName: cfg.RateLimit.ClientIPHeaderName,
		}, logger))
	} else if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.BurstSize,
		))
	}

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api/v1/storefront")
	{
		api.GET("/catalog", storefrontHandler.GetCatalog)
		api.GET("/search", storefrontHandler.Search)
		api.GET("/categories", storefrontHandler.GetCategories)
		api.GET("/categories/:name/restaurants", storefrontHandler.GetCategoryRestaurants)
		api.GET("/tags/popular", storefrontHandler.GetPopularTags)
		api.GET("/tags/:id", storefrontHandler.GetTag)
		api.GET("/restaurants/:id", storefrontHandler.GetRestaurant)
		api.GET("/sort-options", storefrontHandler.GetSortOptions)
		api.GET("/glyphs", storefrontHandler.GetGlyphs)
		api.GET("/cart", storefrontHandler.GetCart)
	}

	return router
}

func createLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	encoding := "json"
	if format == "console" {
		encoding = "console"
	}

	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
