package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/astrocraft-network/stats-api/internal/api"
	"github.com/astrocraft-network/stats-api/internal/events"
	"github.com/astrocraft-network/stats-api/internal/ingest"
	"github.com/astrocraft-network/stats-api/internal/leaderboard"
	"github.com/astrocraft-network/stats-api/internal/ratelimit"
	"github.com/astrocraft-network/stats-api/internal/resilience"
	"github.com/astrocraft-network/stats-api/internal/security"
	"github.com/astrocraft-network/stats-api/internal/store"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	port := getEnvOrDefault("PORT", "8080")
	mongoURI := getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017")
	mongoDatabase := getEnvOrDefault("MONGO_DATABASE", "astrocraft")
	redisAddr := getEnvOrDefault("REDIS_ADDR", "localhost:6379")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := getEnvIntOrDefault("REDIS_DB", 0)
	kafkaBrokers := strings.Split(getEnvOrDefault("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaTopic := getEnvOrDefault("KAFKA_TOPIC", "game-events")
	kafkaGroupID := getEnvOrDefault("KAFKA_GROUP_ID", "stats-api")
	rateLimitPerMin := getEnvIntOrDefault("RATE_LIMIT_PER_MIN", ratelimit.DefaultConfig().RequestsPerMin)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Entry log: the source of truth. Without it nothing works, so a
	// connection failure aborts startup.
	connectCtx, cancel := context.WithTimeout(rootCtx, 15*time.Second)
	mongoClient, err := store.ConnectMongo(connectCtx, mongoURI)
	cancel()
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	entryLog := store.NewMongoEntryLog(mongoClient.Database(mongoDatabase))
	indexCtx, cancel := context.WithTimeout(rootCtx, 30*time.Second)
	err = entryLog.EnsureIndexes(indexCtx)
	cancel()
	if err != nil {
		slog.Error("Failed to ensure entry log indexes", "error", err)
		os.Exit(1)
	}

	// Rank cache: derived data only, so an unreachable Redis degrades to an
	// in-process cache instead of failing the boot. Views rebuild from the
	// log either way.
	var rankCache store.RankCache
	redisClient, err := store.NewRedisClient(redisAddr, redisPassword, redisDB)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory rank cache", "error", err)
		redisClient = nil
		rankCache = store.NewMemoryRankCache()
	} else {
		defer redisClient.Close()
		rankCache = store.NewBreakerRankCache(
			store.NewRedisRankCache(redisClient),
			resilience.NewBreaker("rank-cache", resilience.DefaultConfig()),
		)
	}

	registry, err := leaderboard.NewRegistry(entryLog, rankCache)
	if err != nil {
		slog.Error("Failed to build leaderboard registry", "error", err)
		os.Exit(1)
	}

	// Event pipeline: kafka -> channel -> dispatcher -> engines.
	eventCh := make(chan events.Event, 256)
	consumer, err := ingest.NewConsumer(ingest.Config{
		Brokers: kafkaBrokers,
		Topic:   kafkaTopic,
		GroupID: kafkaGroupID,
	}, eventCh, logger)
	if err != nil {
		slog.Error("Failed to build kafka consumer", "error", err)
		os.Exit(1)
	}

	dispatcher := events.NewDispatcher(registry)
	pipelineDone := make(chan error, 2)
	go func() { pipelineDone <- consumer.Run(rootCtx) }()
	go func() { pipelineDone <- dispatcher.Run(rootCtx, eventCh) }()

	// HTTP read surface.
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(security.HeadersMiddleware())
	r.Use(cors.Default())

	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.RequestsPerMin = rateLimitPerMin
	r.Use(ratelimit.NewLimiter(redisClient, limiterCfg).Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.NewHandlers(registry).RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	select {
	case <-rootCtx.Done():
		slog.Info("Shutting down server...")
	case err := <-pipelineDone:
		if err != nil && err != context.Canceled {
			slog.Error("Event pipeline failed", "error", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Ignoring non-numeric environment value", "key", key, "value", raw)
		return defaultValue
	}
	return value
}
