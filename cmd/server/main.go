package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/newriverone/portal/configs"
	"github.com/newriverone/portal/internal/application/services"
	"github.com/newriverone/portal/internal/core/ports"
	"github.com/newriverone/portal/internal/infrastructure/db"
	"github.com/newriverone/portal/internal/infrastructure/health"
	"github.com/newriverone/portal/internal/infrastructure/httpserver"
	"github.com/newriverone/portal/internal/infrastructure/origin"
	"github.com/newriverone/portal/internal/infrastructure/redis"
	"github.com/newriverone/portal/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting New River One portal service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Repositories: Postgres post store decorated with a short-TTL cache
	redisCache := redis.NewRedisCache(redisClient, "appcache")
	basePostRepo := repositories.NewPostRepository(database, logger)
	postRepo := repositories.NewCachingPostRepository(basePostRepo, redisCache, 10*time.Second)

	// Live insert notifications travel over a named pub/sub channel
	postBus := redis.NewPostBus(redisClient, cfg.Bulletin.Channel, logger)

	// Bulletin services
	bulletinService := services.NewBulletinService(postRepo, postBus, &cfg.Bulletin, logger)
	feedService := services.NewFeedService(postRepo, postBus, &cfg.Bulletin, logger)

	// Shell cache: origin fetcher + generation store + policy service
	shellOrigin, err := origin.NewHTTPOrigin(&cfg.Shell, logger)
	if err != nil {
		logger.Fatal("Failed to configure shell origin:", err)
	}
	shellStore := redis.NewShellStore(redisClient, logger)
	shellCache := services.NewShellCacheService(shellStore, shellOrigin, &cfg.Shell, logger)

	gateService, err := services.NewGateService(&cfg.Gate, logger)
	if err != nil {
		logger.Fatal("Failed to initialize gate service:", err)
	}

	portalService, err := services.NewPortalService(&cfg.Portal, logger)
	if err != nil {
		logger.Fatal("Failed to load portal tiles:", err)
	}
	defer portalService.Close()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	// Install the shell set for the current generation, then sweep stale
	// generations. A failed install keeps whatever generation was active.
	if err := shellCache.Install(startCtx); err != nil {
		logger.Warn("Shell install failed, serving without a fresh shell set:", err)
	} else if err := shellCache.Activate(startCtx); err != nil {
		logger.Warn("Shell activation failed:", err)
	}

	// Start the live feed (initial load + subscription)
	if err := feedService.Start(startCtx); err != nil {
		logger.Fatal("Failed to start bulletin feed:", err)
	}
	defer feedService.Stop()

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		BulletinService: bulletinService,
		FeedService:     feedService,
		ShellCache:      shellCache,
		PortalService:   portalService,
		GateService:     gateService,
		HealthCheckers:  hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
