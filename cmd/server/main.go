package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/expoprize/prizewheel-go/internal/api"
	"github.com/expoprize/prizewheel-go/internal/factory"
	"github.com/expoprize/prizewheel-go/internal/services/registration"
	redisstorage "github.com/expoprize/prizewheel-go/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	registrationCfg := registration.DefaultConfig()
	if v := os.Getenv("STRICT_UNIQUE_EMAIL"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			logger.Error("invalid STRICT_UNIQUE_EMAIL", slog.String("value", v))
			os.Exit(1)
		}
		registrationCfg.StrictUniqueEmail = strict
	}

	cfg := factory.Config{
		RegistrationConfig: registrationCfg,
		Logger:             logger,
		StorageType:        os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		Storage:             app.Storage,
		RegistrationService: app.RegistrationService,
		Guard:               app.Guard,
		SpinManager:         app.SpinManager,
		RaffleService:       app.RaffleService,
		HubManager:          app.HubManager,
		Clock:               app.Clock,
		Random:              app.Random,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("value", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		// In-flight spins and draws hold timers; kill them before the
		// listener so no commit races the shutdown
		app.SpinManager.CancelAll()
		app.RaffleService.CancelAll()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
