package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/antigravity-labs/antigravity-router/internal/config"
	"github.com/antigravity-labs/antigravity-router/internal/engine"
	"github.com/antigravity-labs/antigravity-router/internal/gateway"
	"github.com/antigravity-labs/antigravity-router/internal/responder"
	"github.com/antigravity-labs/antigravity-router/internal/ruleset"
	"github.com/antigravity-labs/antigravity-router/internal/worker"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting router worker",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("worker_id", cfg.WorkerID),
	)

	// Log configuration (without sensitive data)
	logger.Info("configuration loaded", zap.String("config", cfg.String()))

	// Load and compile the ruleset. A broken ruleset is fatal: the process
	// must not serve decisions with it.
	model, err := ruleset.Load(cfg.RulesetPath)
	if err != nil {
		logger.Fatal("failed to load ruleset",
			zap.String("path", cfg.RulesetPath),
			zap.Error(err),
		)
	}
	logger.Info("ruleset loaded", zap.String("path", cfg.RulesetPath))

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// Initialize decision engine
	eng := engine.New(model, logger)
	logger.Info("decision engine initialized")

	// Initialize static responder and execution gateway
	resp, err := responder.New(model)
	if err != nil {
		logger.Fatal("failed to initialize responder", zap.Error(err))
	}

	gw := gateway.New(model, resp, gateway.Providers{
		Cheap:     gateway.NewSimulatedProvider("deepseek", "deepseek-r1", 0.002, 0),
		Alternate: gateway.NewSimulatedProvider("google", "gemini-pro", 0.001, 0),
		Expensive: gateway.NewSimulatedProvider("gpt5", "gpt-5-preview", 0.025, 0),
	}, logger)
	logger.Info("execution gateway initialized")

	// Initialize worker
	w := worker.NewWorker(cfg, redisClient, eng, gw, logger)

	// Start worker
	if err := w.Start(); err != nil {
		logger.Fatal("failed to start worker", zap.Error(err))
	}

	// Start admin server
	adminServer := worker.NewAdminServer(cfg.AdminPort, redisClient, eng, gw, logger)
	if err := adminServer.Start(); err != nil {
		logger.Fatal("failed to start admin server", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("router worker running, press Ctrl+C to stop")
	<-sigChan

	logger.Info("shutdown signal received, stopping worker")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Stop admin server
	if err := adminServer.Stop(); err != nil {
		logger.Error("failed to stop admin server", zap.Error(err))
	}

	// Stop worker
	if err := w.Stop(); err != nil {
		logger.Error("failed to stop worker", zap.Error(err))
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		logger.Error("failed to close redis connection", zap.Error(err))
	}

	select {
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, forcing exit")
	default:
		logger.Info("worker stopped gracefully")
	}
}

// initLogger initializes the logger
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
