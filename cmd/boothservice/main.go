package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"booth-service/internal/app"
	"booth-service/internal/config"
	"booth-service/pkg/logger"

	"github.com/joho/godotenv"
)

const (
	envFilePath      = ".env"
	signalBufferSize = 1
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	envErr := godotenv.Load(envFilePath)

	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{Level: cfg.Logger.Level, Format: cfg.Logger.Format})
	if envErr != nil {
		logger.Warn(".env file not found, using environment variables")
	}

	service, err := app.New(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to initialize service", "error", err)
		os.Exit(1)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- service.Start()
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := service.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited gracefully")
}
