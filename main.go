package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"goskim/adapters/api"
	"goskim/app"
	"goskim/internal"
	"goskim/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load application configuration (.env, skim.yaml, SKIM_* variables)
	appConfig, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	defer logger.Sync()

	service, err := app.NewSkimService(appConfig.SummaryConfig(), logger)
	if err != nil {
		log.Fatalf("Failed to create skim service: %v", err)
	}

	serverConfig := api.DefaultConfig()
	serverConfig.Port = appConfig.Server.Port
	serverConfig.Delimiter = appConfig.Delimiter()

	logger.Info("Starting skim server on port %s", serverConfig.Port)
	if err := api.NewServer(service, serverConfig, logger).Run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
