// Package main provides the entry point for the signal engine server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/api"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/config"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/database"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/feed"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/health"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/logger"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/metrics"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/repository"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/service"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/sportsdata"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	inMemory := flag.Bool("in-memory", false, "run without a database, storing signals in memory")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     version,
	}).Info("TrueSignal engine starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories
	var (
		signalRepo   repository.SignalRepository
		bankrollRepo repository.BankrollRepository
		db           *database.DB
	)

	if *inMemory {
		appLog.Warn("Running with in-memory storage; data is lost on restart")
		signalRepo = repository.NewMemorySignalRepository()
		bankrollRepo = repository.NewMemoryBankrollRepository()
	} else {
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()
		appLog.Info("Database connection established")

		signalRepo = repository.NewPostgresSignalRepository(db)
		bankrollRepo = repository.NewPostgresBankrollRepository(db)
	}

	// Initialize metrics registry
	metrics.InitRegistry()

	// Initialize feed hub and services
	hub := feed.NewHub(logger.WithComponent(appLog, "feed"))
	signalService := service.NewSignalService(signalRepo, hub, logger.WithComponent(appLog, "signals"))
	statsService := service.NewStatsService(signalRepo, cfg.Feed, logger.WithComponent(appLog, "stats"))
	bankrollService := service.NewBankrollService(bankrollRepo, logger.WithComponent(appLog, "bankroll"))

	// Initialize the sports-data fixtures client when configured
	var fixtures *sportsdata.Client
	if cfg.SportsAPI.APIKey != "" {
		sportsLogger := log.New(os.Stdout, "sportsdata: ", log.LstdFlags)
		fixtures = sportsdata.NewClient(&cfg.SportsAPI, sportsLogger)
		defer fixtures.Close()
		appLog.WithField("base_url", cfg.SportsAPI.BaseURL).Info("Sports data client initialized")
	} else {
		appLog.Info("Sports data API key not set; fixtures endpoint disabled")
	}

	// Start the stats refresh poller
	poller := feed.NewPoller(cfg.Feed.PollIntervalSeconds, statsService.Refresh,
		logger.WithComponent(appLog, "poller"))
	if err := poller.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start stats poller")
	}
	defer poller.Stop()

	// Start the health probe server
	var pinger health.Pinger
	if db != nil {
		pinger = db
	}
	healthServer := health.NewServer(cfg.App.Name, version, cfg.Server.HealthPort, pinger,
		logger.WithComponent(appLog, "health"))
	healthServer.Start(ctx)

	// Start the metrics server
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Start the API server
	apiServer := api.NewServer(cfg.Server, signalService, statsService, bankrollService,
		fixtures, hub, logger.WithComponent(appLog, "api"))

	go func() {
		if err := apiServer.Start(); err != nil {
			appLog.WithError(err).Fatal("API server failed")
		}
	}()

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"api_port":     cfg.Server.Port,
		"health_port":  cfg.Server.HealthPort,
		"metrics_port": cfg.Metrics.Port,
	}).Info("TrueSignal engine running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during API server shutdown")
	}

	cancel()
	appLog.Info("TrueSignal engine shut down successfully")
}
