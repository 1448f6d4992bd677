package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Giri-Aayush/sui-faucet-console/internal/api"
	"github.com/Giri-Aayush/sui-faucet-console/internal/config"
	"github.com/Giri-Aayush/sui-faucet-console/internal/dashboard"
	"github.com/Giri-Aayush/sui-faucet-console/internal/metrics"
	"github.com/Giri-Aayush/sui-faucet-console/internal/session"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/client"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting SUI Faucet Dashboard",
		zap.String("api", cfg.APIBaseURL),
		zap.String("port", cfg.DashboardPort),
		zap.String("token_store", cfg.TokenStore),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Session
	store, closeStore, err := session.OpenStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open token store", zap.Error(err))
	}
	defer closeStore()

	sess, err := session.New(ctx, store, logger)
	if err != nil {
		logger.Fatal("Failed to restore session", zap.Error(err))
	}
	logger.Info("Session ready", zap.Bool("authenticated", sess.HasToken()))

	// API client and feeds
	c := client.NewFromConfig(cfg, sess, logger, m)

	feedOpts := dashboard.FeedOptions{
		Days:         cfg.AnalyticsDays,
		TopLimit:     cfg.TopLimit,
		HistoryLimit: cfg.HistoryLimit,
		Interval:     cfg.PollInterval,
		Logger:       logger,
		Metrics:      m,
	}
	stats := dashboard.NewStatsFeed(c.Analytics, feedOpts)
	analytics := dashboard.NewAnalyticsFeed(c.Analytics, sess, feedOpts)
	editor := dashboard.NewSettingsEditor(c.System, logger)

	stats.Start(ctx)
	defer stats.Stop()
	analytics.Start(ctx)
	defer analytics.Stop()

	// HTTP server
	app := api.NewApp()
	api.SetupRoutes(app, api.NewHandler(cfg, logger, c, stats, analytics, editor), reg)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.DashboardPort)
		logger.Info("Server starting", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
