package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/rsvp/internal/blob"
	"github.com/dukerupert/rsvp/internal/config"
	"github.com/dukerupert/rsvp/internal/database"
	"github.com/dukerupert/rsvp/internal/email"
	"github.com/dukerupert/rsvp/internal/logging"
	"github.com/dukerupert/rsvp/internal/qrcode"
	"github.com/dukerupert/rsvp/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.IsProduction())

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	blobStore := blob.New(cfg.S3)
	if !blobStore.Configured() {
		logger.Warn("S3 storage not configured, image uploads are disabled")
	}
	emailClient := email.NewClient(cfg.PostmarkToken, cfg.FromEmail, cfg.BaseURL)
	if !emailClient.Configured() {
		logger.Warn("Postmark not configured, host tokens must be delivered by hand")
	}
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		logger.Warn("admin credentials not configured, admin login is disabled")
	}

	srv := server.New(db, server.Config{
		BaseURL:           cfg.BaseURL,
		SessionSecret:     cfg.SessionSecret,
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
		BlobStore:         blobStore,
		EmailClient:       emailClient,
		TrustedProxies:    cfg.TrustedProxies,
		QRClient:          qrcode.NewClient(cfg.QRAPIURL, qrcode.WithHTTPClient(&http.Client{Timeout: 10 * time.Second})),
	}, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("rsvp service starting", "addr", httpServer.Addr, "env", cfg.Environment, "base_url", cfg.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
