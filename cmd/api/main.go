package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/safar/gymwear-api/internal/api"
	"github.com/safar/gymwear-api/internal/config"
	"github.com/safar/gymwear-api/internal/database"
	"github.com/safar/gymwear-api/internal/logger"
	"github.com/safar/gymwear-api/internal/notify"
	"github.com/safar/gymwear-api/internal/receipt"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New("gymwear-api", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info("connected to database")

	notifyCfg := notify.Config{
		ShopName:    cfg.Shop.Name,
		FromAddress: cfg.Shop.FromAddress,
		SMTP: notify.SMTPConfig{
			Host:     cfg.Shop.SMTPHost,
			Port:     cfg.Shop.SMTPPort,
			Username: cfg.Shop.SMTPUsername,
			Password: cfg.Shop.SMTPPassword,
		},
		HTTPAPI: notify.HTTPAPIConfig{
			Endpoint: cfg.Shop.EmailAPIEndpoint,
			APIKey:   cfg.Shop.EmailAPIKey,
			Timeout:  cfg.Shop.EmailAPITimeout,
		},
	}
	transport, err := notify.NewTransport(notifyCfg, log)
	if err != nil {
		return err
	}
	log.Info("email transport selected", slog.String("transport", transport.Name()))

	router := api.NewRouter(api.Deps{
		DB:       db,
		Receipts: receipt.NewGenerator(cfg.Shop.Name, log),
		Notifier: notify.NewDispatcher(notifyCfg, transport, log),
		Logger:   log,
		CORS: api.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxAge:         cfg.CORS.MaxAge,
		},
		RequestTimeout: cfg.Server.RequestTimeout,
		EmailLimiter:   rate.NewLimiter(rate.Limit(cfg.Shop.EmailRateLimit), cfg.Shop.EmailRateBurst),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
