// Package server initializes and runs the Gramola application server.
// It wires the repositories, the payment verifier, the geocoder, the
// mailer and the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gramolapp/gramola/internal/geo"
	"github.com/gramolapp/gramola/internal/logging"
	"github.com/gramolapp/gramola/internal/mail"
	"github.com/gramolapp/gramola/internal/server/config"
	"github.com/gramolapp/gramola/internal/server/httpapi"
	"github.com/gramolapp/gramola/internal/server/payments"
	"github.com/gramolapp/gramola/internal/server/repositories/repomanager"
	"github.com/gramolapp/gramola/internal/server/services"
	"github.com/gramolapp/gramola/internal/vault"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.Manager
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := newRepositoryManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	v := vault.New([]byte(cfg.VaultSecret))
	geocoder := geo.NewPhotonGeocoder(cfg.PhotonEndpoint, &http.Client{Timeout: 10 * time.Second})
	mailer := mail.NewSendGridMailer(cfg.SendGridAPIKey, "Gramola", cfg.EmailFrom)
	verifier := payments.NewVerifier(payments.NewStripeProcessor(cfg.StripeSecretKey))

	userService := services.NewUserService(repos, v, geocoder, mailer, logger, cfg)
	paymentService := services.NewPaymentService(repos, verifier, logger, cfg)

	srv := httpapi.NewServer(userService, paymentService, mailer, logger, cfg)

	return &App{config: cfg, logger: logger, repos: repos, server: srv}, nil
}

func newRepositoryManager(cfg *config.Config) (repomanager.Manager, error) {
	if cfg.DatabaseDSN == "inmemory" {
		return repomanager.NewInMemoryManager(), nil
	}
	return repomanager.NewPostgresManager(cfg.DatabaseDSN)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err.Error())
	}
	if err := app.repos.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err.Error())
	}

	return nil
}
