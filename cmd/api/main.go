package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/previsao/internal/config"
	"github.com/MrJamesThe3rd/previsao/internal/events"
	previsaoHttp "github.com/MrJamesThe3rd/previsao/internal/http"
	ledgerHandler "github.com/MrJamesThe3rd/previsao/internal/http/ledger"
	projectionHandler "github.com/MrJamesThe3rd/previsao/internal/http/projection"
	"github.com/MrJamesThe3rd/previsao/internal/ledger"
	"github.com/MrJamesThe3rd/previsao/internal/ledger/store"
	"github.com/MrJamesThe3rd/previsao/internal/projection"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	repo, closeStore, err := store.Open(cfg)
	if err != nil {
		slog.Error("failed to open settings store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	bus := events.NewBus()

	if cfg.AMQP.URL != "" {
		bridge, err := events.DialAMQPBridge(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Error("failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer bridge.Close()

		bus.Subscribe(bridge.Handler())
		slog.Info("forwarding events", "exchange", cfg.AMQP.Exchange)
	}

	ledgerService := ledger.NewService(repo, bus)
	if err := ledgerService.Load(context.Background()); err != nil {
		slog.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	opts := []projection.Option{
		projection.WithSettleDelay(cfg.Projection.SettleDelay),
		projection.WithFallbackPayday(cfg.Projection.Payday),
	}

	if cfg.Projection.StrictGoals {
		opts = append(opts, projection.WithMatcher(projection.MatchOwner))
	}

	assembler := projection.NewAssembler(ledgerService, opts...)

	router := previsaoHttp.New(
		previsaoHttp.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, JWTSecret: cfg.Auth.JWTSecret},
		projectionHandler.NewHandler(assembler),
		ledgerHandler.NewHandler(ledgerService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
