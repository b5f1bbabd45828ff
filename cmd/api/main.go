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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/caixa/internal/app"
	"github.com/MrJamesThe3rd/caixa/internal/cache"
	"github.com/MrJamesThe3rd/caixa/internal/config"
	caixaHttp "github.com/MrJamesThe3rd/caixa/internal/http"
	authHandler "github.com/MrJamesThe3rd/caixa/internal/http/auth"
	categoryHandler "github.com/MrJamesThe3rd/caixa/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/caixa/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/caixa/internal/http/importer"
	matchingHandler "github.com/MrJamesThe3rd/caixa/internal/http/matching"
	reportHandler "github.com/MrJamesThe3rd/caixa/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/caixa/internal/http/transaction"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app.InstallLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if rdb != nil {
		defer rdb.Close()
	}

	svc := app.NewServices(cfg, db, rdb)

	router := caixaHttp.New(caixaHttp.Handlers{
		Auth:         authHandler.NewHandler(svc.Auth),
		Transactions: txHandler.NewHandler(svc.Transactions),
		Categories:   categoryHandler.NewHandler(svc.Categories),
		Reports:      reportHandler.NewHandler(svc.Transactions, svc.Categories, cfg.TaxConfig()),
		Import:       importHandler.NewHandler(svc.Import, svc.Transactions, svc.Categories, svc.Matching, cfg.Server.MaxUploadSize),
		Rules:        matchingHandler.NewHandler(svc.Matching),
		Export:       exportHandler.NewHandler(svc.Export),
	}, cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down server")

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
