// Package app wires configuration, storage and services shared by the binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
	authStore "github.com/MrJamesThe3rd/caixa/internal/auth/store"
	"github.com/MrJamesThe3rd/caixa/internal/cache"
	"github.com/MrJamesThe3rd/caixa/internal/category"
	categoryStore "github.com/MrJamesThe3rd/caixa/internal/category/store"
	"github.com/MrJamesThe3rd/caixa/internal/config"
	"github.com/MrJamesThe3rd/caixa/internal/database"
	"github.com/MrJamesThe3rd/caixa/internal/export"
	"github.com/MrJamesThe3rd/caixa/internal/importer"
	"github.com/MrJamesThe3rd/caixa/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/caixa/internal/matching/store"
	"github.com/MrJamesThe3rd/caixa/internal/transaction"
	txStore "github.com/MrJamesThe3rd/caixa/internal/transaction/store"
)

// NewLogger builds the default logger from LOG_FORMAT and LOG_LEVEL.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	if strings.EqualFold(cfg.App.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

type Services struct {
	Auth         *auth.Service
	Transactions *transaction.Service
	Categories   *category.Service
	Matching     *matching.Service
	Import       *importer.Service
	Export       *export.Service
}

func NewServices(cfg *config.Config, db *sql.DB, rdb *redis.Client) *Services {
	var userCache auth.Cache
	if rdb != nil {
		userCache = cache.NewUsers(rdb, cfg.Redis.UserTTL)
	}

	categories := category.NewService(categoryStore.New(db))
	transactions := transaction.NewService(txStore.New(db), categories)

	return &Services{
		Auth:         auth.NewService(authStore.New(db), userCache, auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), cfg.Auth.BcryptCost),
		Transactions: transactions,
		Categories:   categories,
		Matching:     matching.NewService(matchingStore.New(db)),
		Import:       importer.NewService(),
		Export:       export.NewService(transactions),
	}
}

// Open connects to Postgres, applying migrations first when enabled.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(cfg.ConnectionString()); err != nil {
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	return database.New(ctx, cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
}

// InstallLogger makes NewLogger's logger the slog default.
func InstallLogger(cfg *config.Config, w io.Writer) {
	slog.SetDefault(NewLogger(cfg, w))
}
