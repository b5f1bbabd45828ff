package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/caixa/internal/report"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Caixa"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"caixa"`
		SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
		AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	}

	Server struct {
		ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
		WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
		IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
		MaxUploadSize   int64         `envconfig:"MAX_UPLOAD_SIZE" default:"10485760"`
	}

	Auth struct {
		JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"720h"`
		BcryptCost int           `envconfig:"BCRYPT_COST" default:"12"`
	}

	Redis struct {
		Addr     string        `envconfig:"REDIS_ADDR" default:""`
		Password string        `envconfig:"REDIS_PASSWORD" default:""`
		DB       int           `envconfig:"REDIS_DB" default:"0"`
		UserTTL  time.Duration `envconfig:"USER_CACHE_TTL" default:"15m"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Tax struct {
		Regime         string          `envconfig:"TAX_REGIME" default:"simplified"`
		SimplifiedRate decimal.Decimal `envconfig:"TAX_SIMPLIFIED_RATE" default:"6"`
		PISCOFINS      decimal.Decimal `envconfig:"TAX_PIS_COFINS" default:"3.65"`
		ISS            decimal.Decimal `envconfig:"TAX_ISS" default:"5"`
		PresumedBase   decimal.Decimal `envconfig:"TAX_PRESUMED_BASE" default:"32"`
		IRPJ           decimal.Decimal `envconfig:"TAX_IRPJ" default:"15"`
		CSLL           decimal.Decimal `envconfig:"TAX_CSLL" default:"9"`
		Transition     bool            `envconfig:"TAX_TRANSITION" default:"false"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// TaxConfig returns the configured default rates used when a DRE request
// doesn't override them.
func (c *Config) TaxConfig() report.TaxConfig {
	return report.TaxConfig{
		Regime:         report.Regime(c.Tax.Regime),
		SimplifiedRate: c.Tax.SimplifiedRate,
		PISCOFINS:      c.Tax.PISCOFINS,
		ISS:            c.Tax.ISS,
		PresumedBase:   c.Tax.PresumedBase,
		IRPJ:           c.Tax.IRPJ,
		CSLL:           c.Tax.CSLL,
		Transition:     c.Tax.Transition,
	}
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if len(cfg.Auth.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if err := cfg.TaxConfig().Validate(); err != nil {
		return nil, fmt.Errorf("invalid tax config: %w", err)
	}

	return &cfg, nil
}
