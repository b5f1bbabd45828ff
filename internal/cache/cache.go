package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/caixa/internal/auth"
)

// Connect returns a client for addr, or nil when addr is empty or the server
// does not answer. Callers treat a nil client as caching disabled.
func Connect(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		slog.Warn("REDIS_ADDR not set, user cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect to redis, user cache disabled", "addr", addr, "error", err)
		rdb.Close()

		return nil
	}

	slog.Info("connected to redis", "addr", addr)

	return rdb
}

type Users struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUsers(rdb *redis.Client, ttl time.Duration) *Users {
	return &Users{rdb: rdb, ttl: ttl}
}

func userKey(id uuid.UUID) string {
	return "caixa:user:" + id.String()
}

func (c *Users) GetUser(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	raw, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading cached user: %w", err)
	}

	var u auth.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decoding cached user: %w", err)
	}

	return &u, nil
}

func (c *Users) SetUser(ctx context.Context, u *auth.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	if err := c.rdb.Set(ctx, userKey(u.ID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching user: %w", err)
	}

	return nil
}
