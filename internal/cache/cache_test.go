package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestConnect_NoAddress(t *testing.T) {
	assert.Nil(t, Connect(context.Background(), "", "", 0))
}

func TestUserKey(t *testing.T) {
	id := uuid.MustParse("8b1f7c0e-2f8e-4a8e-9c55-0c1a3f6f0d11")
	assert.Equal(t, "caixa:user:8b1f7c0e-2f8e-4a8e-9c55-0c1a3f6f0d11", userKey(id))
}

func TestUsers_Unreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer rdb.Close()

	c := NewUsers(rdb, time.Minute)

	u, err := c.GetUser(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Nil(t, u)
}
