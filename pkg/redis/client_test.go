package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestIsNilError(t *testing.T) {
	if !IsNilError(redis.Nil) {
		t.Fatal("redis.Nil not recognized")
	}
	if !IsNilError(fmt.Errorf("get: %w", redis.Nil)) {
		t.Fatal("wrapped redis.Nil not recognized")
	}
	if IsNilError(errors.New("connection refused")) || IsNilError(nil) {
		t.Fatal("false positive")
	}
}

func TestNewClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := NewClient(ctx,
		config.RedisConfig{Addr: "127.0.0.1:1", PoolSize: 1},
		config.RetryConfig{MaxAttempts: 1},
	)
	if err == nil {
		t.Fatal("expected an error connecting to a closed port")
	}
}
