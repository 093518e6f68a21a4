package session

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/MilchZocker/UCC-DreamPacket/internal/config"
	"github.com/MilchZocker/UCC-DreamPacket/internal/redis"
)

func newTestRedisStore(t *testing.T) (*RedisStore, func()) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis-backed session tests")
	}
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("atoi port: %v", err)
	}
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host: host,
			Port: port,
		},
	}
	client, err := redis.NewRedisClient(cfg)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	if raw := client.Raw(); raw != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := raw.FlushDB(ctx).Err(); err != nil {
			t.Fatalf("flush db: %v", err)
		}
	}
	return NewRedisStore(client), func() { client.Close() }
}

func TestRedisStore(t *testing.T) {
	store, cleanup := newTestRedisStore(t)
	defer cleanup()
	testStoreRoundTrip(t, store)
}
