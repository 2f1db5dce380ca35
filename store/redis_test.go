package store

import (
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Runs against a real server, e.g. GUINOTE_TEST_REDIS=localhost:6379
func TestRedisGameStore(t *testing.T) {
	addr := os.Getenv("GUINOTE_TEST_REDIS")
	if addr == "" {
		t.Skip("GUINOTE_TEST_REDIS not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	testGameStore(t, NewRedisGameStore(rdb, zap.NewNop()))
}
