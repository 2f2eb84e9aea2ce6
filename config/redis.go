package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is nil when REDIS_ADDR is unset or the server did not answer PingRedis.
var RedisClient *redis.Client

// InitRedis builds the client from REDIS_ADDR, REDIS_PASS and REDIS_DB.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	RedisClient = redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASS"),
		DB:          db,
		DialTimeout: 2 * time.Second,
	})
}

// PingRedis drops the client when the server is unreachable so callers fall back to memory.
func PingRedis(ctx context.Context) bool {
	if RedisClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient.Close()
		RedisClient = nil
		return false
	}
	return true
}
