package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a JSON-valued cache. Get reports false on a miss.
type Store interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// New returns a Redis-backed store when client is non-nil, otherwise an in-process one.
func New(client *redis.Client) Store {
	if client == nil {
		return NewMemory()
	}
	return NewRedis(client)
}

// Key joins parts into a composite cache key.
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprintf("%v", p)
	}
	return strings.Join(s, "|")
}

// --- Memory ---

// Memory is a thread-safe TTL store using sync.Map.
type Memory struct {
	m sync.Map
}

// cacheItem holds an encoded value and its expiration time.
type cacheItem struct {
	Value     []byte
	ExpiresAt int64 // Unix timestamp in nanoseconds; 0 means no expiration
}

func NewMemory() *Memory {
	return &Memory{}
}

func (c *Memory) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	v, ok := c.m.Load(key)
	if !ok {
		return false, nil
	}
	item := v.(cacheItem)
	if item.ExpiresAt > 0 && time.Now().UnixNano() > item.ExpiresAt {
		c.m.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(item.Value, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key. A ttl of 0 never expires.
func (c *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: b, ExpiresAt: expiresAt})
	return nil
}

func (c *Memory) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.m.Delete(key)
	}
	return nil
}

// --- Redis ---

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (c *Redis) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

func (c *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
