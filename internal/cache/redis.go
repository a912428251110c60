package cache

import (
	"context"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Cache keys for the hot read paths.
const (
	TablesListKey   = "tables:list"
	AccountsListKey = "accounts:list"
	RevenueKeyFmt   = "revenue:"
)

var (
	client *redis.Client
	locker *redislock.Client
)

// Init initializes the Redis connection. The cache is optional: when redis
// is unreachable the client stays nil and every helper degrades to a no-op.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	locker = redislock.New(client)
	return nil
}

// Locker returns the distributed lock client, or nil when redis is down;
// the day-close falls back to a process-local mutex in that case.
func Locker() *redislock.Client {
	return locker
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidatePattern removes all keys matching a glob pattern. Uses SCAN so
// a large revenue history never blocks the Redis event loop.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateTableCaches clears table-related caches.
// Called on every table mutation and on day close.
func InvalidateTableCaches(ctx context.Context) {
	InvalidateKeys(ctx, TablesListKey)
}

// InvalidateAccountCaches clears room-account caches.
func InvalidateAccountCaches(ctx context.Context) {
	InvalidateKeys(ctx, AccountsListKey)
}

// InvalidateRevenueCaches clears daily revenue caches.
func InvalidateRevenueCaches(ctx context.Context) {
	InvalidatePattern(ctx, RevenueKeyFmt+"*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
