package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the read facades.
const (
	CapacityListKey = "capacities:all"
	DayViewKeyFmt   = "orders:day:%s"
)

var client *redis.Client

// Init initializes the Redis connection. The cache degrades gracefully: every
// accessor is a no-op when no client is available.
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
	return nil
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

// Cache stores data under a key for 5 minutes
func Cache(ctx context.Context, key string, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, 5*time.Minute)
}

// DayViewKey builds the cache key for a day's order list
func DayViewKey(date string) string {
	return fmt.Sprintf(DayViewKeyFmt, date)
}

// InvalidateOrderViews clears all cached day views after an order mutation
func InvalidateOrderViews(ctx context.Context) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, "orders:day:*").Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateCapacityList clears the cached capacity list
func InvalidateCapacityList(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, CapacityListKey)
}
