package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kurasimap/KurasiMap/internal/pkg/env"
	"github.com/redis/go-redis/v9"
)

var (
	client    *redis.Client
	setupOnce sync.Once
	ctx       = context.Background()
)

// SetupCache initializes the connection to the Redis cache server. Safe to
// call from concurrent lazy paths; only the first call connects.
func SetupCache() {
	setupOnce.Do(connect)
}

func connect() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0, // use default DB
	})

	// Test the connection
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to cache: %v", err)
	} else {
		log.Printf("Successfully connected to cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	SetupCache()
	return client
}

// Set stores a value in the cache with the given key and expiration time
func Set(key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// Delete removes a value from the cache by key
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}
