package utils

import (
	"context"
	"log"
	"time"

	"gigmatch/config"

	"github.com/go-redis/redis/v8"
)

// PresenceClient backs the presence store: heartbeat records and the heartbeat index.
var PresenceClient *redis.Client

// InitPresenceCache connects to REDIS_ADDR/REDIS_PRESENCE_DB. Socket timeouts
// follow STORE_TIMEOUT so a hung Redis surfaces as a dependency failure.
func InitPresenceCache() {
	PresenceClient = redis.NewClient(&redis.Options{
		Addr:         config.AppConfig.RedisAddr,
		Password:     config.AppConfig.RedisPassword,
		DB:           config.AppConfig.RedisPresenceDB,
		DialTimeout:  config.AppConfig.StoreTimeout,
		ReadTimeout:  config.AppConfig.StoreTimeout,
		WriteTimeout: config.AppConfig.StoreTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := PresenceClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis (Presence) at %s: %v", config.AppConfig.RedisAddr, err)
	}
}

// GetPresenceClient returns the presence client, connecting on first use.
func GetPresenceClient() *redis.Client {
	if PresenceClient == nil {
		InitPresenceCache()
	}
	return PresenceClient
}
