package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus represents current status of the presence and booking stores.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every store answered the last probe.
func (h HealthStatus) Healthy() bool {
	return h.Mongo && h.Redis
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func setHealthStatus(h HealthStatus) {
	mu.Lock()
	currentHealth = h
	mu.Unlock()
}

// StartHealthMonitor probes Mongo and Redis once immediately and then every interval
// until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, interval time.Duration, redisClient *redis.Client, mongoClient *mongo.Client, logger *zap.Logger) {
	probe := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		status := HealthStatus{
			Redis:     redisClient.Ping(pingCtx).Err() == nil,
			Mongo:     mongoClient.Ping(pingCtx, nil) == nil,
			CheckedAt: time.Now().UTC(),
		}
		if !status.Healthy() {
			logger.Warn("health probe failed", zap.Bool("mongo", status.Mongo), zap.Bool("redis", status.Redis))
		}
		setHealthStatus(status)
	}

	go func() {
		probe()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probe()
			}
		}
	}()
}
