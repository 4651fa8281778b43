// Package decision implements the gate's decision cache on top of Redis,
// with an in-memory variant for tests and cacheless deployments.
package decision

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"steamgate/pkg/platform/sentinel"
)

var cacheOpDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "steamgate_cache_op_duration_ms",
	Help:    "Latency of decision cache operations in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
}, []string{"op"})

// Redis is the production cache implementation for distributed deployments
// where multiple instances share decision and flag state.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed decision cache. The client lifecycle is
// managed by the caller.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns the value at key, or sentinel.ErrNotFound when the key is
// absent or expired.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	defer func() {
		cacheOpDurationMs.WithLabelValues("get").Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores value at key. A zero ttl stores without expiry; redis treats
// zero expiration as "keep forever", which matches the flag-key contract for
// warn-interval "never".
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	start := time.Now()
	defer func() {
		cacheOpDurationMs.WithLabelValues("set").Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	return r.client.Set(ctx, key, value, ttl).Err()
}
