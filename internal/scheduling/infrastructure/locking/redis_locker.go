package locking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pipisou/garage/pkg/observability"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// RedisConfig tunes RedisLocker.
type RedisConfig struct {
	KeyPrefix     string
	TTL           time.Duration
	RetryInterval time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		KeyPrefix:     "garage:lock:mechanic:",
		TTL:           10 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}

// RedisLocker holds per-mechanic locks across instances with SET NX PX.
// A local InProcessLocker is taken first so goroutines of one process queue
// in memory instead of polling Redis.
type RedisLocker struct {
	client  *redis.Client
	local   *InProcessLocker
	config  RedisConfig
	logger  *slog.Logger
	metrics observability.Metrics
}

func NewRedisLocker(client *redis.Client, config RedisConfig, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultRedisConfig()
	if config.KeyPrefix == "" {
		config.KeyPrefix = defaults.KeyPrefix
	}
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = defaults.RetryInterval
	}
	return &RedisLocker{
		client:  client,
		local:   NewInProcessLocker(),
		config:  config,
		logger:  logger,
		metrics: observability.NoopMetrics{},
	}
}

// WithMetrics reports lock wait times to m.
func (l *RedisLocker) WithMetrics(m observability.Metrics) *RedisLocker {
	if m != nil {
		l.metrics = m
	}
	return l
}

func (l *RedisLocker) key(id uuid.UUID) string {
	return l.config.KeyPrefix + id.String()
}

// Lock acquires every mechanic in sorted order. The TTL bounds how long a
// crashed holder can block others; it must exceed the longest transaction.
func (l *RedisLocker) Lock(ctx context.Context, ids []uuid.UUID) (func(), error) {
	start := time.Now()
	releaseLocal, err := l.local.Lock(ctx, ids)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	var held []string
	for _, id := range sortedUnique(ids) {
		key := l.key(id)
		if err := l.acquire(ctx, key, token); err != nil {
			l.release(held, token)
			releaseLocal()
			return nil, err
		}
		held = append(held, key)
	}
	l.metrics.Timing(observability.MetricLockWait, time.Since(start))

	var once sync.Once
	return func() {
		once.Do(func() {
			l.release(held, token)
			releaseLocal()
		})
	}, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.config.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.config.TTL).Result()
		if err != nil {
			return fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("acquire %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) release(keys []string, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		err := releaseScript.Run(ctx, l.client, []string{keys[i]}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("failed to release mechanic lock", "key", keys[i], "error", err)
		}
	}
}
