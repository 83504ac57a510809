package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"job-research/internal/config"
	"job-research/internal/logging"
)

// RedisClient wraps the Redis client used to broadcast research completion events
type RedisClient struct {
	client  *redis.Client
	channel string
	logger  logging.Logger
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	timeout := cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return &RedisClient{
		client:  redis.NewClient(opts),
		channel: cfg.Redis.Channel,
		logger:  logging.GetGlobalLogger(),
	}, nil
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Channel returns the pub/sub channel events are published to
func (r *RedisClient) Channel() string {
	return r.channel
}

// PublishJSON marshals payload and publishes it on the configured channel
func (r *RedisClient) PublishJSON(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	receivers, err := r.client.Publish(ctx, r.channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", r.channel, err)
	}

	r.logger.Debug("Published research event", map[string]interface{}{
		"channel":   r.channel,
		"receivers": receivers,
	})
	return nil
}

// IsHealthy checks if Redis is connected and healthy
func (r *RedisClient) IsHealthy(ctx context.Context) error {
	return r.Ping(ctx)
}
