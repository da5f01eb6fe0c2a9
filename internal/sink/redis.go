package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis sink. At least one of Channel and List
// must be set.
type RedisConfig struct {
	URL     string
	Channel string // PUBLISH target
	List    string // LPUSH target, for consumers that poll with BRPOP
}

// Redis publishes confirmations as JSON to a pub/sub channel, a list, or both.
type Redis struct {
	client  *redis.Client
	channel string
	list    string
}

// NewRedis connects to Redis and checks the connection with PING.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	s, err := newRedis(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return s, nil
}

func newRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}
	if cfg.Channel == "" && cfg.List == "" {
		return nil, fmt.Errorf("redis sink needs a channel or a list")
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &Redis{
		client:  redis.NewClient(opt),
		channel: cfg.Channel,
		list:    cfg.List,
	}, nil
}

// Publish sends c to the configured channel and list.
func (s *Redis) Publish(ctx context.Context, c Confirmation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation: %w", err)
	}

	if s.channel != "" {
		if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", s.channel, err)
		}
	}
	if s.list != "" {
		if err := s.client.LPush(ctx, s.list, data).Err(); err != nil {
			return fmt.Errorf("failed to push to %s: %w", s.list, err)
		}
	}
	return nil
}

// Close closes the Redis client.
func (s *Redis) Close() error {
	return s.client.Close()
}
