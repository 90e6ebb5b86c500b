package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedupe mirrors posted text hashes so co-deployed bot instances can share
// duplicate suppression. The JSON state file stays the source of truth; this
// is an optional extra gate.
type Dedupe interface {
	SeenText(ctx context.Context, hash string) (bool, error)
	MarkText(ctx context.Context, hash string, ttl time.Duration) error
	Close() error
}

type RedisDedupe struct {
	client *redis.Client
	prefix string
}

func NewRedisDedupe(url, prefix string) (*RedisDedupe, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDedupe{
		client: client,
		prefix: prefix,
	}, nil
}

func (r *RedisDedupe) Close() error {
	return r.client.Close()
}

func (r *RedisDedupe) SeenText(ctx context.Context, hash string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.prefix+hash).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return exists > 0, nil
}

func (r *RedisDedupe) MarkText(ctx context.Context, hash string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+hash, "1", ttl).Err()
}
