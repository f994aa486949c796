package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a limiter backed by Redis, so limits hold across instances.
// Counters use INCR with an expiry set on the first hit of a window.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures the Redis limiter.
type RedisOption func(*Redis)

// WithPrefix namespaces all limiter keys ("<prefix>:<key>").
// Defaults to "limiter".
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRedis creates a Redis-backed limiter.
//
// Example:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	lim := limiter.NewRedis(client, limiter.WithPrefix("throttle"))
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "limiter"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) TooManyAttempts(ctx context.Context, key string, maxAttempts int) (bool, error) {
	n, err := r.attempts(ctx, key)
	if err != nil {
		return false, err
	}
	return n >= int64(maxAttempts), nil
}

func (r *Redis) Hit(ctx context.Context, key string, decay time.Duration) error {
	k := r.key(key)

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return err
	}

	// First hit of the window starts the decay timer.
	if n == 1 {
		return r.client.Expire(ctx, k, decay).Err()
	}
	return nil
}

func (r *Redis) Remaining(ctx context.Context, key string, maxAttempts int) (int, error) {
	n, err := r.attempts(ctx, key)
	if err != nil {
		return 0, err
	}
	return max(maxAttempts-int(n), 0), nil
}

func (r *Redis) AvailableIn(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, r.key(key)).Result()
	if err != nil {
		return 0, err
	}
	return max(ttl, 0), nil
}

func (r *Redis) AvailableAt(ctx context.Context, key string) (int64, error) {
	ttl, err := r.AvailableIn(ctx, key)
	if err != nil || ttl == 0 {
		return 0, err
	}
	return time.Now().Add(ttl).Unix(), nil
}

func (r *Redis) Clear(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *Redis) attempts(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, r.key(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func (r *Redis) key(key string) string {
	return r.prefix + ":" + key
}

var _ Limiter = (*Redis)(nil)
