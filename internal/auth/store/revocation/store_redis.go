package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"huduma/pkg/platform/circuit"
)

// RedisStore keeps revoked token ids in Redis with the token's remaining
// lifetime as TTL, so entries vanish once the token could no longer be
// used anyway. Calls go through a circuit breaker.
type RedisStore struct {
	client  *redis.Client
	breaker *circuit.Breaker
	latency prometheus.Observer
}

type RedisOption func(*RedisStore)

func WithBreaker(b *circuit.Breaker) RedisOption {
	return func(s *RedisStore) {
		s.breaker = b
	}
}

// WithLatency observes IsRevoked latency in seconds.
func WithLatency(o prometheus.Observer) RedisOption {
	return func(s *RedisStore) {
		s.latency = o
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:  client,
		breaker: circuit.New("revocation-redis"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	key, skip, err := entry(jti, ttl)
	if skip || err != nil {
		return err
	}
	return s.breaker.Do(func() error {
		return s.client.Set(ctx, key, "1", ttl).Err()
	})
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	start := time.Now()
	defer func() {
		if s.latency != nil {
			s.latency.Observe(time.Since(start).Seconds())
		}
	}()

	var revoked bool
	err := s.breaker.Do(func() error {
		_, err := s.client.Get(ctx, keyPrefix+jti).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		revoked = true
		return nil
	})
	return revoked, err
}
