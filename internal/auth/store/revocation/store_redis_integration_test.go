//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"huduma/pkg/platform/circuit"
	"huduma/pkg/platform/sentinel"
	"huduma/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	store *RedisStore
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	client := containers.NewRedis(s.T())
	s.store = NewRedis(client)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) TestRevokeRoundTrip() {
	s.Require().NoError(s.store.Revoke(s.ctx, "jti-redis", time.Minute))

	revoked, err := s.store.IsRevoked(s.ctx, "jti-redis")
	s.Require().NoError(err)
	s.True(revoked)

	revoked, err = s.store.IsRevoked(s.ctx, "jti-other")
	s.Require().NoError(err)
	s.False(revoked)
}

func (s *RedisStoreSuite) TestEntriesExpire() {
	s.Require().NoError(s.store.Revoke(s.ctx, "jti-short", 1100*time.Millisecond))
	s.Eventually(func() bool {
		revoked, err := s.store.IsRevoked(s.ctx, "jti-short")
		return err == nil && !revoked
	}, 5*time.Second, 200*time.Millisecond)
}

func (s *RedisStoreSuite) TestBreakerOpensWhenRedisIsGone() {
	client := containers.NewRedis(s.T())
	store := NewRedis(client, WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2))))
	s.Require().NoError(client.Close())

	for i := 0; i < 2; i++ {
		_, err := store.IsRevoked(s.ctx, "jti")
		s.Error(err)
	}
	_, err := store.IsRevoked(s.ctx, "jti")
	s.ErrorIs(err, sentinel.ErrUnavailable)
}
