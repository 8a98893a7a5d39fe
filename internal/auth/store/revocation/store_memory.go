package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemory is a process-local revocation list used when Redis is not
// configured.
type InMemory struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{expires: make(map[string]time.Time), now: time.Now}
}

func (s *InMemory) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	key, skip, err := entry(jti, ttl)
	if skip || err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[key] = s.now().Add(ttl)
	return nil
}

func (s *InMemory) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyPrefix + jti
	exp, ok := s.expires[key]
	if !ok {
		return false, nil
	}
	if !s.now().Before(exp) {
		delete(s.expires, key)
		return false, nil
	}
	return true, nil
}
