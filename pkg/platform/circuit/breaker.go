// Package circuit wraps sony/gobreaker with the project's defaults so
// callers to remote stores fail fast while the backend is down.
package circuit

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"huduma/pkg/platform/sentinel"
)

type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

type Option func(*gobreaker.Settings)

// WithFailureThreshold opens the circuit after n consecutive failures.
func WithFailureThreshold(n uint32) Option {
	return func(s *gobreaker.Settings) {
		s.ReadyToTrip = func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= n
		}
	}
}

// WithOpenTimeout sets how long the circuit stays open before probing.
func WithOpenTimeout(d time.Duration) Option {
	return func(s *gobreaker.Settings) {
		s.Timeout = d
	}
}

// WithStateChange registers a callback for state transitions.
func WithStateChange(fn func(name string, from, to string)) Option {
	return func(s *gobreaker.Settings) {
		s.OnStateChange = func(name string, from, to gobreaker.State) {
			fn(name, from.String(), to.String())
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Do runs fn through the breaker. When the circuit is open fn is skipped
// and the returned error wraps sentinel.ErrUnavailable.
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", b.cb.Name(), sentinel.ErrUnavailable)
	}
	return err
}

func (b *Breaker) IsOpen() bool { return b.cb.State() == gobreaker.StateOpen }

func (b *Breaker) Name() string { return b.cb.Name() }
