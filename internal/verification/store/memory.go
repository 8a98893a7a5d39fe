// Package store persists verification requests.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
	"huduma/pkg/platform/sentinel"
)

// InMemory keeps requests in a map guarded by a RWMutex. RunInTx
// serializes units of work and undoes the writes made through its context
// when the callback fails. Writes made outside the transaction are kept.
type InMemory struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	requests map[id.RequestID]*models.Request
}

func NewInMemory() *InMemory {
	return &InMemory{requests: make(map[id.RequestID]*models.Request)}
}

type undoKey struct{}

// undoLog records, per request, the value held before the transaction first
// wrote it. A nil entry means the request did not exist.
type undoLog map[id.RequestID]*models.Request

// RunInTx runs fn and discards every write it made if fn returns an error.
// It is not re-entrant.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, undo)); err != nil {
		s.mu.Lock()
		for requestID, prev := range undo {
			if prev == nil {
				delete(s.requests, requestID)
			} else {
				s.requests[requestID] = prev
			}
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// record saves the current value of requestID into the transaction's undo
// log. Callers hold s.mu.
func (s *InMemory) record(ctx context.Context, requestID id.RequestID) {
	undo, ok := ctx.Value(undoKey{}).(undoLog)
	if !ok {
		return
	}
	if _, seen := undo[requestID]; seen {
		return
	}
	undo[requestID] = s.requests[requestID]
}

func clone(r *models.Request) *models.Request {
	out := *r
	out.Metadata = r.Metadata.Clone()
	if r.DecidedBy != nil {
		by := *r.DecidedBy
		out.DecidedBy = &by
	}
	if r.DecidedAt != nil {
		at := *r.DecidedAt
		out.DecidedAt = &at
	}
	return &out
}

func (s *InMemory) Create(ctx context.Context, r *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[r.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.record(ctx, r.ID)
	s.requests[r.ID] = clone(r)
	return nil
}

// Update replaces the stored request. The last writer wins.
func (s *InMemory) Update(ctx context.Context, r *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.record(ctx, r.ID)
	s.requests[r.ID] = clone(r)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, requestID id.RequestID) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(r), nil
}

func (s *InMemory) ListByCitizen(_ context.Context, citizenID id.UserID) ([]*models.Request, error) {
	return s.list(func(r *models.Request) bool { return r.CitizenID == citizenID }), nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.Request, error) {
	return s.list(func(r *models.Request) bool { return r.Status == status }), nil
}

func (s *InMemory) CountByStatus(_ context.Context, status models.Status) (int, error) {
	return len(s.list(func(r *models.Request) bool { return r.Status == status })), nil
}

// CountDecided counts requests currently in status whose decision falls in
// [from, to).
func (s *InMemory) CountDecided(_ context.Context, status models.Status, from, to time.Time) (int, error) {
	return len(s.list(func(r *models.Request) bool {
		return r.Status == status && r.DecidedOn(from, to)
	})), nil
}

// list returns matching requests newest first.
func (s *InMemory) list(match func(*models.Request) bool) []*models.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Request, 0)
	for _, r := range s.requests {
		if match(r) {
			out = append(out, clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
