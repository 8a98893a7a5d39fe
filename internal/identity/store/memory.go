// Package store persists accounts and profiles.
package store

import (
	"context"
	"sort"
	"sync"

	"huduma/internal/identity/models"
	id "huduma/pkg/domain"
	"huduma/pkg/platform/sentinel"
)

// InMemory keeps users and profiles in maps. RunInTx serializes units of
// work and, when the callback fails, undoes only the writes made through
// its context.
type InMemory struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	users    map[id.UserID]*models.User
	byEmail  map[string]id.UserID
	citizens map[id.UserID]*models.CitizenProfile
	officers map[id.UserID]*models.OfficerProfile
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:    make(map[id.UserID]*models.User),
		byEmail:  make(map[string]id.UserID),
		citizens: make(map[id.UserID]*models.CitizenProfile),
		officers: make(map[id.UserID]*models.OfficerProfile),
	}
}

type undoKey struct{}

// undoLog holds inverse operations in write order. They run under s.mu.
type undoLog struct {
	steps []func()
}

// RunInTx runs fn and rolls back every write it made if fn returns an error.
// It is not re-entrant.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	undo := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, undo)); err != nil {
		s.mu.Lock()
		for i := len(undo.steps) - 1; i >= 0; i-- {
			undo.steps[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// onRollback registers step when ctx belongs to a transaction. Callers hold s.mu.
func onRollback(ctx context.Context, step func()) {
	if undo, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		undo.steps = append(undo.steps, step)
	}
}

func (s *InMemory) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[user.Email]; taken {
		return sentinel.ErrAlreadyUsed
	}
	userID, email := user.ID, user.Email
	onRollback(ctx, func() {
		delete(s.users, userID)
		delete(s.byEmail, email)
	})
	u := *user
	s.users[user.ID] = &u
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemory) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[user.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if owner, taken := s.byEmail[user.Email]; taken && owner != user.ID {
		return sentinel.ErrAlreadyUsed
	}
	newEmail := user.Email
	onRollback(ctx, func() {
		delete(s.byEmail, newEmail)
		s.users[existing.ID] = existing
		s.byEmail[existing.Email] = existing.ID
	})
	delete(s.byEmail, existing.Email)
	u := *user
	s.users[user.ID] = &u
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.users[userID]
	return &out, nil
}

// ListByRole returns users with role, newest first.
func (s *InMemory) ListByRole(_ context.Context, role id.Role) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.User
	for _, u := range s.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateJoined.After(out[j].DateJoined)
	})
	return out, nil
}

func (s *InMemory) CountByRole(_ context.Context, role id.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) SaveCitizenProfile(ctx context.Context, p *models.CitizenProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		return sentinel.ErrNotFound
	}
	userID := p.UserID
	prev, had := s.citizens[userID]
	onRollback(ctx, func() {
		if had {
			s.citizens[userID] = prev
		} else {
			delete(s.citizens, userID)
		}
	})
	cp := *p
	s.citizens[p.UserID] = &cp
	return nil
}

func (s *InMemory) FindCitizenProfile(_ context.Context, userID id.UserID) (*models.CitizenProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.citizens[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *p
	return &out, nil
}

// FindCitizenProfiles returns the profiles that exist for userIDs. Users
// without a profile are absent from the map.
func (s *InMemory) FindCitizenProfiles(_ context.Context, userIDs []id.UserID) (map[id.UserID]*models.CitizenProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.UserID]*models.CitizenProfile, len(userIDs))
	for _, uid := range userIDs {
		if p, ok := s.citizens[uid]; ok {
			cp := *p
			out[uid] = &cp
		}
	}
	return out, nil
}

// FindUsers returns the users that exist for userIDs.
func (s *InMemory) FindUsers(_ context.Context, userIDs []id.UserID) (map[id.UserID]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.UserID]*models.User, len(userIDs))
	for _, uid := range userIDs {
		if u, ok := s.users[uid]; ok {
			cp := *u
			out[uid] = &cp
		}
	}
	return out, nil
}

func (s *InMemory) SaveOfficerProfile(ctx context.Context, p *models.OfficerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		return sentinel.ErrNotFound
	}
	userID := p.UserID
	prev, had := s.officers[userID]
	onRollback(ctx, func() {
		if had {
			s.officers[userID] = prev
		} else {
			delete(s.officers, userID)
		}
	})
	cp := *p
	s.officers[p.UserID] = &cp
	return nil
}

func (s *InMemory) FindOfficerProfile(_ context.Context, userID id.UserID) (*models.OfficerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.officers[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *p
	return &out, nil
}
