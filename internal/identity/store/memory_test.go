package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"huduma/internal/identity/models"
	id "huduma/pkg/domain"
	"huduma/pkg/platform/sentinel"
)

type IdentityStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *IdentityStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestIdentityStoreSuite(t *testing.T) {
	suite.Run(t, new(IdentityStoreSuite))
}

func (s *IdentityStoreSuite) newUser(email string, role id.Role) *models.User {
	u, err := models.NewUser(id.NewUserID(), email, "Test User", role, "hash", time.Now())
	s.Require().NoError(err)
	return u
}

func (s *IdentityStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds user by ID and email", func() {
		u := s.newUser("juma@musoma.go.tz", id.RoleCitizen)
		s.Require().NoError(s.store.Create(s.ctx, u))

		byID, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal(u.Email, byID.Email)

		byEmail, err := s.store.FindByEmail(s.ctx, u.Email)
		s.Require().NoError(err)
		s.Equal(u.ID, byEmail.ID)
	})

	s.Run("returns ErrNotFound for unknown user", func() {
		_, err := s.store.FindByID(s.ctx, id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindByEmail(s.ctx, "nobody@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned users are copies", func() {
		u := s.newUser("copy@example.com", id.RoleCitizen)
		s.Require().NoError(s.store.Create(s.ctx, u))
		found, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		found.FullName = "Mutated"

		again, err := s.store.FindByID(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal("Test User", again.FullName)
	})
}

func (s *IdentityStoreSuite) TestEmailUniqueness() {
	s.Run("rejects duplicate email on create", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newUser("dup@example.com", id.RoleCitizen)))
		err := s.store.Create(s.ctx, s.newUser("dup@example.com", id.RoleCitizen))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("rejects taking another user's email on update", func() {
		a := s.newUser("a@example.com", id.RoleCitizen)
		b := s.newUser("b@example.com", id.RoleCitizen)
		s.Require().NoError(s.store.Create(s.ctx, a))
		s.Require().NoError(s.store.Create(s.ctx, b))

		b.Email = "a@example.com"
		s.ErrorIs(s.store.Update(s.ctx, b), sentinel.ErrAlreadyUsed)
	})

	s.Run("update frees the old email", func() {
		u := s.newUser("old@example.com", id.RoleCitizen)
		s.Require().NoError(s.store.Create(s.ctx, u))
		u.Email = "new@example.com"
		s.Require().NoError(s.store.Update(s.ctx, u))

		_, err := s.store.FindByEmail(s.ctx, "old@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.Require().NoError(s.store.Create(s.ctx, s.newUser("old@example.com", id.RoleCitizen)))
	})
}

func (s *IdentityStoreSuite) TestRoleQueries() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("c1@example.com", id.RoleCitizen)))
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("c2@example.com", id.RoleCitizen)))
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("o1@example.com", id.RoleOfficer)))

	n, err := s.store.CountByRole(s.ctx, id.RoleCitizen)
	s.Require().NoError(err)
	s.Equal(2, n)

	officers, err := s.store.ListByRole(s.ctx, id.RoleOfficer)
	s.Require().NoError(err)
	s.Len(officers, 1)
}

func (s *IdentityStoreSuite) TestProfiles() {
	u := s.newUser("profile@example.com", id.RoleCitizen)
	s.Require().NoError(s.store.Create(s.ctx, u))

	s.Run("missing profile is not found", func() {
		_, err := s.store.FindCitizenProfile(s.ctx, u.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("save upserts", func() {
		p := models.DefaultCitizenProfile(u.ID, time.Now())
		s.Require().NoError(s.store.SaveCitizenProfile(s.ctx, p))
		p.Phone = "0755"
		s.Require().NoError(s.store.SaveCitizenProfile(s.ctx, p))

		found, err := s.store.FindCitizenProfile(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Equal("0755", found.Phone)

		bulk, err := s.store.FindCitizenProfiles(s.ctx, []id.UserID{u.ID, id.NewUserID()})
		s.Require().NoError(err)
		s.Len(bulk, 1)
	})

	s.Run("profile for unknown user is rejected", func() {
		err := s.store.SaveCitizenProfile(s.ctx, models.DefaultCitizenProfile(id.NewUserID(), time.Now()))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *IdentityStoreSuite) TestRunInTx() {
	s.Run("failure rolls back every write", func() {
		u := s.newUser("rollback@example.com", id.RoleCitizen)
		boom := errors.New("profile insert failed")

		err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
			s.Require().NoError(s.store.Create(ctx, u))
			return boom
		})
		s.ErrorIs(err, boom)

		_, err = s.store.FindByEmail(s.ctx, "rollback@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rollback keeps writes made outside the transaction", func() {
		inside := s.newUser("inside@example.com", id.RoleCitizen)
		outside := s.newUser("outside@example.com", id.RoleCitizen)
		boom := errors.New("audit down")

		err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
			s.Require().NoError(s.store.Create(ctx, inside))
			s.Require().NoError(s.store.SaveCitizenProfile(ctx, models.DefaultCitizenProfile(inside.ID, time.Now())))

			done := make(chan error, 1)
			go func() { done <- s.store.Create(s.ctx, outside) }()
			s.Require().NoError(<-done)
			return boom
		})
		s.ErrorIs(err, boom)

		found, err := s.store.FindByEmail(s.ctx, "outside@example.com")
		s.Require().NoError(err)
		s.Equal(outside.ID, found.ID)

		_, err = s.store.FindByID(s.ctx, inside.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindCitizenProfile(s.ctx, inside.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rolled back email change restores the old address", func() {
		u := s.newUser("before@example.com", id.RoleCitizen)
		s.Require().NoError(s.store.Create(s.ctx, u))
		boom := errors.New("audit down")

		err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
			changed := *u
			changed.Email = "after@example.com"
			s.Require().NoError(s.store.Update(ctx, &changed))
			return boom
		})
		s.ErrorIs(err, boom)

		found, err := s.store.FindByEmail(s.ctx, "before@example.com")
		s.Require().NoError(err)
		s.Equal(u.ID, found.ID)
		_, err = s.store.FindByEmail(s.ctx, "after@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("success commits", func() {
		u := s.newUser("commit@example.com", id.RoleCitizen)
		err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.store.Create(ctx, u); err != nil {
				return err
			}
			return s.store.SaveCitizenProfile(ctx, models.DefaultCitizenProfile(u.ID, time.Now()))
		})
		s.Require().NoError(err)
		_, err = s.store.FindCitizenProfile(s.ctx, u.ID)
		s.NoError(err)
	})
}
