//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	identitymodels "huduma/internal/identity/models"
	identitystore "huduma/internal/identity/store"
	"huduma/internal/verification/models"
	"huduma/internal/verification/store"
	id "huduma/pkg/domain"
	"huduma/pkg/platform/sentinel"
	"huduma/pkg/testutil/containers"
)

type PostgresRequestStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	users    *identitystore.PostgresStore
	citizen  id.UserID
	officer  id.UserID
}

func TestPostgresRequestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRequestStoreSuite))
}

func (s *PostgresRequestStoreSuite) SetupSuite() {
	s.postgres = containers.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.users = identitystore.NewPostgres(s.postgres.DB)
}

func (s *PostgresRequestStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "verification_requests", "users"))
	s.citizen = s.createUser("asha@example.com", id.RoleCitizen)
	s.officer = s.createUser("officer@example.com", id.RoleOfficer)
}

func (s *PostgresRequestStoreSuite) createUser(email string, role id.Role) id.UserID {
	u, err := identitymodels.NewUser(id.NewUserID(), email, "Asha Mwita", role, "hash", now())
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(context.Background(), u))
	return u.ID
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresRequestStoreSuite) newRequest(created time.Time) *models.Request {
	return &models.Request{
		ID:        id.NewRequestID(),
		CitizenID: s.citizen,
		Type:      models.TypeNIDA,
		Purpose:   "national id",
		Metadata:  models.Metadata{"ward": "mwigobero", "house_no": float64(17), "urgent": true, "note": nil},
		Urgency:   models.UrgencyUrgent,
		Status:    models.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func (s *PostgresRequestStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	r := s.newRequest(now())
	s.Require().NoError(s.store.Create(ctx, r))

	found, err := s.store.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(r.Metadata, found.Metadata)
	s.Equal(models.UrgencyUrgent, found.Urgency)
	s.Nil(found.DecidedBy)
	s.Nil(found.DecidedAt)
	s.True(r.CreatedAt.Equal(found.CreatedAt))

	_, err = s.store.FindByID(ctx, id.NewRequestID())
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresRequestStoreSuite) TestDecisionPersists() {
	ctx := context.Background()
	r := s.newRequest(now())
	s.Require().NoError(s.store.Create(ctx, r))

	r.Reject(s.officer, "", now())
	s.Require().NoError(s.store.Update(ctx, r))

	found, err := s.store.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, found.Status)
	s.Equal(models.DefaultRejectionReason, found.RejectionReason)
	s.Require().NotNil(found.DecidedBy)
	s.Equal(s.officer, *found.DecidedBy)

	s.Require().NoError(found.Reopen(now()))
	s.Require().NoError(s.store.Update(ctx, found))
	reopened, err := s.store.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Nil(reopened.DecidedBy)
	s.Empty(reopened.RejectionReason)
}

func (s *PostgresRequestStoreSuite) TestListAndCount() {
	ctx := context.Background()
	t0 := now()
	older := s.newRequest(t0.Add(-time.Hour))
	newer := s.newRequest(t0)
	s.Require().NoError(s.store.Create(ctx, older))
	s.Require().NoError(s.store.Create(ctx, newer))

	mine, err := s.store.ListByCitizen(ctx, s.citizen)
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal(newer.ID, mine[0].ID)

	newer.Approve(s.officer, t0)
	s.Require().NoError(s.store.Update(ctx, newer))

	approved, err := s.store.ListByStatus(ctx, models.StatusApproved)
	s.Require().NoError(err)
	s.Len(approved, 1)

	n, err := s.store.CountDecided(ctx, models.StatusApproved, t0.Add(-time.Minute), t0.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.store.CountByStatus(ctx, models.StatusPending)
	s.Require().NoError(err)
	s.Equal(1, n)
}
