package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Authenticator,TokenService,RevocationStore,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"huduma/internal/auth/models"
	"huduma/internal/auth/service/mocks"
	"huduma/internal/auth/store/revocation"
	"huduma/internal/auth/token"
	identity "huduma/internal/identity/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
)

// Token flows run against the real JWT service and in-memory revocation
// list; only the identity lookup is mocked.

type AuthServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	users     *mocks.MockAuthenticator
	mockAudit *mocks.MockAuditPublisher
	jwt       *token.JWTService
	revoked   *revocation.InMemory
	service   *Service
	ctx       context.Context
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockAuthenticator(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.jwt = token.NewJWTService("k", "huduma", "huduma-api", 30*time.Minute, 24*time.Hour)
	s.revoked = revocation.NewInMemory()

	var err error
	s.service, err = New(s.users, s.jwt, s.revoked,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.mockAudit),
	)
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *AuthServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthServiceSuite) user(role id.Role) *identity.User {
	return &identity.User{ID: id.NewUserID(), Email: "u@example.com", Role: role, IsActive: true}
}

func (s *AuthServiceSuite) TestNew() {
	_, err := New(nil, s.jwt, s.revoked)
	s.ErrorContains(err, "authenticator is required")
	_, err = New(s.users, nil, s.revoked)
	s.ErrorContains(err, "token service is required")
	_, err = New(s.users, s.jwt, nil)
	s.ErrorContains(err, "revocation store is required")
}

func (s *AuthServiceSuite) TestLogin() {
	s.Run("any role receives a pair", func() {
		u := s.user(id.RoleCitizen)
		s.users.EXPECT().Authenticate(gomock.Any(), "u@example.com", "pw").Return(u, nil)

		pair, err := s.service.Login(s.ctx, "u@example.com", "pw")
		s.Require().NoError(err)
		got, err := s.jwt.ValidateAccessToken(pair.Access)
		s.Require().NoError(err)
		s.Equal(u.ID, got)
	})

	s.Run("authentication failure passes through", func() {
		s.users.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "No active account found with the given credentials"))

		_, err := s.service.Login(s.ctx, "u@example.com", "bad")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthServiceSuite) TestOfficerLogin() {
	s.Run("citizen is refused", func() {
		s.users.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.user(id.RoleCitizen), nil)

		_, err := s.service.OfficerLogin(s.ctx, "u@example.com", "pw")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.EqualError(err, "Not authorized as officer.")
	})

	for _, role := range []id.Role{id.RoleOfficer, id.RoleAdmin} {
		s.Run(role.String()+" is admitted", func() {
			s.users.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.user(role), nil)

			pair, err := s.service.OfficerLogin(s.ctx, "u@example.com", "pw")
			s.Require().NoError(err)
			s.NotEmpty(pair.Refresh)
		})
	}
}

func (s *AuthServiceSuite) TestRefresh() {
	u := s.user(id.RoleOfficer)
	pair, err := s.jwt.IssuePair(u.ID, u.Role)
	s.Require().NoError(err)

	s.Run("live refresh token yields an access token with the current role", func() {
		s.users.EXPECT().ResolveRole(gomock.Any(), u.ID).Return(id.RoleAdmin, nil)

		out, err := s.service.Refresh(s.ctx, models.RefreshRequest{Refresh: pair.Refresh})
		s.Require().NoError(err)
		claims, err := s.jwt.ValidateTyped(out.Access, token.TypeAccess)
		s.Require().NoError(err)
		s.Equal("admin", claims.Role)
	})

	s.Run("access token cannot refresh", func() {
		_, err := s.service.Refresh(s.ctx, models.RefreshRequest{Refresh: pair.Access})
		s.EqualError(err, "Token is invalid or expired")
	})

	s.Run("missing token is a field error", func() {
		_, err := s.service.Refresh(s.ctx, models.RefreshRequest{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("deactivated user cannot refresh", func() {
		s.users.EXPECT().ResolveRole(gomock.Any(), u.ID).Return(id.Role(""), dErrors.New(dErrors.CodeUnauthorized, "User is inactive"))

		_, err := s.service.Refresh(s.ctx, models.RefreshRequest{Refresh: pair.Refresh})
		s.EqualError(err, "Token is invalid or expired")
	})
}

func (s *AuthServiceSuite) TestLogout() {
	u := s.user(id.RoleCitizen)
	pair, err := s.jwt.IssuePair(u.ID, u.Role)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(s.ctx, models.RefreshRequest{Refresh: pair.Refresh}))

	_, err = s.service.Refresh(s.ctx, models.RefreshRequest{Refresh: pair.Refresh})
	s.EqualError(err, "Token is invalid or expired")

	err = s.service.Logout(s.ctx, models.RefreshRequest{Refresh: pair.Refresh})
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *AuthServiceSuite) TestRevocationOutageFailsClosed() {
	revoked := mocks.NewMockRevocationStore(s.ctrl)
	svc, err := New(s.users, s.jwt, revoked, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)
	pair, err := s.jwt.IssuePair(id.NewUserID(), id.RoleCitizen)
	s.Require().NoError(err)

	revoked.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, errors.New("redis down"))

	_, err = svc.Refresh(s.ctx, models.RefreshRequest{Refresh: pair.Refresh})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
