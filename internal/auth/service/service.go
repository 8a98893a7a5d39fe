// Package service issues, renews and revokes API tokens.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"huduma/internal/auth/models"
	"huduma/internal/auth/token"
	identity "huduma/internal/identity/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/requestcontext"
)

const (
	msgNotOfficer   = "Not authorized as officer."
	msgTokenInvalid = "Token is invalid or expired"
)

// Authenticator checks credentials and reloads roles. Implemented by the
// identity service.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*identity.User, error)
	ResolveRole(ctx context.Context, userID id.UserID) (id.Role, error)
}

type TokenService interface {
	IssuePair(userID id.UserID, role id.Role) (token.Pair, error)
	GenerateAccessToken(userID id.UserID, role id.Role) (string, error)
	ValidateTyped(tokenString string, typ token.Type) (*token.Claims, error)
}

type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	users   Authenticator
	tokens  TokenService
	revoked RevocationStore
	logger  *slog.Logger
	auditor AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func New(users Authenticator, tokens TokenService, revoked RevocationStore, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("authenticator is required")
	}
	if tokens == nil {
		return nil, errors.New("token service is required")
	}
	if revoked == nil {
		return nil, errors.New("revocation store is required")
	}
	s := &Service{
		users:   users,
		tokens:  tokens,
		revoked: revoked,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login issues a token pair for any active account.
func (s *Service) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// OfficerLogin issues a token pair only to officers and admins.
func (s *Service) OfficerLogin(ctx context.Context, email, password string) (*models.TokenPair, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.Role.IsStaff() {
		s.logAudit(ctx, audit.Event{
			Action: string(audit.EventAuthFailed),
			UserID: user.ID,
			Reason: "not_staff",
		})
		return nil, dErrors.New(dErrors.CodeForbidden, msgNotOfficer)
	}
	return s.issue(ctx, user)
}

func (s *Service) issue(ctx context.Context, user *identity.User) (*models.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.Event{
		Action: string(audit.EventTokenIssued),
		UserID: user.ID,
	})
	return &models.TokenPair{Access: pair.Access, Refresh: pair.Refresh}, nil
}

// Refresh exchanges a live refresh token for a new access token. The role
// is reloaded so a demoted or deactivated account cannot keep its access.
func (s *Service) Refresh(ctx context.Context, req models.RefreshRequest) (*models.AccessToken, error) {
	claims, userID, err := s.liveRefresh(ctx, req)
	if err != nil {
		return nil, err
	}
	role, err := s.users.ResolveRole(ctx, userID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, msgTokenInvalid)
		}
		return nil, err
	}
	access, err := s.tokens.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "access token refreshed",
		"user_id", userID.String(),
		"refresh_jti", claims.ID,
	)
	return &models.AccessToken{Access: access}, nil
}

// Logout revokes the refresh token until it would have expired.
func (s *Service) Logout(ctx context.Context, req models.RefreshRequest) error {
	claims, userID, err := s.liveRefresh(ctx, req)
	if err != nil {
		return err
	}
	ttl := claims.Remaining(requestcontext.Now(ctx))
	if ttl <= 0 {
		return dErrors.New(dErrors.CodeUnauthorized, msgTokenInvalid)
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	s.logAudit(ctx, audit.Event{
		Action: string(audit.EventTokenRevoked),
		UserID: userID,
	})
	return nil
}

// liveRefresh validates a refresh token and checks it was not revoked.
// Revocation lookups fail closed.
func (s *Service) liveRefresh(ctx context.Context, req models.RefreshRequest) (*token.Claims, id.UserID, error) {
	if err := req.Validate(); err != nil {
		return nil, id.UserID{}, err
	}
	claims, err := s.tokens.ValidateTyped(req.Refresh, token.TypeRefresh)
	if err != nil {
		return nil, id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, msgTokenInvalid)
	}
	userID, err := claims.ParseSubject()
	if err != nil {
		return nil, id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, msgTokenInvalid)
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "revocation lookup failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, id.UserID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check revocation")
	}
	if revoked {
		return nil, id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, msgTokenInvalid)
	}
	return claims, userID, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
