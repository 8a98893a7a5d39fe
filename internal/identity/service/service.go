// Package service implements account registration, authentication and
// profile management.
package service

import (
	"context"
	"errors"
	"log/slog"

	"huduma/internal/identity/models"
	"huduma/internal/platform/metrics"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/platform/sentinel"
	"huduma/pkg/requestcontext"
	"huduma/pkg/secrets"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.User, error)
	ListByRole(ctx context.Context, role id.Role) ([]*models.User, error)
	CountByRole(ctx context.Context, role id.Role) (int, error)
}

type ProfileStore interface {
	SaveCitizenProfile(ctx context.Context, profile *models.CitizenProfile) error
	FindCitizenProfile(ctx context.Context, userID id.UserID) (*models.CitizenProfile, error)
	FindCitizenProfiles(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.CitizenProfile, error)
	SaveOfficerProfile(ctx context.Context, profile *models.OfficerProfile) error
	FindOfficerProfile(ctx context.Context, userID id.UserID) (*models.OfficerProfile, error)
}

// TxRunner executes fn atomically across UserStore and ProfileStore writes.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) error
}

// Service orchestrates accounts and their profiles.
type Service struct {
	users    UserStore
	profiles ProfileStore
	tx       TxRunner
	hasher   PasswordHasher
	logger   *slog.Logger
	auditor  AuditPublisher
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPasswordHasher(h PasswordHasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

func New(users UserStore, profiles ProfileStore, tx TxRunner, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if tx == nil {
		return nil, errors.New("tx runner is required")
	}
	s := &Service{
		users:    users,
		profiles: profiles,
		tx:       tx,
		hasher:   secrets.Default(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ResolveRole returns the user's current role. Deleted and inactive users
// are refused with CodeUnauthorized.
func (s *Service) ResolveRole(ctx context.Context, userID id.UserID) (id.Role, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "User not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if !user.IsActive {
		return "", dErrors.New(dErrors.CodeUnauthorized, "User is inactive")
	}
	return user.Role, nil
}

func (s *Service) loadUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "User not found.")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// account attaches the role-appropriate profile to user. A missing profile
// leaves the field nil.
func (s *Service) account(ctx context.Context, user *models.User) (*models.Account, error) {
	acct := &models.Account{User: user}
	if user.IsCitizen() {
		p, err := s.profiles.FindCitizenProfile(ctx, user.ID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
		}
		acct.CitizenProfile = p
		return acct, nil
	}
	p, err := s.profiles.FindOfficerProfile(ctx, user.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	acct.OfficerProfile = p
	return acct, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	return s.auditor.Emit(ctx, event)
}

// logAudit emits a best-effort event; failures are logged.
func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if err := s.emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// coded passes domain errors through and wraps anything else as internal.
func coded(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
