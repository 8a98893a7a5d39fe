// Package service implements the verification request lifecycle: citizen
// filing and edits, officer decisions and letter issuance.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"huduma/internal/letter"
	"huduma/internal/verification/metrics"
	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/platform/sentinel"
	"huduma/pkg/requestcontext"
)

const (
	msgNotFound    = "Request not found."
	msgNotApproved = "Request is not approved yet."
	msgOwnerEdit   = "Only the request owner can edit this request."
)

type RequestStore interface {
	Create(ctx context.Context, r *models.Request) error
	Update(ctx context.Context, r *models.Request) error
	FindByID(ctx context.Context, requestID id.RequestID) (*models.Request, error)
	ListByCitizen(ctx context.Context, citizenID id.UserID) ([]*models.Request, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Request, error)
	CountByStatus(ctx context.Context, status models.Status) (int, error)
	CountDecided(ctx context.Context, status models.Status, from, to time.Time) (int, error)
}

// CitizenDirectory resolves the citizen fields shown with each request.
type CitizenDirectory interface {
	Citizens(ctx context.Context, userIDs []id.UserID) (map[id.UserID]models.Citizen, error)
	CountCitizens(ctx context.Context) (int, error)
}

type LetterRenderer interface {
	Document(in letter.Input) (*letter.Document, error)
}

// TxRunner makes a request write and its compliance audit event atomic.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	requests RequestStore
	citizens CitizenDirectory
	renderer LetterRenderer
	tx       TxRunner
	logger   *slog.Logger
	auditor  AuditPublisher
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	location *time.Location
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

// WithLocation sets the timezone that defines "today" for the officer
// dashboard.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(requests RequestStore, citizens CitizenDirectory, renderer LetterRenderer, tx TxRunner, opts ...Option) (*Service, error) {
	if requests == nil {
		return nil, errors.New("request store is required")
	}
	if citizens == nil {
		return nil, errors.New("citizen directory is required")
	}
	if renderer == nil {
		return nil, errors.New("letter renderer is required")
	}
	if tx == nil {
		return nil, errors.New("tx runner is required")
	}
	s := &Service{
		requests: requests,
		citizens: citizens,
		renderer: renderer,
		tx:       tx,
		logger:   slog.Default(),
		tracer:   otel.Tracer("huduma/verification"),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) load(ctx context.Context, requestID id.RequestID) (*models.Request, error) {
	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, msgNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
	}
	return r, nil
}

func (s *Service) save(ctx context.Context, r *models.Request) error {
	if err := s.requests.Update(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, msgNotFound)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save request")
	}
	return nil
}

// view enriches a single request with its citizen.
func (s *Service) view(ctx context.Context, r *models.Request) (*models.View, error) {
	views, err := s.views(ctx, []*models.Request{r})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views enriches requests with one directory lookup. A citizen missing from
// the directory leaves the citizen fields empty.
func (s *Service) views(ctx context.Context, rs []*models.Request) ([]models.View, error) {
	out := make([]models.View, 0, len(rs))
	if len(rs) == 0 {
		return out, nil
	}
	seen := make(map[id.UserID]bool, len(rs))
	ids := make([]id.UserID, 0, len(rs))
	for _, r := range rs {
		if !seen[r.CitizenID] {
			seen[r.CitizenID] = true
			ids = append(ids, r.CitizenID)
		}
	}
	citizens, err := s.citizens.Citizens(ctx, ids)
	if err != nil {
		return nil, coded(err, "failed to load citizens")
	}
	for _, r := range rs {
		out = append(out, models.NewView(r, citizens[r.CitizenID]))
	}
	return out, nil
}

func (s *Service) citizen(ctx context.Context, citizenID id.UserID) (models.Citizen, error) {
	citizens, err := s.citizens.Citizens(ctx, []id.UserID{citizenID})
	if err != nil {
		return models.Citizen{}, coded(err, "failed to load citizen")
	}
	return citizens[citizenID], nil
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

func requestEvent(action audit.AuditEvent, r *models.Request, actorID id.UserID) audit.Event {
	return audit.Event{
		Action:  string(action),
		UserID:  r.CitizenID,
		ActorID: actorID,
		Subject: r.ID.String(),
	}
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// coded passes domain errors through and wraps anything else as internal.
func coded(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
