// Package publisher emits audit events synchronously.
//
// Compliance events are fail-closed: if the event cannot be persisted the
// error is returned and the calling operation must fail. Security and
// operations events are best-effort: failures are logged and swallowed.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	id "huduma/pkg/domain"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/requestcontext"
)

type Publisher struct {
	store  audit.Store
	logger *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit writes event to the store and the audit log. Category, timestamp and
// request ID are filled from the action and context when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	p.log(ctx, event)

	start := time.Now()
	err := p.store.Append(ctx, event)
	if err == nil {
		return nil
	}
	if event.Category == audit.CategoryCompliance {
		return fmt.Errorf("persist %s audit event: %w", event.Action, err)
	}
	if p.logger != nil {
		p.logger.WarnContext(ctx, "failed to persist audit event",
			"action", event.Action,
			"error", err,
			"elapsed", time.Since(start),
		)
	}
	return nil
}

// List returns the events recorded for a user.
func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return p.store.ListByUser(ctx, userID)
}

func (p *Publisher) log(ctx context.Context, event audit.Event) {
	if p.logger == nil {
		return
	}
	args := []any{
		"log_type", "audit",
		"event", event.Action,
		"category", string(event.Category),
	}
	if !event.UserID.IsNil() {
		args = append(args, "user_id", event.UserID.String())
	}
	if !event.ActorID.IsNil() {
		args = append(args, "actor_id", event.ActorID.String())
	}
	if event.Subject != "" {
		args = append(args, "subject", event.Subject)
	}
	if event.Decision != "" {
		args = append(args, "decision", event.Decision)
	}
	if event.RequestID != "" {
		args = append(args, "request_id", event.RequestID)
	}
	p.logger.InfoContext(ctx, event.Action, args...)
}
