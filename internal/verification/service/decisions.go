package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"huduma/internal/policy"
	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/requestcontext"
)

const (
	actionApprove = "approve"
	actionReject  = "reject"
	actionReopen  = "reopen"
)

// Approve marks a request approved. Any status may be approved.
func (s *Service) Approve(ctx context.Context, actor policy.Actor, requestID id.RequestID) (*models.View, error) {
	return s.decide(ctx, actor, requestID, actionApprove, func(r *models.Request, now time.Time) (audit.AuditEvent, error) {
		r.Approve(actor.UserID, now)
		return audit.EventRequestApproved, nil
	})
}

// Reject marks a request rejected. A blank reason is stored as the default.
func (s *Service) Reject(ctx context.Context, actor policy.Actor, requestID id.RequestID, reason string) (*models.View, error) {
	return s.decide(ctx, actor, requestID, actionReject, func(r *models.Request, now time.Time) (audit.AuditEvent, error) {
		r.Reject(actor.UserID, reason, now)
		return audit.EventRequestRejected, nil
	})
}

// Reopen returns a decided request to pending.
func (s *Service) Reopen(ctx context.Context, actor policy.Actor, requestID id.RequestID) (*models.View, error) {
	return s.decide(ctx, actor, requestID, actionReopen, func(r *models.Request, now time.Time) (audit.AuditEvent, error) {
		return audit.EventRequestReopened, r.Reopen(now)
	})
}

// decide loads, mutates and saves a request together with its compliance
// event. Concurrent decisions are not detected; the last write wins.
func (s *Service) decide(
	ctx context.Context,
	actor policy.Actor,
	requestID id.RequestID,
	action string,
	apply func(r *models.Request, now time.Time) (audit.AuditEvent, error),
) (*models.View, error) {
	ctx, span := s.tracer.Start(ctx, "verification.decide",
		trace.WithAttributes(
			attribute.String("request.id", requestID.String()),
			attribute.String("decision.action", action),
		),
	)
	defer span.End()

	if err := policy.Authorize(actor, policy.OfficerOnly, nil); err != nil {
		return nil, fail(span, err)
	}

	var decided *models.Request
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.load(ctx, requestID)
		if err != nil {
			return err
		}
		event, err := apply(r, requestcontext.Now(ctx))
		if err != nil {
			return err
		}
		if err := s.save(ctx, r); err != nil {
			return err
		}
		ev := requestEvent(event, r, actor.UserID)
		ev.Decision = string(r.Status)
		ev.Reason = r.RejectionReason
		if err := s.emit(ctx, ev); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record decision")
		}
		decided = r
		return nil
	})
	if err != nil {
		return nil, fail(span, coded(err, "failed to record decision"))
	}

	span.SetAttributes(
		attribute.String("request.type", string(decided.Type)),
		attribute.String("request.status", string(decided.Status)),
	)
	s.metrics.IncrementDecision(action, string(decided.Type))
	s.logger.InfoContext(ctx, "request decided",
		"request", decided.ID.String(),
		"action", action,
		"status", string(decided.Status),
		"officer", actor.UserID.String(),
	)
	return s.view(ctx, decided)
}

func (s *Service) ListPending(ctx context.Context, actor policy.Actor) ([]models.View, error) {
	return s.listByStatus(ctx, actor, models.StatusPending)
}

func (s *Service) ListApproved(ctx context.Context, actor policy.Actor) ([]models.View, error) {
	return s.listByStatus(ctx, actor, models.StatusApproved)
}

func (s *Service) listByStatus(ctx context.Context, actor policy.Actor, status models.Status) ([]models.View, error) {
	if err := policy.Authorize(actor, policy.OfficerOnly, nil); err != nil {
		return nil, err
	}
	rs, err := s.requests.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list requests")
	}
	return s.views(ctx, rs)
}

// Stats returns the officer dashboard counters. "Today" is the current
// calendar day in the configured location.
func (s *Service) Stats(ctx context.Context, actor policy.Actor) (*models.Stats, error) {
	if err := policy.Authorize(actor, policy.OfficerOnly, nil); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx).In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)

	pending, err := s.requests.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count pending requests")
	}
	today, err := s.requests.CountDecided(ctx, models.StatusApproved, start, end)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count approvals")
	}
	issued, err := s.requests.CountByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count approved requests")
	}
	citizens, err := s.citizens.CountCitizens(ctx)
	if err != nil {
		return nil, coded(err, "failed to count citizens")
	}
	return &models.Stats{
		PendingRequests: pending,
		ApprovedToday:   today,
		TotalCitizens:   citizens,
		LettersIssued:   issued,
	}, nil
}
