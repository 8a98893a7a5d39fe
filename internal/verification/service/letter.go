package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"huduma/internal/letter"
	"huduma/internal/policy"
	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
)

// Letter renders the approved request as a PDF for its owner or staff.
func (s *Service) Letter(ctx context.Context, actor policy.Actor, requestID id.RequestID) (*letter.Document, error) {
	ctx, span := s.tracer.Start(ctx, "verification.letter",
		trace.WithAttributes(attribute.String("request.id", requestID.String())),
	)
	defer span.End()

	r, err := s.load(ctx, requestID)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := policy.Authorize(actor, policy.OwnerOrOfficer, r); err != nil {
		return nil, fail(span, err)
	}
	if r.Status != models.StatusApproved {
		return nil, fail(span, dErrors.New(dErrors.CodeInvalidState, msgNotApproved))
	}
	citizen, err := s.citizen(ctx, r.CitizenID)
	if err != nil {
		return nil, fail(span, err)
	}

	start := time.Now()
	doc, err := s.renderer.Document(letter.Input{Request: r, Citizen: citizen})
	if errors.Is(err, letter.ErrNotApproved) {
		return nil, fail(span, dErrors.New(dErrors.CodeInvalidState, msgNotApproved))
	}
	if err != nil {
		return nil, fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render letter"))
	}
	s.metrics.ObserveRender(time.Since(start))
	span.SetAttributes(attribute.Int("letter.bytes", len(doc.Body)))

	s.logAudit(ctx, requestEvent(audit.EventLetterDownloaded, r, actor.UserID))
	return doc, nil
}
