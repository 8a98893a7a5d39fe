package service

import (
	"context"

	"huduma/internal/policy"
	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	audit "huduma/pkg/platform/audit"
	"huduma/pkg/requestcontext"
)

var ownerEdit = policy.WithReason(policy.OwnerOnly, msgOwnerEdit)

// Create files a new pending request for the calling citizen.
func (s *Service) Create(ctx context.Context, actor policy.Actor, p models.Patch) (*models.View, error) {
	if err := policy.Authorize(actor, policy.CitizenOnly, nil); err != nil {
		return nil, err
	}
	r, err := models.NewRequest(id.NewRequestID(), actor.UserID, p, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
	}

	s.metrics.IncrementCreated(string(r.Type))
	s.logAudit(ctx, requestEvent(audit.EventRequestCreated, r, actor.UserID))
	s.logger.InfoContext(ctx, "request created",
		"request", r.ID.String(),
		"request_type", string(r.Type),
		"urgency", string(r.Urgency),
	)
	return s.view(ctx, r)
}

// ListMine returns the caller's requests, newest first.
func (s *Service) ListMine(ctx context.Context, actor policy.Actor) ([]models.View, error) {
	if err := policy.Authorize(actor, policy.CitizenOnly, nil); err != nil {
		return nil, err
	}
	rs, err := s.requests.ListByCitizen(ctx, actor.UserID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list requests")
	}
	return s.views(ctx, rs)
}

// Get returns a request to its owner or to staff.
func (s *Service) Get(ctx context.Context, actor policy.Actor, requestID id.RequestID) (*models.View, error) {
	r, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.OwnerOrOfficer, r); err != nil {
		return nil, err
	}
	return s.view(ctx, r)
}

// Update edits a pending request. Only the owner may edit, staff included.
func (s *Service) Update(ctx context.Context, actor policy.Actor, requestID id.RequestID, p models.Patch) (*models.View, error) {
	r, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, ownerEdit, r); err != nil {
		return nil, err
	}
	if err := r.Update(p, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	s.logAudit(ctx, requestEvent(audit.EventRequestUpdated, r, actor.UserID))
	return s.view(ctx, r)
}

// Resubmit returns a rejected request to pending with the citizen's edits.
// Requests the caller does not own are reported as not found.
func (s *Service) Resubmit(ctx context.Context, actor policy.Actor, requestID id.RequestID, p models.Patch) (*models.View, error) {
	if err := policy.Authorize(actor, policy.CitizenOnly, nil); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(r) {
		return nil, dErrors.New(dErrors.CodeNotFound, msgNotFound)
	}
	if err := r.Resubmit(p, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	s.logAudit(ctx, requestEvent(audit.EventRequestResubmitted, r, actor.UserID))
	s.logger.InfoContext(ctx, "request resubmitted", "request", r.ID.String())
	return s.view(ctx, r)
}
