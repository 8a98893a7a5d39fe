package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	"huduma/pkg/platform/validation"
)

const (
	MaxPurposeLength = 255

	DefaultRejectionReason = "No reason provided."

	msgNotPending        = "Only pending requests can be edited."
	msgNotRejected       = "Only rejected requests can be resubmitted."
	msgAlreadyPending    = "Request is already pending."
	msgTypeChanged       = "Request type cannot be changed when resubmitting."
	msgNonScalarMetadata = "Value must be a string, number, boolean or null."
)

// Request is a citizen's verification request.
//
// Invariants:
//   - CitizenID never changes after creation
//   - DecidedBy, DecidedAt and RejectionReason are set only while Status is
//     approved or rejected (RejectionReason only when rejected)
//   - Metadata satisfies the type's LetterSchema
type Request struct {
	ID              id.RequestID `json:"id"`
	CitizenID       id.UserID    `json:"citizen_id"`
	Type            RequestType  `json:"request_type"`
	Purpose         string       `json:"purpose"`
	AdditionalInfo  string       `json:"additional_info"`
	Metadata        Metadata     `json:"metadata"`
	Urgency         Urgency      `json:"urgency"`
	Status          Status       `json:"status"`
	RejectionReason string       `json:"rejection_reason"`
	DecidedBy       *id.UserID   `json:"decided_by"`
	DecidedAt       *time.Time   `json:"decided_at"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// OwnerID makes Request a policy.Resource.
func (r *Request) OwnerID() id.UserID { return r.CitizenID }

// Patch is a partial request body. Nil fields are left unchanged; a nil
// Metadata leaves existing metadata untouched.
type Patch struct {
	Type           *RequestType `json:"request_type"`
	Purpose        *string      `json:"purpose"`
	AdditionalInfo *string      `json:"additional_info"`
	Metadata       Metadata     `json:"metadata"`
	Urgency        *Urgency     `json:"urgency"`
}

// NewRequest validates p as a creation body and returns a pending request.
func NewRequest(requestID id.RequestID, citizenID id.UserID, p Patch, now time.Time) (*Request, error) {
	fields := map[string]any{}
	if p.Type == nil {
		fields["request_type"] = validation.MsgRequired
	}
	if p.Purpose == nil {
		fields["purpose"] = validation.MsgRequired
	}
	r := &Request{
		ID:        requestID,
		CitizenID: citizenID,
		Metadata:  Metadata{},
		Urgency:   UrgencyNormal,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.apply(p, fields, now); err != nil {
		return nil, err
	}
	return r, nil
}

// ApplyPatch validates p against the merged result and applies it. On
// error r is unchanged.
func (r *Request) ApplyPatch(p Patch, now time.Time) error {
	return r.apply(p, map[string]any{}, now)
}

func (r *Request) apply(p Patch, fields map[string]any, now time.Time) error {
	next := *r
	if p.Type != nil {
		if !p.Type.IsValid() {
			fields["request_type"] = fmt.Sprintf("%q is not a valid choice.", string(*p.Type))
		}
		next.Type = *p.Type
	}
	if p.Purpose != nil {
		purpose := strings.TrimSpace(*p.Purpose)
		switch {
		case purpose == "":
			fields["purpose"] = validation.MsgBlank
		case utf8.RuneCountInString(purpose) > MaxPurposeLength:
			fields["purpose"] = fmt.Sprintf("Ensure this field has no more than %d characters.", MaxPurposeLength)
		}
		next.Purpose = purpose
	}
	if p.AdditionalInfo != nil {
		next.AdditionalInfo = *p.AdditionalInfo
	}
	if p.Urgency != nil {
		if !p.Urgency.IsValid() {
			fields["urgency"] = fmt.Sprintf("%q is not a valid choice.", string(*p.Urgency))
		}
		next.Urgency = *p.Urgency
	}
	next.Metadata = r.Metadata.Merge(p.Metadata)

	if meta := next.metadataErrors(); len(meta) > 0 {
		fields["metadata"] = meta
	}
	if len(fields) > 0 {
		return dErrors.Validation(fields)
	}
	next.UpdatedAt = now
	*r = next
	return nil
}

// metadataErrors checks scalar values and schema completeness.
func (r *Request) metadataErrors() map[string]any {
	errs := map[string]any{}
	for _, k := range r.Metadata.NonScalarKeys() {
		errs[k] = msgNonScalarMetadata
	}
	if schema, ok := SchemaFor(r.Type); ok {
		for _, k := range schema.Missing(r.Metadata) {
			if _, seen := errs[k]; !seen {
				errs[k] = validation.MsgRequired
			}
		}
	}
	return errs
}

func (r *Request) CanEdit() error {
	if r.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvalidState, msgNotPending)
	}
	return nil
}

// Update applies a citizen edit to a pending request.
func (r *Request) Update(p Patch, now time.Time) error {
	if err := r.CanEdit(); err != nil {
		return err
	}
	return r.ApplyPatch(p, now)
}

// Approve is allowed from any status.
func (r *Request) Approve(officerID id.UserID, now time.Time) {
	r.decide(StatusApproved, officerID, "", now)
}

// Reject is allowed from any status. A blank reason is stored as
// DefaultRejectionReason.
func (r *Request) Reject(officerID id.UserID, reason string, now time.Time) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	r.decide(StatusRejected, officerID, reason, now)
}

func (r *Request) decide(status Status, officerID id.UserID, reason string, now time.Time) {
	decidedBy := officerID
	decidedAt := now
	r.Status = status
	r.RejectionReason = reason
	r.DecidedBy = &decidedBy
	r.DecidedAt = &decidedAt
	r.UpdatedAt = now
}

func (r *Request) clearDecision() {
	r.Status = StatusPending
	r.RejectionReason = ""
	r.DecidedBy = nil
	r.DecidedAt = nil
}

func (r *Request) CanReopen() error {
	if r.Status == StatusPending {
		return dErrors.New(dErrors.CodeInvalidState, msgAlreadyPending)
	}
	return nil
}

// Reopen returns a decided request to pending.
func (r *Request) Reopen(now time.Time) error {
	if err := r.CanReopen(); err != nil {
		return err
	}
	r.clearDecision()
	r.UpdatedAt = now
	return nil
}

func (r *Request) CanResubmit(p Patch) error {
	if r.Status != StatusRejected {
		return dErrors.New(dErrors.CodeInvalidState, msgNotRejected)
	}
	if p.Type != nil && *p.Type != r.Type {
		return dErrors.New(dErrors.CodeValidation, msgTypeChanged)
	}
	return nil
}

// Resubmit applies the citizen's edits to a rejected request and returns it
// to pending.
func (r *Request) Resubmit(p Patch, now time.Time) error {
	if err := r.CanResubmit(p); err != nil {
		return err
	}
	if err := r.ApplyPatch(p, now); err != nil {
		return err
	}
	r.clearDecision()
	return nil
}

// DecidedOn reports whether the request was decided within [from, to).
func (r *Request) DecidedOn(from, to time.Time) bool {
	return r.DecidedAt != nil && !r.DecidedAt.Before(from) && r.DecidedAt.Before(to)
}
