package audit

import (
	"context"
	"time"

	id "huduma/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers decisions and account changes with legal
	// significance. Emission failures fail the calling operation.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers authentication failures and credential changes.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine activity such as letter downloads.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from services to capture key actions.
type Event struct {
	Category  EventCategory
	Timestamp time.Time

	// UserID is the citizen the event concerns.
	UserID id.UserID

	// ActorID is who performed the action when different from UserID,
	// e.g. the officer deciding a request.
	ActorID id.UserID

	Subject   string
	Action    string
	Decision  string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	EventUserRegistered     AuditEvent = "user_registered"
	EventAdminCreated       AuditEvent = "admin_created"
	EventAuthFailed         AuditEvent = "auth_failed"
	EventTokenIssued        AuditEvent = "token_issued"
	EventTokenRevoked       AuditEvent = "token_revoked"
	EventPasswordChanged    AuditEvent = "password_changed"
	EventProfileUpdated     AuditEvent = "profile_updated"
	EventRequestCreated     AuditEvent = "request_created"
	EventRequestUpdated     AuditEvent = "request_updated"
	EventRequestResubmitted AuditEvent = "request_resubmitted"
	EventRequestApproved    AuditEvent = "request_approved"
	EventRequestRejected    AuditEvent = "request_rejected"
	EventRequestReopened    AuditEvent = "request_reopened"
	EventLetterDownloaded   AuditEvent = "letter_downloaded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserRegistered:  CategoryCompliance,
	EventAdminCreated:    CategoryCompliance,
	EventRequestApproved: CategoryCompliance,
	EventRequestRejected: CategoryCompliance,
	EventRequestReopened: CategoryCompliance,

	EventAuthFailed:      CategorySecurity,
	EventTokenRevoked:    CategorySecurity,
	EventPasswordChanged: CategorySecurity,

	EventTokenIssued:        CategoryOperations,
	EventProfileUpdated:     CategoryOperations,
	EventRequestCreated:     CategoryOperations,
	EventRequestUpdated:     CategoryOperations,
	EventRequestResubmitted: CategoryOperations,
	EventLetterDownloaded:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
