package models

import (
	"time"

	id "huduma/pkg/domain"
)

// Citizen is the subset of the requester's account shown alongside a
// request. HasProfile is false when the citizen never saved a profile; the
// profile fields are then empty.
type Citizen struct {
	ID         id.UserID
	HasProfile bool
	FullName   string
	Email      string
	Phone      string
	Address    string
	Gender     string
	Age        *int
	NIDANumber string
}

// View is the API representation of a request enriched with citizen
// fields. Profile fields are empty when the citizen has no profile.
type View struct {
	ID              id.RequestID `json:"id"`
	Type            RequestType  `json:"request_type"`
	Purpose         string       `json:"purpose"`
	AdditionalInfo  string       `json:"additional_info"`
	Metadata        Metadata     `json:"metadata"`
	Urgency         Urgency      `json:"urgency"`
	Status          Status       `json:"status"`
	RejectionReason string       `json:"rejection_reason"`
	DecidedAt       *time.Time   `json:"decided_at"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	CitizenID       id.UserID    `json:"citizen_id"`
	CitizenName     string       `json:"citizen_name"`
	CitizenEmail    string       `json:"citizen_email"`
	CitizenPhone    string       `json:"citizen_phone"`
	CitizenAddress  string       `json:"citizen_address"`
	CitizenGender   string       `json:"citizen_gender"`
	CitizenAge      *int         `json:"citizen_age"`
	CitizenNIDA     string       `json:"citizen_nida"`
}

func NewView(r *Request, c Citizen) View {
	meta := r.Metadata
	if meta == nil {
		meta = Metadata{}
	}
	return View{
		ID:              r.ID,
		Type:            r.Type,
		Purpose:         r.Purpose,
		AdditionalInfo:  r.AdditionalInfo,
		Metadata:        meta,
		Urgency:         r.Urgency,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		DecidedAt:       r.DecidedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		CitizenID:       r.CitizenID,
		CitizenName:     c.FullName,
		CitizenEmail:    c.Email,
		CitizenPhone:    c.Phone,
		CitizenAddress:  c.Address,
		CitizenGender:   c.Gender,
		CitizenAge:      c.Age,
		CitizenNIDA:     c.NIDANumber,
	}
}

// Stats are the officer dashboard counters.
type Stats struct {
	PendingRequests int `json:"pending_requests"`
	ApprovedToday   int `json:"approved_today"`
	TotalCitizens   int `json:"total_citizens"`
	LettersIssued   int `json:"letters_issued"`
}

// RejectRequest is the reject body. Reason is optional.
type RejectRequest struct {
	Reason string `json:"reason"`
}
