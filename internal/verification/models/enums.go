package models

// RequestType selects the letter a request produces.
type RequestType string

const (
	TypeResidence RequestType = "residence"
	TypeNIDA      RequestType = "nida"
	TypeLicense   RequestType = "license"
)

func (t RequestType) IsValid() bool {
	switch t {
	case TypeResidence, TypeNIDA, TypeLicense:
		return true
	}
	return false
}

func (t RequestType) String() string { return string(t) }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Urgency is a hint set by the citizen. It has no effect on ordering.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyUrgent Urgency = "urgent"
)

func (u Urgency) IsValid() bool {
	return u == UrgencyNormal || u == UrgencyUrgent
}
