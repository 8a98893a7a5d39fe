package models

import (
	"time"

	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if g != GenderMale && g != GenderFemale {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid gender")
	}
	return g, nil
}

const (
	MinAge = 18
	MaxAge = 120
)

// CitizenProfile holds the personal details printed on letters.
// Invariant: at most one per user, keyed by UserID.
type CitizenProfile struct {
	UserID     id.UserID `json:"-"`
	Phone      string    `json:"phone"`
	Gender     Gender    `json:"gender"`
	Age        int       `json:"age"`
	Address    string    `json:"address"`
	NIDANumber string    `json:"nida_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultCitizenProfile is created for citizens that reach a profile
// update without one.
func DefaultCitizenProfile(userID id.UserID, now time.Time) *CitizenProfile {
	return &CitizenProfile{
		UserID:    userID,
		Gender:    GenderMale,
		Age:       MinAge,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OfficerProfile holds staff contact details.
type OfficerProfile struct {
	UserID    id.UserID `json:"-"`
	Phone     string    `json:"phone"`
	Position  string    `json:"position"`
	Office    string    `json:"office"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func DefaultOfficerProfile(userID id.UserID, now time.Time) *OfficerProfile {
	return &OfficerProfile{UserID: userID, CreatedAt: now, UpdatedAt: now}
}

// Account is a user together with its role-specific profile. At most one
// of the profiles is set.
type Account struct {
	*User
	CitizenProfile *CitizenProfile `json:"citizen_profile"`
	OfficerProfile *OfficerProfile `json:"officer_profile"`
}
