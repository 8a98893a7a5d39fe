package handler

import (
	"huduma/internal/identity/models"
	id "huduma/pkg/domain"
)

type userResponse struct {
	ID       id.UserID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     id.Role   `json:"role"`
}

type citizenProfileResponse struct {
	Phone      string        `json:"phone"`
	Gender     models.Gender `json:"gender"`
	Age        int           `json:"age"`
	Address    string        `json:"address"`
	NIDANumber string        `json:"nida_number"`
}

type officerProfileResponse struct {
	Phone    string `json:"phone"`
	Position string `json:"position"`
	Office   string `json:"office"`
}

// accountResponse is the {user, profile} pair returned by /me, /profile and
// citizen detail. Profile is null when none exists.
type accountResponse struct {
	User    userResponse `json:"user"`
	Profile any          `json:"profile"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}

func toAccountResponse(a *models.Account) accountResponse {
	resp := accountResponse{User: toUserResponse(a.User)}
	switch {
	case a.CitizenProfile != nil:
		p := a.CitizenProfile
		resp.Profile = citizenProfileResponse{
			Phone:      p.Phone,
			Gender:     p.Gender,
			Age:        p.Age,
			Address:    p.Address,
			NIDANumber: p.NIDANumber,
		}
	case a.OfficerProfile != nil:
		p := a.OfficerProfile
		resp.Profile = officerProfileResponse{Phone: p.Phone, Position: p.Position, Office: p.Office}
	}
	return resp
}
