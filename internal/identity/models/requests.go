package models

import (
	"strings"

	"huduma/pkg/email"
	"huduma/pkg/platform/validation"
)

// RegisterRequest is the citizen self-registration input.
type RegisterRequest struct {
	FullName        string `json:"full_name" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,max=30"`
	Gender          string `json:"gender" validate:"required,oneof=male female"`
	Age             int    `json:"age" validate:"required,min=18,max=120"`
	Address         string `json:"address" validate:"required,max=255"`
	NIDANumber      string `json:"nida_number" validate:"max=30"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=8"`
}

// Normalize trims text fields and normalizes the email. Passwords are left
// untouched.
func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = email.Normalize(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Gender = strings.TrimSpace(r.Gender)
	r.Address = strings.TrimSpace(r.Address)
	r.NIDANumber = strings.TrimSpace(r.NIDANumber)
}

func (r *RegisterRequest) Validate() error {
	return validation.Struct(r)
}

// ProfileUpdate is a partial update of the account and its profile. Nil
// fields are left unchanged.
type ProfileUpdate struct {
	Email      *string `json:"email" validate:"omitnil,email"`
	FullName   *string `json:"full_name" validate:"omitnil,min=1,max=150"`
	Phone      *string `json:"phone" validate:"omitnil,max=30"`
	Gender     *string `json:"gender" validate:"omitnil,oneof=male female"`
	Age        *int    `json:"age" validate:"omitnil,min=18,max=120"`
	Address    *string `json:"address" validate:"omitnil,min=1,max=255"`
	NIDANumber *string `json:"nida_number" validate:"omitnil,max=30"`
	Position   *string `json:"position" validate:"omitnil,max=100"`
	Office     *string `json:"office" validate:"omitnil,max=100"`
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func (u *ProfileUpdate) Normalize() {
	if u.Email != nil {
		e := email.Normalize(*u.Email)
		u.Email = &e
	}
	for _, s := range []*string{u.FullName, u.Phone, u.Gender, u.Address, u.NIDANumber, u.Position, u.Office} {
		trimPtr(s)
	}
}

func (u *ProfileUpdate) Validate() error {
	return validation.Struct(u)
}

// ChangePasswordRequest changes the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=8"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validation.Struct(r)
}

// LoginRequest carries credentials for either login path.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
}

func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}
