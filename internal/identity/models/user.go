package models

import (
	"strings"
	"time"

	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
)

// User is an account of any role.
//
// Invariants:
//   - Email is non-empty and normalized (see pkg/email)
//   - Role is a valid domain.Role
//   - PasswordHash is never serialized
type User struct {
	ID           id.UserID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         id.Role   `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`

	// IsStaff marks accounts created by the bootstrap command.
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

// NewUser constructs an active account.
func NewUser(userID id.UserID, email, fullName string, role id.Role, passwordHash string, now time.Time) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid role")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash cannot be empty")
	}
	return &User{
		ID:           userID,
		Email:        email,
		FullName:     fullName,
		Role:         role,
		PasswordHash: passwordHash,
		IsActive:     true,
		IsStaff:      role == id.RoleAdmin,
		DateJoined:   now,
	}, nil
}

func (u *User) IsCitizen() bool { return u.Role == id.RoleCitizen }
