package domain

import dErrors "huduma/pkg/domain-errors"

// Role is the closed set of account roles.
// Invariant: the value is one of the constants below; construct via ParseRole
// at trust boundaries.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

var validRoles = map[Role]bool{
	RoleCitizen: true,
	RoleOfficer: true,
	RoleAdmin:   true,
}

// ParseRole constructs a Role from external input such as token claims or
// database rows.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

func (r Role) IsValid() bool { return validRoles[r] }

// IsStaff reports whether the role may act on other citizens' requests.
func (r Role) IsStaff() bool {
	return r == RoleOfficer || r == RoleAdmin
}

func (r Role) String() string { return string(r) }
