package models

import "huduma/pkg/platform/validation"

// TokenPair is returned by both login endpoints.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessToken is returned by refresh.
type AccessToken struct {
	Access string `json:"access"`
}

// RefreshRequest carries a refresh token for renewal or logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

func (r *RefreshRequest) Validate() error {
	return validation.Struct(r)
}
