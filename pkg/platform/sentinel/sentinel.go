// Package sentinel holds infrastructure facts returned by stores. Services
// translate them into domain errors; handlers never see them directly.
package sentinel

import "errors"

var (
	// ErrNotFound means the entity does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed means a unique value (email, token id) is already taken.
	ErrAlreadyUsed = errors.New("already used")
	// ErrUnavailable means a backing service could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
