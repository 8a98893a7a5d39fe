package testutil

import (
	"net/http"

	id "huduma/pkg/domain"
	"huduma/pkg/requestcontext"
)

// WithActor adds an authenticated user and role to the request context, the
// way the auth middleware would.
func WithActor(req *http.Request, userID id.UserID, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), userID, role))
}

// WithBearer sets the Authorization header.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
