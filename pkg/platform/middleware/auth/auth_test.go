package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	"huduma/pkg/requestcontext"
)

type stubValidator struct {
	userID id.UserID
	err    error
}

func (s stubValidator) ValidateAccessToken(string) (id.UserID, error) { return s.userID, s.err }

type stubResolver struct {
	role id.Role
	err  error
}

func (s stubResolver) ResolveRole(context.Context, id.UserID) (id.Role, error) { return s.role, s.err }

func serve(v TokenValidator, res ActorResolver, header string) (*httptest.ResponseRecorder, *http.Request) {
	var seen *http.Request
	h := RequireAuth(v, res, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r
			w.WriteHeader(http.StatusNoContent)
		}))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth(t *testing.T) {
	userID := id.NewUserID()

	t.Run("missing header", func(t *testing.T) {
		rec, seen := serve(stubValidator{}, stubResolver{}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec, _ := serve(stubValidator{}, stubResolver{}, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, _ := serve(stubValidator{err: errors.New("bad sig")}, stubResolver{}, "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		rec, _ := serve(stubValidator{userID: userID},
			stubResolver{err: dErrors.New(dErrors.CodeUnauthorized, "User is inactive")}, "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "User is inactive")
	})

	t.Run("resolver failure is internal", func(t *testing.T) {
		rec, _ := serve(stubValidator{userID: userID}, stubResolver{err: errors.New("db")}, "Bearer x")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("valid token sets actor", func(t *testing.T) {
		rec, seen := serve(stubValidator{userID: userID}, stubResolver{role: id.RoleOfficer}, "Bearer x")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		if assert.NotNil(t, seen) {
			assert.Equal(t, userID, requestcontext.UserID(seen.Context()))
			assert.Equal(t, id.RoleOfficer, requestcontext.Role(seen.Context()))
		}
	})
}
