// Package auth authenticates bearer access tokens and places the actor in
// the request context.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "huduma/pkg/domain"
	dErrors "huduma/pkg/domain-errors"
	"huduma/pkg/platform/httputil"
	"huduma/pkg/requestcontext"
)

// TokenValidator verifies an access token and returns its subject.
type TokenValidator interface {
	ValidateAccessToken(token string) (id.UserID, error)
}

// ActorResolver loads the user's current role. It fails for deleted or
// inactive accounts so a still-valid token for a disabled user is refused.
type ActorResolver interface {
	ResolveRole(ctx context.Context, userID id.UserID) (id.Role, error)
}

const bearerPrefix = "Bearer "

func RequireAuth(validator TokenValidator, resolver ActorResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Authentication credentials were not provided."))
				return
			}

			userID, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Given token not valid for any token type"))
				return
			}

			role, err := resolver.ResolveRole(ctx, userID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - actor not resolvable",
					"error", err,
					"user_id", userID.String(),
					"request_id", requestID,
				)
				if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					httputil.WriteError(w, err)
				} else {
					httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve user"))
				}
				return
			}

			ctx = requestcontext.WithActor(ctx, userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
