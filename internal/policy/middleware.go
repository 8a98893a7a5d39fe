package policy

import (
	"net/http"

	"huduma/pkg/platform/httputil"
)

// Require enforces perm at route level with no resource.
func Require(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := Authorize(ActorFromContext(r.Context()), perm, nil); err != nil {
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
