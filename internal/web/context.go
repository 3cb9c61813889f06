package web

import (
	"net/http"

	"github.com/JonMunkholm/rosterimport/internal/core"
)

// withRequester records the client address and User-Agent in the request
// context so import runs can be attributed. RemoteAddr has already been
// resolved by TrustedRealIP.
func withRequester(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithRequester(r.Context(), core.Requester{
			IP:        r.RemoteAddr,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
