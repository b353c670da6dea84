package receiver

import (
	"crypto/subtle"
	"net/http"
)

// Auth configures API key checking on the /api/v1 routes.
type Auth struct {
	Mode   string
	Header string
	Key    string
}

// RequireAPIKey wraps next with API key authentication.
//
// Behaviour:
//   - If mode != "apikey" or key == "", all requests are allowed (pass-through).
//   - Otherwise the value of header is compared to key.
//   - A missing, empty, or incorrect key returns 401.
func RequireAPIKey(a Auth, next http.Handler) http.Handler {
	if a.Mode != "apikey" || a.Key == "" {
		return next
	}
	header := a.Header
	if header == "" {
		header = "x-api-key"
	}
	want := []byte(a.Key)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(header)
		if got == "" {
			jsonErr(w, http.StatusUnauthorized, "missing api key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			jsonErr(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
