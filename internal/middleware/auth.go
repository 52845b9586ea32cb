package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/NewtTheWolf/sendblue/internal/response"
)

const (
	HeaderAPIKey    = "sb-api-key-id"
	HeaderAPISecret = "sb-api-secret-key"
)

// APIKeyAuth rejects requests whose Sendblue credential headers do not match
// the configured pair.
func APIKeyAuth(apiKey, apiSecret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderAPIKey)
			secret := r.Header.Get(HeaderAPISecret)
			if key == "" || secret == "" {
				response.RespondAPIError(w, http.StatusUnauthorized, "missing API credentials")
				return
			}

			okKey := subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1
			okSecret := subtle.ConstantTimeCompare([]byte(secret), []byte(apiSecret)) == 1
			if !okKey || !okSecret {
				response.RespondAPIError(w, http.StatusUnauthorized, "invalid API credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
