package middlewares

import (
	"net/http"

	"github.com/Renal37/go-quote-relay/internal/models"
)

const NonceHeader = "X-Nonce"

// NonceMiddleware требует одноразовый токен пользователя для действия action.
func NonceMiddleware(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(w, r)
			jwtService := GetServiceFromContext[models.JWTService](w, r, JwtServiceKey)
			if user == nil || jwtService == nil {
				return
			}

			if err := (*jwtService).VerifyNonce(r.Header.Get(NonceHeader), user.ID, action); err != nil {
				http.Error(w, "Security check failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
