package middlewares

import "net/http"

// RequireElevated пропускает только администраторов и менеджеров магазина.
func RequireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(w, r)
		if user == nil {
			return
		}

		if !user.IsElevated() {
			http.Error(w, "Insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
