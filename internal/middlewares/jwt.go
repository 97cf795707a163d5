package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/services"
	"go.uber.org/zap"
)

type userFieldType string

const userField userFieldType = "userField"

// authError ответ middleware при неудачной аутентификации.
type authError struct {
	status  int
	message string
}

func unauthorized(message string) *authError {
	return &authError{status: http.StatusUnauthorized, message: message}
}

type AuthMiddlewareConfig struct {
	excludePaths []string
}

func AuthMiddleware() *AuthMiddlewareConfig {
	return &AuthMiddlewareConfig{}
}

// WithExcludedPaths задаёт префиксы путей, доступных без токена.
func (a *AuthMiddlewareConfig) WithExcludedPaths(paths ...string) *AuthMiddlewareConfig {
	a.excludePaths = paths
	return a
}

func (a *AuthMiddlewareConfig) excluded(path string) bool {
	for _, p := range a.excludePaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Middleware проверяет bearer-токен и кладёт пользователя в контекст запроса.
func (a *AuthMiddlewareConfig) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.excluded(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authService := GetServiceFromContext[models.AuthService](w, r, AuthServiceKey)
		jwtService := GetServiceFromContext[models.JWTService](w, r, JwtServiceKey)
		if authService == nil || jwtService == nil {
			return
		}

		user, authErr := authenticate(r, *authService, *jwtService)
		if authErr != nil {
			http.Error(w, authErr.message, authErr.status)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userField, user)))
	})
}

func bearerToken(r *http.Request) (string, *authError) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", unauthorized("Authorization header is required")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", unauthorized("Bearer token is empty")
	}

	return token, nil
}

func authenticate(r *http.Request, authService models.AuthService, jwtService models.JWTService) (*models.User, *authError) {
	tokenString, authErr := bearerToken(r)
	if authErr != nil {
		return nil, authErr
	}

	token, err := jwtService.ValidateToken(tokenString)
	switch {
	case errors.Is(err, services.ErrTokenIsExpired):
		return nil, unauthorized("Token is expired")
	case err != nil:
		return nil, unauthorized("Token is invalid")
	}

	login, err := token.Claims.GetSubject()
	if err != nil || login == "" {
		return nil, unauthorized("Token has no subject")
	}

	user, err := authService.GetUser(r.Context(), login)
	if err != nil {
		if errors.Is(err, services.ErrUserIsNotExist) {
			return nil, unauthorized("User doesn't exist")
		}

		logger.Log.Error("User lookup failed", zap.String("login", login), zap.Error(err))
		return nil, &authError{status: http.StatusInternalServerError, message: "User lookup failed"}
	}

	return user, nil
}

// GetUserFromContext возвращает пользователя, положенного Middleware.
// Если его нет, отвечает 500 и возвращает nil.
func GetUserFromContext(w http.ResponseWriter, r *http.Request) *models.User {
	user, ok := r.Context().Value(userField).(*models.User)
	if !ok {
		http.Error(w, "Could not retrieve user from context", http.StatusInternalServerError)
		return nil
	}

	return user
}
