package middlewares

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Renal37/go-quote-relay/internal/models"
)

type key int

const (
	AuthServiceKey key = iota
	JwtServiceKey
	QuoteServiceKey
	AdminServiceKey
)

func (k key) String() string {
	switch k {
	case AuthServiceKey:
		return "auth"
	case JwtServiceKey:
		return "jwt"
	case QuoteServiceKey:
		return "quote"
	case AdminServiceKey:
		return "admin"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// Services набор сервисов, доступных обработчикам через контекст запроса.
type Services struct {
	Auth  models.AuthService
	JWT   models.JWTService
	Quote models.QuoteService
	Admin models.AdminService
}

func (s Services) values() map[key]interface{} {
	return map[key]interface{}{
		AuthServiceKey:  s.Auth,
		JwtServiceKey:   s.JWT,
		QuoteServiceKey: s.Quote,
		AdminServiceKey: s.Admin,
	}
}

// ServiceInjectorMiddleware кладёт ненулевые сервисы в контекст запроса.
func ServiceInjectorMiddleware(services Services) func(http.Handler) http.Handler {
	values := services.values()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			for k, v := range values {
				if v != nil {
					ctx = context.WithValue(ctx, k, v)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetServiceFromContext отвечает 500 и возвращает nil, если сервиса нет.
func GetServiceFromContext[Service interface{}](w http.ResponseWriter, r *http.Request, serviceKey key) *Service {
	foundService, ok := r.Context().Value(serviceKey).(Service)
	if !ok {
		http.Error(w, fmt.Sprintf("Service %s is not available", serviceKey), http.StatusInternalServerError)
		return nil
	}

	return &foundService
}
