package router

import (
	"errors"
	"net/http"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/middlewares"
	"github.com/Renal37/go-quote-relay/internal/services"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/Renal37/go-quote-relay/internal/validation"
	"go.uber.org/zap"
)

type errorResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	Errors        []string `json:"errors,omitempty"`
	LoginRequired bool     `json:"login_required,omitempty"`
	Redirect      string   `json:"redirect,omitempty"`
}

// writeError переводит ошибку сервиса в HTTP-ответ.
// Подробности неизвестных ошибок остаются в логе.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		authErr    *services.AuthError
		validErr   *validation.Error
		persistErr *services.PersistenceError
	)

	switch {
	case errors.As(err, &authErr):
		if authErr.LoginRequired {
			middlewares.EncodeJSONResponseWithStatus(w, http.StatusUnauthorized, errorResponse{
				Message:       "Please log in to request a quote",
				Errors:        authErr.Messages(),
				LoginRequired: true,
				Redirect:      loginPath,
			})
			return
		}
		middlewares.EncodeJSONResponseWithStatus(w, http.StatusForbidden, errorResponse{
			Message: "You do not have permission to request quotes",
			Errors:  authErr.Messages(),
		})
	case errors.As(err, &validErr):
		middlewares.EncodeJSONResponseWithStatus(w, http.StatusUnprocessableEntity, errorResponse{
			Message: "The quote request is not valid",
			Errors:  validErr.Messages(),
		})
	case errors.As(err, &persistErr):
		logger.Log.Error("request failed", zap.String("uri", r.RequestURI), zap.Error(err))
		middlewares.EncodeJSONResponseWithStatus(w, http.StatusInternalServerError, errorResponse{Message: persistErr.Message})
	case errors.Is(err, services.ErrQuoteNotFound):
		writeMessage(w, http.StatusNotFound, "Quote not found")
	case errors.Is(err, services.ErrPermissionDenied):
		writeMessage(w, http.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, services.ErrInvalidStatus):
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid status")
	case errors.Is(err, services.ErrInvalidTransition):
		writeMessage(w, http.StatusUnprocessableEntity, "Status change is not allowed")
	case errors.Is(err, services.ErrResendNotAvailable):
		writeMessage(w, http.StatusConflict, "Quote cannot be resent in its current status")
	case errors.Is(err, services.ErrNoData):
		writeMessage(w, http.StatusNotFound, "No quotes found for the selected filters")
	case errors.Is(err, services.ErrUnsupportedFormat):
		writeMessage(w, http.StatusBadRequest, "Unsupported export format")
	case errors.Is(err, services.ErrInvalidSettings):
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid settings")
	default:
		logger.Log.Error("request failed", zap.String("uri", r.RequestURI), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, settings.DefaultErrorMessage)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	middlewares.EncodeJSONResponseWithStatus(w, status, errorResponse{Message: message})
}
