package services

import (
	"errors"
	"fmt"

	"github.com/Renal37/go-quote-relay/internal/validation"
)

var (
	ErrPersistence        = errors.New("не удалось сохранить заявку")
	ErrQuoteNotFound      = errors.New("заявка не найдена")
	ErrPermissionDenied   = errors.New("недостаточно прав")
	ErrInvalidStatus      = errors.New("неизвестный статус заявки")
	ErrInvalidTransition  = errors.New("недопустимая смена статуса заявки")
	ErrNoData             = errors.New("нет заявок для выгрузки")
	ErrUnsupportedFormat  = errors.New("неподдерживаемый формат выгрузки")
	ErrInvalidSettings    = errors.New("некорректные настройки")
	ErrResendNotAvailable = errors.New("повторная отправка недоступна для этого статуса")
)

// AuthError отказ из-за отсутствия входа или роли.
// LoginRequired означает, что покупателя нужно отправить на страницу входа.
type AuthError struct {
	LoginRequired bool
	Reasons       []validation.Reason
}

func (e *AuthError) Error() string {
	if e.LoginRequired {
		return "требуется вход в систему"
	}
	return "недостаточно прав для запроса заявки"
}

func (e *AuthError) Messages() []string {
	out := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		out = append(out, r.Message)
	}
	return out
}

// splitAuthReasons отделяет причины, связанные с входом и ролью, от остальных.
func splitAuthReasons(err *validation.Error) (*AuthError, *validation.Error) {
	var (
		auth  *AuthError
		other []validation.Reason
	)

	for _, r := range err.Reasons {
		switch r.Code {
		case validation.CodeNotAuthenticated, validation.CodeInsufficientRole:
			if auth == nil {
				auth = &AuthError{}
			}
			if r.Code == validation.CodeNotAuthenticated {
				auth.LoginRequired = true
			}
			auth.Reasons = append(auth.Reasons, r)
		default:
			other = append(other, r)
		}
	}

	if len(other) == 0 {
		return auth, nil
	}
	return auth, &validation.Error{Reasons: other}
}

// PersistenceError сбой хранилища. Message показывается покупателю,
// подробности остаются в логе.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPersistence, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
