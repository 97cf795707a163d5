package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/middlewares"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/services"
	"go.uber.org/zap"
)

type sessionResponse struct {
	Login string `json:"login"`
}

type noncesResponse struct {
	Quote string `json:"quote"`
	Admin string `json:"admin,omitempty"`
}

func HasCredentials(data models.UnknownUser) bool {
	return data.Login != nil && *data.Login != "" && data.Password != nil && *data.Password != ""
}

func Register(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.UnknownUser](w, r)
	authService := middlewares.GetServiceFromContext[models.AuthService](w, r, middlewares.AuthServiceKey)
	if authService == nil {
		return
	}

	if !HasCredentials(data) {
		http.Error(w, "Login and password are required", http.StatusBadRequest)
		return
	}

	if err := (*authService).Register(r.Context(), data); err != nil {
		if errors.Is(err, services.ErrUserIsAlreadyRegistered) {
			http.Error(w, "User is already registered", http.StatusConflict)
			return
		}

		logger.Log.Error("Registration failed", zap.String("login", *data.Login), zap.Error(err))
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	startSession(w, r, *data.Login)
}

func Login(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.UnknownUser](w, r)
	authService := middlewares.GetServiceFromContext[models.AuthService](w, r, middlewares.AuthServiceKey)
	if authService == nil {
		return
	}

	if !HasCredentials(data) {
		http.Error(w, "Login and password are required", http.StatusBadRequest)
		return
	}

	if err := (*authService).Login(r.Context(), data); err != nil {
		// Не раскрываем, что именно не совпало: логин или пароль.
		if errors.Is(err, services.ErrUserIsNotExist) || errors.Is(err, services.ErrPasswordIsIncorrect) {
			http.Error(w, "Invalid login or password", http.StatusUnauthorized)
			return
		}

		logger.Log.Error("Login failed", zap.String("login", *data.Login), zap.Error(err))
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	startSession(w, r, *data.Login)
}

// startSession выдаёт JWT в заголовке Authorization.
func startSession(w http.ResponseWriter, r *http.Request, login string) {
	jwtService := middlewares.GetServiceFromContext[models.JWTService](w, r, middlewares.JwtServiceKey)
	if jwtService == nil {
		return
	}

	token, err := (*jwtService).GenerateJWT(login)
	if err != nil {
		logger.Log.Error("JWT wasn't generated", zap.String("login", login), zap.Error(err))
		http.Error(w, "Session wasn't started", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token))
	middlewares.EncodeJSONResponse(w, sessionResponse{Login: login})
}

// GetNonces выдаёт одноразовые токены для изменяющих запросов.
func GetNonces(w http.ResponseWriter, r *http.Request) {
	jwtService := middlewares.GetServiceFromContext[models.JWTService](w, r, middlewares.JwtServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if jwtService == nil || user == nil {
		return
	}

	var (
		resp noncesResponse
		err  error
	)

	if resp.Quote, err = (*jwtService).GenerateNonce(user.ID, services.NonceActionQuote); err != nil {
		logger.Log.Error("Nonce wasn't generated", zap.String("user_id", user.ID), zap.Error(err))
		http.Error(w, "Nonce wasn't generated", http.StatusInternalServerError)
		return
	}

	if user.IsElevated() {
		if resp.Admin, err = (*jwtService).GenerateNonce(user.ID, services.NonceActionAdmin); err != nil {
			logger.Log.Error("Nonce wasn't generated", zap.String("user_id", user.ID), zap.Error(err))
			http.Error(w, "Nonce wasn't generated", http.StatusInternalServerError)
			return
		}
	}

	middlewares.EncodeJSONResponse(w, resp)
}
