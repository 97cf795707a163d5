package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Renal37/go-quote-relay/internal/database"
	"github.com/Renal37/go-quote-relay/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserIsAlreadyRegistered = errors.New("пользователь уже зарегистрирован")
	ErrUserIsNotExist          = errors.New("пользователь не существует")
	ErrPasswordIsIncorrect     = errors.New("пароль неверен")
	ErrCredentialsAreMissing   = errors.New("логин и пароль обязательны")
)

type AuthStorage interface {
	CreateUser(ctx context.Context, user database.UserDB) error
	FindUser(ctx context.Context, login string) (*database.UserDB, error)
}

// AuthService регистрирует покупателей и проверяет их пароли.
// Новые пользователи всегда получают роль customer; повышение роли
// выполняется напрямую в хранилище.
type AuthService struct {
	storage AuthStorage
}

func NewAuthService(storage AuthStorage) *AuthService {
	return &AuthService{storage: storage}
}

// credentials возвращает нормализованные логин и пароль.
func credentials(user models.UnknownUser) (string, string, error) {
	if user.Login == nil || user.Password == nil {
		return "", "", ErrCredentialsAreMissing
	}

	login := strings.TrimSpace(*user.Login)
	if login == "" || *user.Password == "" {
		return "", "", ErrCredentialsAreMissing
	}

	return login, *user.Password, nil
}

func (auth *AuthService) Register(ctx context.Context, user models.UnknownUser) error {
	login, password, err := credentials(user)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка при хэшировании пароля: %w", err)
	}

	var profile models.Profile
	if user.Profile != nil {
		profile = *user.Profile
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))

	record := database.UserDB{User: models.User{
		Login:   login,
		Hash:    string(hash),
		Role:    models.RoleCustomer,
		Profile: profile,
	}}

	switch err := auth.storage.CreateUser(ctx, record); {
	case errors.Is(err, database.ErrDuplicateUser):
		return ErrUserIsAlreadyRegistered
	case err != nil:
		return fmt.Errorf("ошибка при создании пользователя %s: %w", login, err)
	}

	return nil
}

// Login сверяет пароль с сохранённым bcrypt-хэшем.
func (auth *AuthService) Login(ctx context.Context, user models.UnknownUser) error {
	login, password, err := credentials(user)
	if err != nil {
		return err
	}

	found, err := auth.lookup(ctx, login)
	if err != nil {
		return err
	}

	err = bcrypt.CompareHashAndPassword([]byte(found.Hash), []byte(password))
	switch {
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordIsIncorrect
	case err != nil:
		return fmt.Errorf("ошибка при сравнении паролей: %w", err)
	}

	return nil
}

func (auth *AuthService) GetUser(ctx context.Context, login string) (*models.User, error) {
	found, err := auth.lookup(ctx, login)
	if err != nil {
		return nil, err
	}

	return &found.User, nil
}

func (auth *AuthService) lookup(ctx context.Context, login string) (*database.UserDB, error) {
	found, err := auth.storage.FindUser(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске пользователя %s: %w", login, err)
	}
	if found == nil {
		return nil, ErrUserIsNotExist
	}

	return found, nil
}
