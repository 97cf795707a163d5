package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDuplicateUser = errors.New("пользователь уже существует")
)

const (
	InsertUserQuery = `
        INSERT INTO
            users (login, hash, role, profile)
        VALUES ($1, $2, $3, $4)
    `
	SelectUserQuery = `
        SELECT
            id::text,
            login,
            hash,
            role,
            profile
        FROM
            users
        WHERE
            login = $1
    `
)

type UserDB struct {
	models.User
}

// CreateUser создает нового пользователя в базе данных
func (d *Database) CreateUser(ctx context.Context, user UserDB) error {
	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("ошибка сериализации профиля: %w", err)
	}

	role := user.Role
	if role == "" {
		role = models.RoleCustomer
	}

	if _, err := d.db.Exec(ctx, InsertUserQuery, user.Login, user.Hash, string(role), profile); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateUser
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}
	return nil
}

// FindUser находит пользователя в базе данных по логину
func (d *Database) FindUser(ctx context.Context, login string) (*UserDB, error) {
	user := &UserDB{}
	var (
		role    string
		profile []byte
	)

	if err := d.db.QueryRow(ctx, SelectUserQuery, login).Scan(&user.ID, &user.Login, &user.Hash, &role, &profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	user.Role = models.Role(role)
	if err := json.Unmarshal(profile, &user.Profile); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля пользователя: %w", err)
	}

	return user, nil
}
