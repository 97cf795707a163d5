package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const (
	SelectSettingsQuery = `
		SELECT
			key,
			value
		FROM
			settings
	`
	UpsertSettingQuery = `
		INSERT INTO
			settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET
			value = excluded.value,
			updated_at = now()
	`
)

// LoadSettings возвращает все сохранённые настройки.
func (d *Database) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := d.db.Query(ctx, SelectSettingsQuery)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения настроек: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("ошибка обработки строки настроек: %w", err)
		}
		values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return values, nil
}

// SaveSettings сохраняет значения в одной транзакции.
func (d *Database) SaveSettings(ctx context.Context, values map[string]string) error {
	return pgx.BeginFunc(ctx, d.db, func(tx pgx.Tx) error {
		for key, value := range values {
			if err := saveSetting(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveSetting(ctx context.Context, executor DBExecutor, key, value string) error {
	if _, err := executor.Exec(ctx, UpsertSettingQuery, key, value); err != nil {
		return fmt.Errorf("ошибка сохранения настройки %s: %w", key, err)
	}
	return nil
}
