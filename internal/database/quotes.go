package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrQuoteNotFound = errors.New("заявка не найдена")
)

const (
	InsertQuoteQuery = `
		INSERT INTO
			quotes (user_id, customer_name, customer_email, company_name, tax_id, phone,
			        products_data, cart_total, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	selectQuoteColumns = `
		SELECT
			id,
			coalesce(user_id::text, ''),
			products_data,
			status,
			priority,
			notes,
			coalesce(erp_quote_id, ''),
			created_at,
			updated_at
		FROM
			quotes
	`
	SelectQuoteQuery = selectQuoteColumns + `
		WHERE
			id = $1
	`
	UpdateQuoteStatusQuery = `
		UPDATE
			quotes
		SET
			status = $2,
			notes = coalesce($3, notes),
			erp_quote_id = coalesce($4, erp_quote_id),
			updated_at = now()
		WHERE
			id = $1
	`
	SelectQuoteStatsQuery = `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'processed'),
			count(*) FILTER (WHERE status = 'sent_to_erp'),
			count(*) FILTER (WHERE status = 'sent_via_fallback'),
			count(*) FILTER (WHERE status = 'erp_failed'),
			coalesce(sum(cart_total), 0)::text,
			max(created_at)
		FROM
			quotes
	`
)

type QuoteDB struct {
	models.Quote
}

// QuoteStatusChange изменение статуса заявки. Пустые указатели не меняют поле.
type QuoteStatusChange struct {
	ID         int64
	Status     models.QuoteStatus
	Notes      *string
	ERPQuoteID *string
}

// CreateQuote сохраняет новую заявку со статусом pending и вычисленным приоритетом.
// Идентификатор и даты назначаются базой данных.
func (d *Database) CreateQuote(ctx context.Context, quote *QuoteDB) error {
	snapshot, err := encodeSnapshot(quote.Snapshot)
	if err != nil {
		return err
	}

	quote.Status = models.StatusPending
	quote.Priority = models.PriorityFor(quote.Totals.Total)

	var userID *string
	if quote.UserID != "" {
		userID = &quote.UserID
	}

	err = d.db.QueryRow(ctx, InsertQuoteQuery,
		userID,
		quote.Customer.Name,
		quote.Customer.Email,
		quote.Customer.CompanyName,
		quote.Customer.TaxID,
		quote.Customer.Phone,
		snapshot,
		quote.Totals.Total.StringFixed(2),
		string(quote.Status),
		string(quote.Priority),
	).Scan(&quote.ID, &quote.CreatedAt, &quote.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания заявки: %w", err)
	}

	return nil
}

// FindQuote возвращает заявку по идентификатору или nil, если её нет.
func (d *Database) FindQuote(ctx context.Context, quoteID int64) (*QuoteDB, error) {
	quote, err := scanQuote(d.db.QueryRow(ctx, SelectQuoteQuery, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка поиска заявки: %w", err)
	}

	return quote, nil
}

// UpdateQuoteStatus меняет статус заявки и обновляет updated_at.
func (d *Database) UpdateQuoteStatus(ctx context.Context, change QuoteStatusChange) error {
	tag, err := d.db.Exec(ctx, UpdateQuoteStatusQuery, change.ID, string(change.Status), change.Notes, change.ERPQuoteID)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса заявки: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}

	return nil
}

// FindQuotes возвращает страницу заявок, начиная с новых, и общее число подходящих заявок.
func (d *Database) FindQuotes(ctx context.Context, filter models.QuoteFilter, limit, offset int) ([]QuoteDB, int, error) {
	where, args := buildQuoteFilter(filter)

	var total int
	if err := d.db.QueryRow(ctx, "SELECT count(*) FROM quotes "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта заявок: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("%s %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		selectQuoteColumns, where, len(args)-1, len(args))

	rows, err := d.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка поиска заявок: %w", err)
	}
	defer rows.Close()

	var result []QuoteDB
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка обработки строки с заявкой: %w", err)
		}
		result = append(result, *quote)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return result, total, nil
}

// QuoteStats считает сводку по всем заявкам одним запросом.
func (d *Database) QuoteStats(ctx context.Context) (models.Stats, error) {
	var (
		stats      models.Stats
		totalValue string
		lastQuote  *time.Time
	)

	err := d.db.QueryRow(ctx, SelectQuoteStatsQuery).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Processed,
		&stats.SentToERP,
		&stats.SentViaFallback,
		&stats.Failed,
		&totalValue,
		&lastQuote,
	)
	if err != nil {
		return models.Stats{}, fmt.Errorf("ошибка получения статистики заявок: %w", err)
	}

	value, err := decimal.NewFromString(totalValue)
	if err != nil {
		return models.Stats{}, fmt.Errorf("ошибка разбора суммы заявок: %w", err)
	}
	stats.TotalValue = value
	stats.LastQuoteAt = lastQuote

	return stats, nil
}

func scanQuote(row pgx.Row) (*QuoteDB, error) {
	var (
		quote    QuoteDB
		snapshot []byte
		status   string
		priority string
	)

	err := row.Scan(
		&quote.ID,
		&quote.UserID,
		&snapshot,
		&status,
		&priority,
		&quote.Notes,
		&quote.ERPQuoteID,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if quote.Snapshot, err = decodeSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("заявка %d: %w", quote.ID, err)
	}

	quote.Status = models.QuoteStatus(status)
	quote.Priority = models.Priority(priority)

	return &quote, nil
}

// encodeSnapshot сериализует снимок заявки для колонки products_data.
func encodeSnapshot(snapshot models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации заявки: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return models.Snapshot{}, fmt.Errorf("ошибка разбора products_data: %w", err)
	}
	return snapshot, nil
}
