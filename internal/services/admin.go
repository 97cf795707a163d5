package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Renal37/go-quote-relay/internal/database"
	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/pdf"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type adminStorage interface {
	FindQuote(ctx context.Context, quoteID int64) (*database.QuoteDB, error)
	FindQuotes(ctx context.Context, filter models.QuoteFilter, limit, offset int) ([]database.QuoteDB, int, error)
	UpdateQuoteStatus(ctx context.Context, change database.QuoteStatusChange) error
	QuoteStats(ctx context.Context) (models.Stats, error)
}

type settingsManager interface {
	settingsLoader
	Update(ctx context.Context, values map[string]string) error
}

// AdminService операции администратора над сохранёнными заявками.
// Права проверяются до любого обращения к хранилищу или ERP.
type AdminService struct {
	storage  adminStorage
	settings settingsManager
	relays   RelayFactory
	exporter *ExportService
	pdf      pdf.Generator
	hooks    HookChain
}

func NewAdminService(
	storage adminStorage,
	settings settingsManager,
	relays RelayFactory,
	exporter *ExportService,
	generator pdf.Generator,
	hooks ...models.QuoteHooks,
) *AdminService {
	return &AdminService{
		storage:  storage,
		settings: settings,
		relays:   relays,
		exporter: exporter,
		pdf:      generator,
		hooks:    hooks,
	}
}

func authorize(actor *models.User) error {
	if actor == nil {
		return &AuthError{LoginRequired: true}
	}
	if !actor.IsElevated() {
		return ErrPermissionDenied
	}
	return nil
}

func (as *AdminService) ListQuotes(ctx context.Context, actor *models.User, filter models.QuoteFilter, page int) (models.QuotePage, error) {
	if err := authorize(actor); err != nil {
		return models.QuotePage{}, err
	}
	if page < 1 {
		page = 1
	}

	rows, total, err := as.storage.FindQuotes(ctx, filter, models.QuotesPageSize, (page-1)*models.QuotesPageSize)
	if err != nil {
		return models.QuotePage{}, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}

	items := make([]models.Quote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.Quote)
	}

	return models.QuotePage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: models.QuotesPageSize,
	}, nil
}

func (as *AdminService) GetQuote(ctx context.Context, actor *models.User, quoteID int64) (*models.Quote, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	return as.find(ctx, quoteID)
}

func (as *AdminService) find(ctx context.Context, quoteID int64) (*models.Quote, error) {
	row, err := as.storage.FindQuote(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявки: %w", err)
	}
	if row == nil {
		return nil, ErrQuoteNotFound
	}
	return &row.Quote, nil
}

// UpdateStatus меняет статус заявки и, если переданы, заметки.
func (as *AdminService) UpdateStatus(ctx context.Context, actor *models.User, quoteID int64, update models.StatusUpdate) error {
	if err := authorize(actor); err != nil {
		return err
	}

	next, ok := models.ParseQuoteStatus(update.Status)
	if !ok {
		return ErrInvalidStatus
	}

	quote, err := as.find(ctx, quoteID)
	if err != nil {
		return err
	}
	if !quote.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, quote.Status, next)
	}

	err = as.storage.UpdateQuoteStatus(ctx, database.QuoteStatusChange{
		ID:     quoteID,
		Status: next,
		Notes:  update.Notes,
	})
	if errors.Is(err, database.ErrQuoteNotFound) {
		return ErrQuoteNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса: %w", err)
	}

	logger.Log.Info("quote status updated",
		zap.Int64("quote_id", quoteID),
		zap.String("from", string(quote.Status)),
		zap.String("to", string(next)),
		zap.String("admin_id", actor.ID),
	)

	return nil
}

// Resend повторно отправляет сохранённый снимок заявки.
// Доступно только для заявок, которые ещё не приняты ERP.
func (as *AdminService) Resend(ctx context.Context, actor *models.User, quoteID int64) (models.DeliveryResult, error) {
	if err := authorize(actor); err != nil {
		return models.DeliveryResult{}, err
	}

	quote, err := as.find(ctx, quoteID)
	if err != nil {
		return models.DeliveryResult{}, err
	}

	switch quote.Status {
	case models.StatusPending, models.StatusERPFailed, models.StatusSentViaFallback:
	default:
		return models.DeliveryResult{}, fmt.Errorf("%w: %s", ErrResendNotAvailable, quote.Status)
	}

	s, err := as.settings.Load(ctx)
	if err != nil {
		return models.DeliveryResult{}, fmt.Errorf("ошибка загрузки настроек: %w", err)
	}

	logger.Log.Info("resending quote", zap.Int64("quote_id", quoteID), zap.String("admin_id", actor.ID))

	return deliver(context.WithoutCancel(ctx), as.storage, as.relays.NewRelay(s), as.hooks, *quote), nil
}

func (as *AdminService) Export(ctx context.Context, actor *models.User, filter models.QuoteFilter, format models.ExportFormat) (string, error) {
	if err := authorize(actor); err != nil {
		return "", err
	}
	return as.exporter.Export(ctx, filter, format)
}

func (as *AdminService) TestConnection(ctx context.Context, actor *models.User) (models.ConnectionResult, error) {
	if err := authorize(actor); err != nil {
		return models.ConnectionResult{}, err
	}

	s, err := as.settings.Load(ctx)
	if err != nil {
		return models.ConnectionResult{}, fmt.Errorf("ошибка загрузки настроек: %w", err)
	}

	return as.relays.NewRelay(s).TestConnection(ctx), nil
}

var hundred = decimal.NewFromInt(100)

func (as *AdminService) Stats(ctx context.Context, actor *models.User) (models.Stats, error) {
	if err := authorize(actor); err != nil {
		return models.Stats{}, err
	}

	stats, err := as.storage.QuoteStats(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("ошибка получения статистики: %w", err)
	}

	s, err := as.settings.Load(ctx)
	if err != nil {
		return models.Stats{}, fmt.Errorf("ошибка загрузки настроек: %w", err)
	}

	stats.SuccessRate = decimal.Zero
	if stats.Total > 0 {
		delivered := decimal.NewFromInt(int64(stats.SentToERP + stats.Processed))
		stats.SuccessRate = delivered.Mul(hundred).Div(decimal.NewFromInt(int64(stats.Total))).Round(2)
	}
	stats.ERPConfigured = s.ERPConfigured()

	return stats, nil
}

func (as *AdminService) UpdateSettings(ctx context.Context, actor *models.User, values map[string]string) error {
	if err := authorize(actor); err != nil {
		return err
	}

	if err := settings.Check(values); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	if err := as.settings.Update(ctx, values); err != nil {
		return err
	}

	logger.Log.Info("settings updated", zap.String("admin_id", actor.ID), zap.Int("keys", len(values)))
	return nil
}

func (as *AdminService) RenderPDF(ctx context.Context, actor *models.User, quoteID int64) ([]byte, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}

	quote, err := as.find(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	doc, err := as.pdf.Generate(*quote)
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования PDF: %w", err)
	}
	return doc, nil
}
