package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Renal37/go-quote-relay/internal/database"
	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/Renal37/go-quote-relay/internal/validation"
	"go.uber.org/zap"
)

const (
	submissionAccepted = "accepted"
	submissionRejected = "rejected"
	submissionFailed   = "failed"
)

// QuoteMiddleware меняет заявку перед сохранением.
// Ошибка прерывает отправку, заявка не сохраняется.
type QuoteMiddleware func(ctx context.Context, quote *models.Quote) error

type quoteStorage interface {
	FindCartItems(ctx context.Context, userID string) ([]models.LineItem, error)
	CreateQuote(ctx context.Context, quote *database.QuoteDB) error
	UpdateQuoteStatus(ctx context.Context, change database.QuoteStatusChange) error
	leadStorage
}

type settingsLoader interface {
	Load(ctx context.Context) (settings.Settings, error)
}

type submissionObserver interface {
	ObserveSubmission(result string)
}

type QuoteService struct {
	storage     quoteStorage
	settings    settingsLoader
	validator   *validation.Validator
	relays      RelayFactory
	site        Site
	hooks       HookChain
	middlewares []QuoteMiddleware
	observer    submissionObserver
	now         func() time.Time
}

type QuoteOption func(*QuoteService)

func WithQuoteHooks(h ...models.QuoteHooks) QuoteOption {
	return func(qs *QuoteService) { qs.hooks = append(qs.hooks, h...) }
}

func WithQuoteMiddlewares(m ...QuoteMiddleware) QuoteOption {
	return func(qs *QuoteService) { qs.middlewares = append(qs.middlewares, m...) }
}

func WithSubmissionObserver(o submissionObserver) QuoteOption {
	return func(qs *QuoteService) { qs.observer = o }
}

func NewQuoteService(
	storage quoteStorage,
	settings settingsLoader,
	validator *validation.Validator,
	relays RelayFactory,
	site Site,
	opts ...QuoteOption,
) *QuoteService {
	qs := &QuoteService{
		storage:   storage,
		settings:  settings,
		validator: validator,
		relays:    relays,
		site:      site,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(qs)
	}
	return qs
}

// Submit превращает корзину пользователя в заявку и отправляет её в ERP.
// После сохранения заявки ошибки доставки покупателю не возвращаются.
func (qs *QuoteService) Submit(ctx context.Context, user *models.User, req models.SubmitRequest) (models.SubmitResult, error) {
	result, err := qs.submit(ctx, user, req)

	switch {
	case err == nil:
		qs.observe(submissionAccepted)
	case errors.Is(err, ErrPersistence):
		qs.observe(submissionFailed)
	default:
		qs.observe(submissionRejected)
	}

	return result, err
}

func (qs *QuoteService) submit(ctx context.Context, user *models.User, req models.SubmitRequest) (models.SubmitResult, error) {
	if user == nil {
		return models.SubmitResult{}, loginRequired()
	}

	s, err := qs.settings.Load(ctx)
	if err != nil {
		logger.Log.Error("failed to load settings", zap.String("user_id", user.ID), zap.Error(err))
		return models.SubmitResult{}, &PersistenceError{Message: settings.DefaultErrorMessage, Err: err}
	}

	cart, err := qs.cart(ctx, user)
	if err != nil {
		return models.SubmitResult{}, &PersistenceError{Message: s.ErrorMessage, Err: err}
	}

	if err := qs.validate(cart, user, s); err != nil {
		return models.SubmitResult{}, err
	}

	quote := qs.newQuote(cart, user, req)
	for _, m := range qs.middlewares {
		if err := m(ctx, &quote); err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				return models.SubmitResult{}, verr
			}
			logger.Log.Error("quote middleware failed", zap.String("user_id", user.ID), zap.Error(err))
			return models.SubmitResult{}, &PersistenceError{Message: s.ErrorMessage, Err: err}
		}
	}

	record := &database.QuoteDB{Quote: quote}
	if err := qs.storage.CreateQuote(ctx, record); err != nil {
		logger.Log.Error("failed to save quote", zap.String("user_id", user.ID), zap.Error(err))
		return models.SubmitResult{}, &PersistenceError{Message: s.ErrorMessage, Err: err}
	}
	quote = record.Quote

	logger.Log.Info("quote saved",
		zap.Int64("quote_id", quote.ID),
		zap.String("user_id", user.ID),
		zap.String("total", quote.Totals.Total.StringFixed(2)),
		zap.String("priority", string(quote.Priority)),
	)

	hooks := qs.hooks
	if s.AutoCreateLeads {
		hooks = append(append(HookChain{}, hooks...), NewLeadHooks(qs.storage))
	}

	delivery := deliver(context.WithoutCancel(ctx), qs.storage, qs.relays.NewRelay(s), hooks, quote)

	return models.SubmitResult{
		QuoteID: quote.ID,
		Status:  delivery.Status(),
		Message: s.SuccessMessage,
	}, nil
}

// CartSummary итоги корзины и возможность запросить по ней заявку.
func (qs *QuoteService) CartSummary(ctx context.Context, user *models.User) (models.CartSummary, error) {
	if user == nil {
		return models.CartSummary{}, loginRequired()
	}

	s, err := qs.settings.Load(ctx)
	if err != nil {
		return models.CartSummary{}, &PersistenceError{Message: settings.DefaultErrorMessage, Err: err}
	}

	cart, err := qs.cart(ctx, user)
	if err != nil {
		return models.CartSummary{}, &PersistenceError{Message: s.ErrorMessage, Err: err}
	}

	summary := models.CartSummary{
		Cart:            cart,
		FormattedTotal:  strings.TrimSpace(cart.Totals.Total.StringFixed(2) + " " + cart.Totals.Currency),
		CanRequestQuote: true,
	}

	var verr *validation.Error
	if err := qs.validator.Validate(cart, user, s); errors.As(err, &verr) {
		summary.CanRequestQuote = false
		summary.Problems = verr.Messages()
	}

	return summary, nil
}

// ValidateCart проверяет корзину без создания заявки.
func (qs *QuoteService) ValidateCart(ctx context.Context, user *models.User) error {
	if user == nil {
		return loginRequired()
	}

	s, err := qs.settings.Load(ctx)
	if err != nil {
		return &PersistenceError{Message: settings.DefaultErrorMessage, Err: err}
	}

	cart, err := qs.cart(ctx, user)
	if err != nil {
		return &PersistenceError{Message: s.ErrorMessage, Err: err}
	}

	return qs.validate(cart, user, s)
}

func (qs *QuoteService) cart(ctx context.Context, user *models.User) (models.Cart, error) {
	items, err := qs.storage.FindCartItems(ctx, user.ID)
	if err != nil {
		logger.Log.Error("failed to read cart", zap.String("user_id", user.ID), zap.Error(err))
		return models.Cart{}, fmt.Errorf("failed to read cart: %w", err)
	}
	return models.NewCart(items, qs.site.Currency), nil
}

func (qs *QuoteService) validate(cart models.Cart, user *models.User, s settings.Settings) error {
	err := qs.validator.Validate(cart, user, s)

	var verr *validation.Error
	if !errors.As(err, &verr) {
		return err
	}

	auth, rest := splitAuthReasons(verr)
	switch {
	case auth != nil:
		return auth
	case rest != nil:
		return rest
	default:
		return nil
	}
}

func (qs *QuoteService) newQuote(cart models.Cart, user *models.User, req models.SubmitRequest) models.Quote {
	profile := user.Profile

	return models.Quote{
		UserID: user.ID,
		Snapshot: models.Snapshot{
			Customer: models.Customer{
				Name:           validation.CustomerName(user),
				Email:          strings.TrimSpace(profile.Email),
				CompanyName:    strings.TrimSpace(profile.CompanyName),
				TaxID:          validation.NormalizeTaxID(profile.TaxID),
				Phone:          strings.TrimSpace(profile.Phone),
				IndustryType:   profile.IndustryType,
				LabSize:        profile.LabSize,
				AnnualBudget:   profile.AnnualBudget,
				BillingAddress: profile.Billing,
			},
			Items:  cart.Items,
			Totals: cart.Totals,
			Metadata: models.RequestMetadata{
				IPAddress:   req.IPAddress,
				UserAgent:   req.UserAgent,
				RequestedAt: qs.now().UTC(),
			},
		},
		Status:   models.StatusPending,
		Priority: models.PriorityFor(cart.Totals.Total),
	}
}

func (qs *QuoteService) observe(result string) {
	if qs.observer != nil {
		qs.observer.ObserveSubmission(result)
	}
}

type statusUpdater interface {
	UpdateQuoteStatus(ctx context.Context, change database.QuoteStatusChange) error
}

// deliver отправляет сохранённую заявку и записывает итоговый статус.
// Сбой записи статуса только логируется.
func deliver(ctx context.Context, storage statusUpdater, relay Relay, hooks HookChain, quote models.Quote) models.DeliveryResult {
	hooks.BeforeSend(ctx, quote)

	result := relay.Send(ctx, quote)

	change := database.QuoteStatusChange{ID: quote.ID, Status: result.Status()}
	if result.RemoteID != "" {
		remoteID := result.RemoteID
		change.ERPQuoteID = &remoteID
	}

	if err := storage.UpdateQuoteStatus(ctx, change); err != nil {
		logger.Log.Error("failed to update quote status",
			zap.Int64("quote_id", quote.ID),
			zap.String("status", string(change.Status)),
			zap.Error(err),
		)
	} else {
		quote.Status = change.Status
		if change.ERPQuoteID != nil {
			quote.ERPQuoteID = *change.ERPQuoteID
		}
	}

	if result.Success {
		hooks.AfterSendSuccess(ctx, quote, result)
	} else {
		hooks.AfterSendFailure(ctx, quote, result)
	}

	return result
}

func loginRequired() *AuthError {
	return &AuthError{
		LoginRequired: true,
		Reasons: []validation.Reason{{
			Code:    validation.CodeNotAuthenticated,
			Message: "You must be logged in to request a quote",
		}},
	}
}
