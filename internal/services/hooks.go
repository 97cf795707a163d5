package services

import (
	"context"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"go.uber.org/zap"
)

// HookChain вызывает подписчиков по порядку. Паника подписчика логируется
// и не прерывает доставку.
type HookChain []models.QuoteHooks

func (c HookChain) BeforeSend(ctx context.Context, quote models.Quote) {
	for _, h := range c {
		guard("before_send", quote.ID, func() { h.BeforeSend(ctx, quote) })
	}
}

func (c HookChain) AfterSendSuccess(ctx context.Context, quote models.Quote, result models.DeliveryResult) {
	for _, h := range c {
		guard("after_send_success", quote.ID, func() { h.AfterSendSuccess(ctx, quote, result) })
	}
}

func (c HookChain) AfterSendFailure(ctx context.Context, quote models.Quote, result models.DeliveryResult) {
	for _, h := range c {
		guard("after_send_failure", quote.ID, func() { h.AfterSendFailure(ctx, quote, result) })
	}
}

func guard(stage string, quoteID int64, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("quote hook panicked",
				zap.String("stage", stage),
				zap.Int64("quote_id", quoteID),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

// LoggingHooks пишет этапы доставки в лог.
type LoggingHooks struct{}

func (LoggingHooks) BeforeSend(_ context.Context, quote models.Quote) {
	logger.Log.Debug("sending quote",
		zap.Int64("quote_id", quote.ID),
		zap.String("user_id", quote.UserID),
		zap.String("priority", string(quote.Priority)),
	)
}

func (LoggingHooks) AfterSendSuccess(_ context.Context, quote models.Quote, result models.DeliveryResult) {
	logger.Log.Info("quote delivered",
		zap.Int64("quote_id", quote.ID),
		zap.String("user_id", quote.UserID),
		zap.String("channel", string(result.Channel)),
		zap.String("message", result.Message),
	)
}

func (LoggingHooks) AfterSendFailure(_ context.Context, quote models.Quote, result models.DeliveryResult) {
	logger.Log.Warn("quote delivery failed",
		zap.Int64("quote_id", quote.ID),
		zap.String("user_id", quote.UserID),
		zap.String("message", result.Message),
		zap.String("erp_error", result.ERPError),
	)
}
