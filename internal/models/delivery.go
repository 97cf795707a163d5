package models

import (
	"context"
	"time"
)

type DeliveryChannel string

const (
	ChannelERP      DeliveryChannel = "erp"
	ChannelFallback DeliveryChannel = "fallback"
)

// FallbackResult итог запасной доставки по почте и вебхуку.
type FallbackResult struct {
	EmailSent   bool `json:"email_sent"`
	WebhookSent bool `json:"webhook_sent"`
}

func (f FallbackResult) Success() bool {
	return f.EmailSent || f.WebhookSent
}

// DeliveryResult итог отправки заявки в ERP или по запасному каналу.
// ERPError хранит исходную ошибку ERP только для логов.
type DeliveryResult struct {
	Success      bool            `json:"success"`
	Channel      DeliveryChannel `json:"channel"`
	Message      string          `json:"message"`
	RemoteID     string          `json:"remote_id,omitempty"`
	ResponseCode int             `json:"response_code,omitempty"`
	ERPError     string          `json:"-"`
	Fallback     *FallbackResult `json:"fallback,omitempty"`
}

// Status статус, который получает заявка после доставки.
func (r DeliveryResult) Status() QuoteStatus {
	switch {
	case r.Success && r.Channel == ChannelERP:
		return StatusSentToERP
	case r.Success:
		return StatusSentViaFallback
	default:
		return StatusERPFailed
	}
}

type ConnectionResult struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	ResponseCode int           `json:"response_code,omitempty"`
	ResponseTime time.Duration `json:"response_time"`
}

// QuoteHooks подписчик на этапы отправки заявки.
// Ошибки подписчиков не влияют на отправку.
type QuoteHooks interface {
	BeforeSend(ctx context.Context, quote Quote)

	AfterSendSuccess(ctx context.Context, quote Quote, result DeliveryResult)

	AfterSendFailure(ctx context.Context, quote Quote, result DeliveryResult)
}
