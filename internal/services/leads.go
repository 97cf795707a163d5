package services

import (
	"context"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"go.uber.org/zap"
)

const leadStatusNew = "new"

type leadStorage interface {
	CreateLead(ctx context.Context, lead models.Lead) error
}

// LeadHooks создаёт лид CRM после попытки доставки новой заявки.
type LeadHooks struct {
	storage leadStorage
}

func NewLeadHooks(storage leadStorage) *LeadHooks {
	return &LeadHooks{storage: storage}
}

func (h *LeadHooks) BeforeSend(context.Context, models.Quote) {}

func (h *LeadHooks) AfterSendSuccess(ctx context.Context, quote models.Quote, _ models.DeliveryResult) {
	h.create(ctx, quote)
}

func (h *LeadHooks) AfterSendFailure(ctx context.Context, quote models.Quote, _ models.DeliveryResult) {
	h.create(ctx, quote)
}

func (h *LeadHooks) create(ctx context.Context, quote models.Quote) {
	err := h.storage.CreateLead(ctx, LeadFromQuote(quote))
	if err != nil {
		logger.Log.Error("failed to create crm lead", zap.Int64("quote_id", quote.ID), zap.Error(err))
	}
}

func LeadFromQuote(quote models.Quote) models.Lead {
	return models.Lead{
		QuoteID:        quote.ID,
		CustomerName:   quote.Customer.Name,
		CustomerEmail:  quote.Customer.Email,
		CompanyName:    quote.Customer.CompanyName,
		Phone:          quote.Customer.Phone,
		IndustryType:   quote.Customer.IndustryType,
		LabSize:        quote.Customer.LabSize,
		AnnualBudget:   quote.Customer.AnnualBudget,
		Status:         leadStatusNew,
		Priority:       quote.Priority,
		EstimatedValue: quote.Totals.Total,
		ProductsCount:  len(quote.Items),
	}
}
