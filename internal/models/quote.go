package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	StatusPending         QuoteStatus = "pending"
	StatusSentToERP       QuoteStatus = "sent_to_erp"
	StatusSentViaFallback QuoteStatus = "sent_via_fallback"
	StatusERPFailed       QuoteStatus = "erp_failed"
	StatusProcessed       QuoteStatus = "processed"
)

var knownStatuses = []QuoteStatus{
	StatusPending,
	StatusSentToERP,
	StatusSentViaFallback,
	StatusERPFailed,
	StatusProcessed,
}

// ParseQuoteStatus возвращает статус по имени и признак того, что он известен.
func ParseQuoteStatus(s string) (QuoteStatus, bool) {
	for _, st := range knownStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s QuoteStatus) IsTerminal() bool {
	return s == StatusProcessed
}

// CanTransitionTo сообщает, допустим ли переход сохранённой заявки из s в next.
// Тот же статус разрешён всегда: так редактируются только заметки.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	switch next {
	case StatusProcessed:
		return true
	case StatusSentToERP, StatusSentViaFallback, StatusERPFailed:
		return s == StatusPending || s == StatusERPFailed || s == StatusSentViaFallback
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var (
	highPriorityTotal   = decimal.NewFromInt(10000)
	mediumPriorityTotal = decimal.NewFromInt(5000)
)

// PriorityFor вычисляет приоритет заявки по её сумме.
func PriorityFor(total decimal.Decimal) Priority {
	switch {
	case total.GreaterThanOrEqual(highPriorityTotal):
		return PriorityHigh
	case total.GreaterThanOrEqual(mediumPriorityTotal):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// LineItem строка корзины, зафиксированная в момент отправки.
type LineItem struct {
	ProductID   int64             `json:"product_id"`
	VariationID int64             `json:"variation_id"`
	Name        string            `json:"name"`
	SKU         string            `json:"sku"`
	Quantity    int               `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	LineTotal   decimal.Decimal   `json:"line_total"`
	LineTax     decimal.Decimal   `json:"line_tax"`
	Attributes  map[string]string `json:"attributes"`
}

type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	Currency  string          `json:"currency"`
}

type Customer struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	CompanyName    string  `json:"company_name"`
	TaxID          string  `json:"tax_id"`
	Phone          string  `json:"phone"`
	IndustryType   string  `json:"industry_type"`
	LabSize        string  `json:"lab_size"`
	AnnualBudget   string  `json:"annual_budget"`
	BillingAddress Address `json:"billing_address"`
}

type RequestMetadata struct {
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	RequestedAt time.Time `json:"requested_at"`
}

// Snapshot часть заявки, сохраняемая в products_data.
// После сохранения из каталога не обновляется.
type Snapshot struct {
	Customer Customer        `json:"customer"`
	Items    []LineItem      `json:"items"`
	Totals   Totals          `json:"totals"`
	Metadata RequestMetadata `json:"metadata"`
}

type Quote struct {
	ID     int64  `json:"id"`
	UserID string `json:"user_id"`
	Snapshot
	Status     QuoteStatus `json:"status"`
	Priority   Priority    `json:"priority"`
	Notes      string      `json:"notes"`
	ERPQuoteID string      `json:"erp_quote_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
