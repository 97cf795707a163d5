package models

import (
	"time"

	"github.com/Renal37/go-quote-relay/internal/utils"
	"github.com/shopspring/decimal"
)

const QuotesPageSize = 20

// QuoteFilter условия выборки заявок, объединяемые через AND.
// DateTo включает весь указанный день.
type QuoteFilter struct {
	Status   *QuoteStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

type QuotePage struct {
	Items    []Quote `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type StatusUpdate struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes,omitempty"`
}

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

type ExportRequest struct {
	Format   string      `json:"format" validate:"required,oneof=csv json"`
	DateFrom *utils.Date `json:"date_from,omitempty"`
	DateTo   *utils.Date `json:"date_to,omitempty"`
	Status   string      `json:"status,omitempty"`
}

type ExportResult struct {
	URL string `json:"file_url"`
}

type Stats struct {
	Total           int             `json:"total_quotes"`
	Pending         int             `json:"pending_quotes"`
	Processed       int             `json:"processed_quotes"`
	SentToERP       int             `json:"sent_to_erp"`
	SentViaFallback int             `json:"sent_via_fallback"`
	Failed          int             `json:"erp_failed"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LastQuoteAt     *time.Time      `json:"last_quote_date,omitempty"`
	SuccessRate     decimal.Decimal `json:"success_rate"`
	ERPConfigured   bool            `json:"erp_configured"`
}

// Lead запись CRM, создаваемая по заявке.
type Lead struct {
	QuoteID        int64           `json:"quote_id"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	CompanyName    string          `json:"company_name"`
	Phone          string          `json:"phone"`
	IndustryType   string          `json:"industry_type"`
	LabSize        string          `json:"lab_size"`
	AnnualBudget   string          `json:"annual_budget"`
	Status         string          `json:"status"`
	Priority       Priority        `json:"priority"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	ProductsCount  int             `json:"products_count"`
}

// SubmitRequest данные HTTP-запроса, которые попадают в метаданные заявки.
type SubmitRequest struct {
	IPAddress string
	UserAgent string
}

type SubmitResult struct {
	QuoteID int64       `json:"quote_id"`
	Status  QuoteStatus `json:"status"`
	Message string      `json:"message"`
}
