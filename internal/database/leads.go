package database

import (
	"context"
	"fmt"

	"github.com/Renal37/go-quote-relay/internal/models"
)

const (
	InsertLeadQuery = `
		INSERT INTO
			crm_leads (quote_id, customer_name, customer_email, company_name, phone,
			           industry_type, lab_size, annual_budget, status, priority,
			           estimated_value, products_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
)

// CreateLead записывает лид CRM по заявке.
func (d *Database) CreateLead(ctx context.Context, lead models.Lead) error {
	_, err := d.db.Exec(ctx, InsertLeadQuery,
		lead.QuoteID,
		lead.CustomerName,
		lead.CustomerEmail,
		lead.CompanyName,
		lead.Phone,
		lead.IndustryType,
		lead.LabSize,
		lead.AnnualBudget,
		lead.Status,
		string(lead.Priority),
		lead.EstimatedValue.StringFixed(2),
		lead.ProductsCount,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания лида: %w", err)
	}

	return nil
}
