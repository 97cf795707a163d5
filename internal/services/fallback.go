package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/pdf"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/Renal37/go-quote-relay/internal/validation"
	"go.uber.org/zap"
)

const (
	webhookEventQuoteRequest = "quote_request"
	webhookTimeout           = 15 * time.Second
)

var adminEmailTemplate = template.Must(template.New("admin-quote").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2>New quote request #{{.Quote.ID}}</h2>
<p>A customer has requested a quote on {{.SiteName}}.</p>
<h3>Customer</h3>
<table cellpadding="4">
<tr><td><strong>Name</strong></td><td>{{.Quote.Customer.Name}}</td></tr>
<tr><td><strong>Email</strong></td><td>{{.Quote.Customer.Email}}</td></tr>
{{if .Quote.Customer.CompanyName}}<tr><td><strong>Company</strong></td><td>{{.Quote.Customer.CompanyName}}</td></tr>{{end}}
{{if .TaxID}}<tr><td><strong>Tax ID</strong></td><td>{{.TaxID}}</td></tr>{{end}}
{{if .Quote.Customer.Phone}}<tr><td><strong>Phone</strong></td><td>{{.Quote.Customer.Phone}}</td></tr>{{end}}
{{if .Quote.Customer.IndustryType}}<tr><td><strong>Industry</strong></td><td>{{.Quote.Customer.IndustryType}}</td></tr>{{end}}
</table>
<h3>Products</h3>
<table cellpadding="4" border="1" style="border-collapse: collapse;">
<tr><th>SKU</th><th>Product</th><th>Qty</th><th>Unit price</th><th>Total</th></tr>
{{range .Quote.Items}}<tr><td>{{.SKU}}</td><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice.StringFixed 2}}</td><td>{{.LineTotal.StringFixed 2}}</td></tr>
{{end}}</table>
<p>Subtotal: {{.Quote.Totals.Subtotal.StringFixed 2}}<br>
Tax: {{.Quote.Totals.Tax.StringFixed 2}}<br>
<strong>Total: {{.Quote.Totals.Total.StringFixed 2}} {{.Quote.Totals.Currency}}</strong></p>
<p>Priority: {{.Quote.Priority}}</p>
{{if .AdminURL}}<p><a href="{{.AdminURL}}">Open quotes</a></p>{{end}}
</body>
</html>
`))

type adminEmailData struct {
	Quote    models.Quote
	SiteName string
	TaxID    string
	AdminURL string
}

type webhookEnvelope struct {
	Event     string       `json:"event"`
	Data      models.Quote `json:"data"`
	Timestamp string       `json:"timestamp"`
	Source    string       `json:"source"`
}

// FallbackNotifier доставляет заявку по почте и вебхуку, когда ERP недоступна.
// Создаётся на одну операцию со снимком настроек.
type FallbackNotifier struct {
	settings settings.Settings
	site     Site
	client   *http.Client
	mailer   Mailer
	pdf      pdf.Generator
	now      func() time.Time
}

func NewFallbackNotifier(s settings.Settings, site Site, client *http.Client, mailer Mailer, generator pdf.Generator) *FallbackNotifier {
	if client == nil {
		client = http.DefaultClient
	}

	return &FallbackNotifier{
		settings: s,
		site:     site,
		client:   client,
		mailer:   mailer,
		pdf:      generator,
		now:      time.Now,
	}
}

// Notify пробует оба канала. Ошибки только логируются.
func (n *FallbackNotifier) Notify(ctx context.Context, quote models.Quote) models.FallbackResult {
	result := models.FallbackResult{
		EmailSent:   n.sendEmail(ctx, quote),
		WebhookSent: n.sendWebhook(ctx, quote),
	}

	logger.Log.Info("fallback notification finished",
		zap.Int64("quote_id", quote.ID),
		zap.Bool("email_sent", result.EmailSent),
		zap.Bool("webhook_sent", result.WebhookSent),
	)

	return result
}

func (n *FallbackNotifier) sendEmail(ctx context.Context, quote models.Quote) bool {
	if !n.settings.EmailNotifications || n.mailer == nil {
		return false
	}

	to := n.settings.AdminEmail
	if to == "" {
		to = n.site.AdminEmail
	}
	if to == "" {
		return false
	}

	var body bytes.Buffer
	err := adminEmailTemplate.Execute(&body, adminEmailData{
		Quote:    quote,
		SiteName: n.site.Name,
		TaxID:    validation.FormatTaxID(quote.Customer.TaxID),
		AdminURL: n.adminURL(),
	})
	if err != nil {
		logger.Log.Error("failed to render admin email", zap.Int64("quote_id", quote.ID), zap.Error(err))
		return false
	}

	email := Email{
		To:      to,
		ReplyTo: quote.Customer.Email,
		Subject: fmt.Sprintf("New Quote Request - %s", quote.Customer.Name),
		HTML:    body.String(),
	}

	if n.pdf != nil {
		data, err := n.pdf.Generate(quote)
		if err != nil {
			logger.Log.Warn("failed to attach quote pdf", zap.Int64("quote_id", quote.ID), zap.Error(err))
		} else {
			email.Attachments = append(email.Attachments, Attachment{
				Name:        fmt.Sprintf("quote-%d.pdf", quote.ID),
				ContentType: "application/pdf",
				Data:        data,
			})
		}
	}

	if err := n.mailer.Send(ctx, email); err != nil {
		logger.Log.Error("failed to send admin email", zap.Int64("quote_id", quote.ID), zap.String("to", to), zap.Error(err))
		return false
	}

	return true
}

func (n *FallbackNotifier) sendWebhook(ctx context.Context, quote models.Quote) bool {
	if n.settings.WebhookURL == "" {
		return false
	}

	body, err := json.Marshal(webhookEnvelope{
		Event:     webhookEventQuoteRequest,
		Data:      quote,
		Timestamp: n.now().Format(time.RFC3339),
		Source:    n.site.URL,
	})
	if err != nil {
		logger.Log.Error("failed to encode webhook payload", zap.Int64("quote_id", quote.ID), zap.Error(err))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, webhookTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.settings.WebhookURL, bytes.NewReader(body))
	if err != nil {
		logger.Log.Error("failed to create webhook request", zap.Int64("quote_id", quote.ID), zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		logger.Log.Warn("failed to send webhook", zap.Int64("quote_id", quote.ID), zap.Error(err))
		return false
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		logger.Log.Warn("webhook returned unexpected status", zap.Int64("quote_id", quote.ID), zap.Int("response_code", res.StatusCode))
		return false
	}

	return true
}

func (n *FallbackNotifier) adminURL() string {
	if n.site.URL == "" {
		return ""
	}
	return n.site.URL + "/api/admin/quotes"
}
