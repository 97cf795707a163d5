package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	erpEventQuoteRequest   = "quote_request"
	erpEventConnectionTest = "connection_test"

	maxERPResponseBody = 1 << 20
)

// ScientificDataKeys технические атрибуты товара, которые всегда есть в выгрузке в ERP.
var ScientificDataKeys = []string{
	"catalog_number",
	"cas_number",
	"molecular_formula",
	"molecular_weight",
	"purity_level",
	"storage_conditions",
	"hazard_class",
	"manufacturer",
	"technical_specifications",
}

// Site сведения о магазине, от имени которого отправляются заявки.
type Site struct {
	Name       string
	URL        string
	AdminEmail string
	Product    string
	Version    string
	Currency   string
}

func (s Site) UserAgent() string {
	return s.Product + "/" + s.Version
}

type ERPPayload struct {
	Type           string         `json:"type"`
	EventID        string         `json:"event_id"`
	Source         string         `json:"source"`
	Timestamp      string         `json:"timestamp"`
	SiteInfo       ERPSiteInfo    `json:"site_info"`
	Customer       ERPCustomer    `json:"customer"`
	BillingAddress models.Address `json:"billing_address"`
	Cart           ERPCart        `json:"cart"`
	Products       []ERPProduct   `json:"products"`
	Metadata       ERPMetadata    `json:"metadata"`
}

type ERPSiteInfo struct {
	SiteName   string `json:"site_name"`
	SiteURL    string `json:"site_url"`
	AdminEmail string `json:"admin_email"`
}

type ERPCustomer struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	TaxID        string `json:"tax_id"`
	Phone        string `json:"phone"`
	IndustryType string `json:"industry_type"`
	LabSize      string `json:"lab_size"`
	AnnualBudget string `json:"annual_budget"`
}

type ERPCart struct {
	Total     json.Number `json:"total"`
	Subtotal  json.Number `json:"subtotal"`
	Tax       json.Number `json:"tax"`
	ItemCount int         `json:"item_count"`
	Currency  string      `json:"currency"`
}

type ERPProduct struct {
	ID             int64             `json:"id"`
	VariationID    int64             `json:"variation_id"`
	Name           string            `json:"name"`
	SKU            string            `json:"sku"`
	Quantity       int               `json:"quantity"`
	UnitPrice      json.Number       `json:"unit_price"`
	LineTotal      json.Number       `json:"line_total"`
	LineTax        json.Number       `json:"line_tax"`
	ScientificData map[string]string `json:"scientific_data"`
}

type ERPMetadata struct {
	QuoteID     int64  `json:"quote_id"`
	UserAgent   string `json:"user_agent"`
	IPAddress   string `json:"ip_address"`
	RequestTime string `json:"request_time"`
}

// PayloadMiddleware изменяет данные для ERP перед отправкой.
// Ошибка прерывает отправку в ERP и включает запасной канал.
type PayloadMiddleware func(ctx context.Context, quote models.Quote, payload *ERPPayload) error

// RequestEditor изменяет HTTP-запрос к ERP, например заголовки.
type RequestEditor func(req *http.Request)

// ERPError неуспешный ответ ERP или сетевая ошибка.
type ERPError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ERPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP error: %s", e.Err.Error())
	}
	return fmt.Sprintf("ERP returned error code: %d", e.StatusCode)
}

func (e *ERPError) Unwrap() error {
	return e.Err
}

// Notifier запасной канал доставки заявки.
type Notifier interface {
	Notify(ctx context.Context, quote models.Quote) models.FallbackResult
}

// ERPRelay отправляет заявки во внешнюю ERP.
// Создаётся на одну операцию со снимком настроек.
type ERPRelay struct {
	settings           settings.Settings
	site               Site
	client             *http.Client
	notifier           Notifier
	payloadMiddlewares []PayloadMiddleware
	requestEditors     []RequestEditor
	now                func() time.Time
}

type ERPOption func(*ERPRelay)

func WithPayloadMiddlewares(m ...PayloadMiddleware) ERPOption {
	return func(r *ERPRelay) { r.payloadMiddlewares = append(r.payloadMiddlewares, m...) }
}

func WithRequestEditors(e ...RequestEditor) ERPOption {
	return func(r *ERPRelay) { r.requestEditors = append(r.requestEditors, e...) }
}

func NewERPRelay(s settings.Settings, site Site, client *http.Client, notifier Notifier, opts ...ERPOption) *ERPRelay {
	if client == nil {
		client = http.DefaultClient
	}

	relay := &ERPRelay{
		settings: s,
		site:     site,
		client:   client,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(relay)
	}

	return relay
}

// Send отправляет заявку в ERP. Если ERP не настроена или отказала,
// заявка уходит через запасной канал, а исходная ошибка сохраняется в ERPError.
func (r *ERPRelay) Send(ctx context.Context, quote models.Quote) models.DeliveryResult {
	if !r.settings.ERPConfigured() {
		logger.Log.Info("ERP endpoint isn't configured, using fallback", zap.Int64("quote_id", quote.ID))
		return r.fallback(ctx, quote, "", 0)
	}

	payload, err := r.buildPayload(ctx, quote)
	if err != nil {
		logger.Log.Warn("failed to build ERP payload", zap.Int64("quote_id", quote.ID), zap.Error(err))
		return r.fallback(ctx, quote, err.Error(), 0)
	}

	status, body, err := r.post(ctx, payload)
	if err != nil {
		logger.Log.Warn("failed to send quote to ERP",
			zap.Int64("quote_id", quote.ID),
			zap.String("customer_email", quote.Customer.Email),
			zap.String("cart_total", quote.Totals.Total.StringFixed(2)),
			zap.String("erp_endpoint", r.settings.ERPEndpoint),
			zap.Int("response_code", status),
			zap.Error(err),
		)
		return r.fallback(ctx, quote, err.Error(), status)
	}

	remoteID := parseRemoteQuoteID(body)

	logger.Log.Info("quote sent to ERP",
		zap.Int64("quote_id", quote.ID),
		zap.String("customer_email", quote.Customer.Email),
		zap.String("cart_total", quote.Totals.Total.StringFixed(2)),
		zap.Int("response_code", status),
		zap.String("erp_quote_id", remoteID),
	)

	return models.DeliveryResult{
		Success:      true,
		Channel:      models.ChannelERP,
		Message:      "Quote sent to ERP successfully",
		RemoteID:     remoteID,
		ResponseCode: status,
	}
}

// TestConnection отправляет в ERP тестовое сообщение и замеряет время ответа.
// Состояние заявок не меняется.
func (r *ERPRelay) TestConnection(ctx context.Context) models.ConnectionResult {
	if !r.settings.ERPConfigured() {
		return models.ConnectionResult{Message: "No ERP endpoint configured"}
	}

	payload := map[string]string{
		"type":      erpEventConnectionTest,
		"timestamp": r.now().Format(time.RFC3339),
		"source":    r.site.URL,
	}

	started := time.Now()
	status, _, err := r.post(ctx, payload)
	elapsed := time.Since(started)

	if err != nil {
		return models.ConnectionResult{
			Message:      fmt.Sprintf("Connection error: %s", err.Error()),
			ResponseCode: status,
			ResponseTime: elapsed,
		}
	}

	return models.ConnectionResult{
		Success:      true,
		Message:      "Successfully connected to the ERP",
		ResponseCode: status,
		ResponseTime: elapsed,
	}
}

func (r *ERPRelay) fallback(ctx context.Context, quote models.Quote, erpErr string, status int) models.DeliveryResult {
	result := models.DeliveryResult{
		Channel:      models.ChannelFallback,
		ResponseCode: status,
		ERPError:     erpErr,
	}

	if r.notifier == nil {
		result.Message = "All delivery methods failed"
		return result
	}

	fb := r.notifier.Notify(ctx, quote)
	result.Fallback = &fb
	result.Success = fb.Success()

	if result.Success {
		result.Message = "Quote sent via fallback method"
	} else {
		result.Message = "All delivery methods failed"
	}

	return result
}

func (r *ERPRelay) buildPayload(ctx context.Context, quote models.Quote) (*ERPPayload, error) {
	currency := quote.Totals.Currency
	if currency == "" {
		currency = r.site.Currency
	}

	payload := &ERPPayload{
		Type:      erpEventQuoteRequest,
		EventID:   uuid.NewString(),
		Source:    r.site.Product,
		Timestamp: r.now().Format(time.RFC3339),
		SiteInfo: ERPSiteInfo{
			SiteName:   r.site.Name,
			SiteURL:    r.site.URL,
			AdminEmail: r.site.AdminEmail,
		},
		Customer: ERPCustomer{
			Name:         quote.Customer.Name,
			Email:        quote.Customer.Email,
			Company:      quote.Customer.CompanyName,
			TaxID:        quote.Customer.TaxID,
			Phone:        quote.Customer.Phone,
			IndustryType: quote.Customer.IndustryType,
			LabSize:      quote.Customer.LabSize,
			AnnualBudget: quote.Customer.AnnualBudget,
		},
		BillingAddress: quote.Customer.BillingAddress,
		Cart: ERPCart{
			Total:     json.Number(quote.Totals.Total.StringFixed(2)),
			Subtotal:  json.Number(quote.Totals.Subtotal.StringFixed(2)),
			Tax:       json.Number(quote.Totals.Tax.StringFixed(2)),
			ItemCount: quote.Totals.ItemCount,
			Currency:  currency,
		},
		Products: make([]ERPProduct, 0, len(quote.Items)),
		Metadata: ERPMetadata{
			QuoteID:     quote.ID,
			UserAgent:   quote.Metadata.UserAgent,
			IPAddress:   quote.Metadata.IPAddress,
			RequestTime: quote.Metadata.RequestedAt.Format(time.RFC3339),
		},
	}

	for _, item := range quote.Items {
		scientific := make(map[string]string, len(ScientificDataKeys))
		for _, key := range ScientificDataKeys {
			scientific[key] = item.Attributes[key]
		}

		payload.Products = append(payload.Products, ERPProduct{
			ID:             item.ProductID,
			VariationID:    item.VariationID,
			Name:           item.Name,
			SKU:            item.SKU,
			Quantity:       item.Quantity,
			UnitPrice:      json.Number(item.UnitPrice.StringFixed(2)),
			LineTotal:      json.Number(item.LineTotal.StringFixed(2)),
			LineTax:        json.Number(item.LineTax.StringFixed(2)),
			ScientificData: scientific,
		})
	}

	for _, m := range r.payloadMiddlewares {
		if err := m(ctx, quote, payload); err != nil {
			return nil, fmt.Errorf("payload middleware: %w", err)
		}
	}

	return payload, nil
}

// post отправляет JSON в ERP и возвращает код и тело успешного ответа.
func (r *ERPRelay) post(ctx context.Context, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.settings.ERPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.settings.ERPEndpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, &ERPError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.site.UserAgent())
	if r.settings.ERPAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.settings.ERPAPIKey)
	}
	for _, edit := range r.requestEditors {
		edit(req)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return 0, nil, &ERPError{Err: err}
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxERPResponseBody))
	if err != nil {
		return res.StatusCode, nil, &ERPError{StatusCode: res.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if r.settings.DebugMode {
		logger.Log.Debug("ERP response",
			zap.Int("response_code", res.StatusCode),
			zap.ByteString("body", respBody),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res.StatusCode, respBody, &ERPError{StatusCode: res.StatusCode, Body: string(respBody)}
	}

	return res.StatusCode, respBody, nil
}

// parseRemoteQuoteID достаёт необязательный quote_id из ответа ERP.
// Значение может быть строкой или числом.
func parseRemoteQuoteID(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}

	var resp struct {
		QuoteID json.RawMessage `json:"quote_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.QuoteID) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(resp.QuoteID, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(resp.QuoteID, &n); err == nil {
		return n.String()
	}

	return ""
}
