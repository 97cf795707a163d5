package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Renal37/go-quote-relay/internal/database"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store is down")

// memoryStore хранилище заявок и корзин в памяти для тестов сервисов.
type memoryStore struct {
	mu      sync.Mutex
	nextID  int64
	carts   map[string][]models.LineItem
	quotes  map[int64]models.Quote
	leads   []models.Lead
	calls   int
	failOn  map[string]error
	changes []database.QuoteStatusChange
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		carts:  map[string][]models.LineItem{},
		quotes: map[int64]models.Quote{},
		failOn: map[string]error{},
	}
}

func (m *memoryStore) touch(op string) error {
	m.calls++
	return m.failOn[op]
}

func (m *memoryStore) FindCartItems(_ context.Context, userID string) ([]models.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch("FindCartItems"); err != nil {
		return nil, err
	}
	items := make([]models.LineItem, len(m.carts[userID]))
	copy(items, m.carts[userID])
	return items, nil
}

func (m *memoryStore) CreateQuote(_ context.Context, quote *database.QuoteDB) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch("CreateQuote"); err != nil {
		return err
	}
	m.nextID++
	quote.ID = m.nextID
	quote.Status = models.StatusPending
	quote.Priority = models.PriorityFor(quote.Totals.Total)
	quote.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	quote.UpdatedAt = quote.CreatedAt
	m.quotes[quote.ID] = quote.Quote
	return nil
}

func (m *memoryStore) FindQuote(_ context.Context, quoteID int64) (*database.QuoteDB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch("FindQuote"); err != nil {
		return nil, err
	}
	q, ok := m.quotes[quoteID]
	if !ok {
		return nil, nil
	}
	return &database.QuoteDB{Quote: q}, nil
}

func (m *memoryStore) UpdateQuoteStatus(_ context.Context, change database.QuoteStatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch("UpdateQuoteStatus"); err != nil {
		return err
	}
	q, ok := m.quotes[change.ID]
	if !ok {
		return database.ErrQuoteNotFound
	}
	q.Status = change.Status
	if change.Notes != nil {
		q.Notes = *change.Notes
	}
	if change.ERPQuoteID != nil {
		q.ERPQuoteID = *change.ERPQuoteID
	}
	m.quotes[change.ID] = q
	m.changes = append(m.changes, change)
	return nil
}

func (m *memoryStore) FindQuotes(_ context.Context, filter models.QuoteFilter, limit, offset int) ([]database.QuoteDB, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch("FindQuotes"); err != nil {
		return nil, 0, err
	}

	var matched []models.Quote
	for _, q := range m.quotes {
		if filter.Status != nil && q.Status != *filter.Status {
			continue
		}
		if filter.DateFrom != nil && q.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !q.CreatedAt.Before(filter.DateTo.AddDate(0, 0, 1)) {
			continue
		}
		matched = append(matched, q)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	var rows []database.QuoteDB
	for i := offset; i < len(matched) && i < offset+limit; i++ {
		rows = append(rows, database.QuoteDB{Quote: matched[i]})
	}
	return rows, len(matched), nil
}

func (m *memoryStore) QuoteStats(_ context.Context) (models.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch("QuoteStats"); err != nil {
		return models.Stats{}, err
	}

	stats := models.Stats{TotalValue: decimal.Zero}
	for _, q := range m.quotes {
		stats.Total++
		stats.TotalValue = stats.TotalValue.Add(q.Totals.Total)
		switch q.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusProcessed:
			stats.Processed++
		case models.StatusSentToERP:
			stats.SentToERP++
		case models.StatusSentViaFallback:
			stats.SentViaFallback++
		case models.StatusERPFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (m *memoryStore) CreateLead(_ context.Context, lead models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.touch("CreateLead"); err != nil {
		return err
	}
	m.leads = append(m.leads, lead)
	return nil
}

func (m *memoryStore) put(q models.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[q.ID] = q
	if q.ID > m.nextID {
		m.nextID = q.ID
	}
}

func (m *memoryStore) get(id int64) models.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quotes[id]
}

func (m *memoryStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type staticSettings struct {
	settings settings.Settings
	err      error
	updated  map[string]string
}

func (s *staticSettings) Load(context.Context) (settings.Settings, error) {
	return s.settings, s.err
}

func (s *staticSettings) Update(_ context.Context, values map[string]string) error {
	s.updated = values
	return s.err
}

type recordingMailer struct {
	mu     sync.Mutex
	emails []Email
	err    error
}

func (m *recordingMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = append(m.emails, email)
	return m.err
}

func (m *recordingMailer) sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.emails...)
}

type stubPDF struct {
	err error
}

func (p stubPDF) Generate(models.Quote) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-1.3 stub"), nil
}

type stubRelay struct {
	result     models.DeliveryResult
	connection models.ConnectionResult
	sent       []models.Quote
}

func (r *stubRelay) Send(_ context.Context, quote models.Quote) models.DeliveryResult {
	r.sent = append(r.sent, quote)
	return r.result
}

func (r *stubRelay) TestConnection(context.Context) models.ConnectionResult {
	return r.connection
}

type stubRelayFactory struct {
	relay    *stubRelay
	settings []settings.Settings
}

func (f *stubRelayFactory) NewRelay(s settings.Settings) Relay {
	f.settings = append(f.settings, s)
	return f.relay
}

type recordingHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) BeforeSend(context.Context, models.Quote) { h.add("before") }

func (h *recordingHooks) AfterSendSuccess(context.Context, models.Quote, models.DeliveryResult) {
	h.add("success")
}

func (h *recordingHooks) AfterSendFailure(context.Context, models.Quote, models.DeliveryResult) {
	h.add("failure")
}

func testSite() Site {
	return Site{
		Name:       "Lab Supplies",
		URL:        "https://shop.example.com",
		AdminEmail: "owner@example.com",
		Product:    "quote-relay",
		Version:    "1.0.0",
		Currency:   "USD",
	}
}

func testSettings() settings.Settings {
	s := settings.Defaults("admin@example.com")
	s.EmailNotifications = false
	s.AutoCreateLeads = false
	return s
}

func testCustomer() *models.User {
	return &models.User{
		ID:    "7",
		Login: "jdoe",
		Role:  models.RoleCustomer,
		Profile: models.Profile{
			DisplayName: "Jane Doe",
			Email:       "jane@example.com",
			CompanyName: "Acme Labs",
			TaxID:       "20-12345678-6",
			Phone:       "+1 555 0100",
		},
	}
}

func testAdmin() *models.User {
	return &models.User{ID: "1", Login: "admin", Role: models.RoleAdministrator}
}

func lineItem(id int64, price string, qty int) models.LineItem {
	unit := decimal.RequireFromString(price)
	total := unit.Mul(decimal.NewFromInt(int64(qty)))
	return models.LineItem{
		ProductID: id,
		Name:      "Reagent",
		SKU:       "RG-1",
		Quantity:  qty,
		UnitPrice: unit,
		LineTotal: total,
		LineTax:   decimal.Zero,
		Attributes: map[string]string{
			"cas_number": "64-17-5",
		},
	}
}

func storedQuote(id int64, status models.QuoteStatus, total string) models.Quote {
	cart := models.NewCart([]models.LineItem{lineItem(1, total, 1)}, "USD")
	return models.Quote{
		ID:     id,
		UserID: "7",
		Snapshot: models.Snapshot{
			Customer: models.Customer{Name: "Jane Doe", Email: "jane@example.com", TaxID: "20123456786"},
			Items:    cart.Items,
			Totals:   cart.Totals,
		},
		Status:    status,
		Priority:  models.PriorityFor(cart.Totals.Total),
		CreatedAt: time.Date(2024, 3, int(id), 12, 0, 0, 0, time.UTC),
	}
}
