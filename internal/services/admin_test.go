package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdminService(store *memoryStore, s *staticSettings, relay *stubRelay, hooks ...models.QuoteHooks) *AdminService {
	exporter := NewExportService(store, "", "https://shop.example.com/exports", nil)
	return NewAdminService(store, s, &stubRelayFactory{relay: relay}, exporter, stubPDF{}, hooks...)
}

func TestAdminServiceAuthorization(t *testing.T) {
	customer := testCustomer()

	operations := map[string]func(as *AdminService, actor *models.User) error{
		"ListQuotes": func(as *AdminService, actor *models.User) error {
			_, err := as.ListQuotes(context.Background(), actor, models.QuoteFilter{}, 1)
			return err
		},
		"GetQuote": func(as *AdminService, actor *models.User) error {
			_, err := as.GetQuote(context.Background(), actor, 1)
			return err
		},
		"UpdateStatus": func(as *AdminService, actor *models.User) error {
			return as.UpdateStatus(context.Background(), actor, 1, models.StatusUpdate{Status: "processed"})
		},
		"Resend": func(as *AdminService, actor *models.User) error {
			_, err := as.Resend(context.Background(), actor, 1)
			return err
		},
		"Export": func(as *AdminService, actor *models.User) error {
			_, err := as.Export(context.Background(), actor, models.QuoteFilter{}, models.ExportCSV)
			return err
		},
		"TestConnection": func(as *AdminService, actor *models.User) error {
			_, err := as.TestConnection(context.Background(), actor)
			return err
		},
		"Stats": func(as *AdminService, actor *models.User) error {
			_, err := as.Stats(context.Background(), actor)
			return err
		},
		"UpdateSettings": func(as *AdminService, actor *models.User) error {
			return as.UpdateSettings(context.Background(), actor, map[string]string{"debug_mode": "yes"})
		},
		"RenderPDF": func(as *AdminService, actor *models.User) error {
			_, err := as.RenderPDF(context.Background(), actor, 1)
			return err
		},
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			store := newMemoryStore()
			store.put(storedQuote(1, models.StatusPending, "10"))
			relay := &stubRelay{}
			s := &staticSettings{settings: testSettings()}
			as := newTestAdminService(store, s, relay)

			err := op(as, customer)
			assert.ErrorIs(t, err, ErrPermissionDenied)

			var authErr *AuthError
			require.ErrorAs(t, op(as, nil), &authErr)
			assert.True(t, authErr.LoginRequired)

			assert.Zero(t, store.callCount())
			assert.Empty(t, relay.sent)
			assert.Nil(t, s.updated)
		})
	}
}

func TestAdminServiceGetQuote(t *testing.T) {
	store := newMemoryStore()
	stored := storedQuote(3, models.StatusSentToERP, "42.10")
	store.put(stored)
	as := newTestAdminService(store, &staticSettings{settings: testSettings()}, &stubRelay{})

	first, err := as.GetQuote(context.Background(), testAdmin(), 3)
	require.NoError(t, err)
	second, err := as.GetQuote(context.Background(), testAdmin(), 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, stored.Items, first.Items)

	_, err = as.GetQuote(context.Background(), testAdmin(), 404)
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestAdminServiceUpdateStatus(t *testing.T) {
	notes := "called the customer"

	testCases := []struct {
		testName string
		current  models.QuoteStatus
		update   models.StatusUpdate
		quoteID  int64
		expected error
	}{
		{testName: "Should process pending quote", current: models.StatusPending, update: models.StatusUpdate{Status: "processed", Notes: &notes}, quoteID: 1},
		{testName: "Should allow notes only update", current: models.StatusProcessed, update: models.StatusUpdate{Status: "processed", Notes: &notes}, quoteID: 1},
		{testName: "Should reject unknown status", current: models.StatusPending, update: models.StatusUpdate{Status: "archived"}, quoteID: 1, expected: ErrInvalidStatus},
		{testName: "Should reject leaving processed", current: models.StatusProcessed, update: models.StatusUpdate{Status: "pending"}, quoteID: 1, expected: ErrInvalidTransition},
		{testName: "Should reject going back to pending", current: models.StatusERPFailed, update: models.StatusUpdate{Status: "pending"}, quoteID: 1, expected: ErrInvalidTransition},
		{testName: "Should report missing quote", current: models.StatusPending, update: models.StatusUpdate{Status: "processed"}, quoteID: 2, expected: ErrQuoteNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			store := newMemoryStore()
			store.put(storedQuote(1, tc.current, "10"))
			as := newTestAdminService(store, &staticSettings{settings: testSettings()}, &stubRelay{})

			err := as.UpdateStatus(context.Background(), testAdmin(), tc.quoteID, tc.update)
			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				assert.Equal(t, tc.current, store.get(1).Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.update.Status, string(store.get(1).Status))
			assert.Equal(t, notes, store.get(1).Notes)
		})
	}
}

func TestAdminServiceResend(t *testing.T) {
	testCases := []struct {
		testName       string
		current        models.QuoteStatus
		delivery       models.DeliveryResult
		expected       error
		expectedStatus models.QuoteStatus
	}{
		{
			testName:       "Should resend failed quote to ERP",
			current:        models.StatusERPFailed,
			delivery:       models.DeliveryResult{Success: true, Channel: models.ChannelERP, RemoteID: "R-1"},
			expectedStatus: models.StatusSentToERP,
		},
		{
			testName:       "Should resend quote delivered via fallback",
			current:        models.StatusSentViaFallback,
			delivery:       models.DeliveryResult{Channel: models.ChannelFallback},
			expectedStatus: models.StatusERPFailed,
		},
		{
			testName:       "Should resend pending quote",
			current:        models.StatusPending,
			delivery:       models.DeliveryResult{Success: true, Channel: models.ChannelFallback},
			expectedStatus: models.StatusSentViaFallback,
		},
		{
			testName:       "Should refuse quote already in ERP",
			current:        models.StatusSentToERP,
			expected:       ErrResendNotAvailable,
			expectedStatus: models.StatusSentToERP,
		},
		{
			testName:       "Should refuse processed quote",
			current:        models.StatusProcessed,
			expected:       ErrResendNotAvailable,
			expectedStatus: models.StatusProcessed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			store := newMemoryStore()
			stored := storedQuote(1, tc.current, "10")
			store.put(stored)
			relay := &stubRelay{result: tc.delivery}
			hooks := &recordingHooks{}

			as := newTestAdminService(store, &staticSettings{settings: testSettings()}, relay, hooks)

			result, err := as.Resend(context.Background(), testAdmin(), 1)
			assert.Equal(t, tc.expectedStatus, store.get(1).Status)

			if tc.expected != nil {
				assert.ErrorIs(t, err, tc.expected)
				assert.Empty(t, relay.sent)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.delivery, result)
			require.Len(t, relay.sent, 1)
			assert.Equal(t, stored.Snapshot, relay.sent[0].Snapshot)
			assert.Len(t, hooks.events, 2)
		})
	}
}

func TestAdminServiceStats(t *testing.T) {
	store := newMemoryStore()
	store.put(storedQuote(1, models.StatusSentToERP, "100"))
	store.put(storedQuote(2, models.StatusProcessed, "50"))
	store.put(storedQuote(3, models.StatusERPFailed, "25.50"))

	s := testSettings()
	s.ERPEndpoint = "https://erp.example.com/quotes"
	as := newTestAdminService(store, &staticSettings{settings: s}, &stubRelay{})

	stats, err := as.Stats(context.Background(), testAdmin())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Failed)
	assert.True(t, decimal.RequireFromString("175.50").Equal(stats.TotalValue))
	assert.Equal(t, "66.67", stats.SuccessRate.StringFixed(2))
	assert.True(t, stats.ERPConfigured)

	empty := newTestAdminService(newMemoryStore(), &staticSettings{settings: testSettings()}, &stubRelay{})
	stats, err = empty.Stats(context.Background(), testAdmin())
	require.NoError(t, err)
	assert.True(t, stats.SuccessRate.IsZero())
	assert.False(t, stats.ERPConfigured)
}

func TestAdminServiceUpdateSettings(t *testing.T) {
	s := &staticSettings{settings: testSettings()}
	as := newTestAdminService(newMemoryStore(), s, &stubRelay{})

	err := as.UpdateSettings(context.Background(), testAdmin(), map[string]string{settings.KeyERPEndpoint: "ftp://erp"})
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Nil(t, s.updated)

	values := map[string]string{settings.KeyERPEndpoint: "https://erp.example.com", settings.KeyDebugMode: "yes"}
	require.NoError(t, as.UpdateSettings(context.Background(), testAdmin(), values))
	assert.Equal(t, values, s.updated)

	s.err = errors.New("db down")
	assert.Error(t, as.UpdateSettings(context.Background(), testAdmin(), values))
}

func TestAdminServiceTestConnection(t *testing.T) {
	relay := &stubRelay{connection: models.ConnectionResult{Success: true, ResponseCode: 200}}
	as := newTestAdminService(newMemoryStore(), &staticSettings{settings: testSettings()}, relay)

	result, err := as.TestConnection(context.Background(), testAdmin())
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestAdminServiceListQuotes(t *testing.T) {
	store := newMemoryStore()
	for i := int64(1); i <= 25; i++ {
		store.put(storedQuote(i, models.StatusPending, "10"))
	}
	as := newTestAdminService(store, &staticSettings{settings: testSettings()}, &stubRelay{})

	page, err := as.ListQuotes(context.Background(), testAdmin(), models.QuoteFilter{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Items, models.QuotesPageSize)
	assert.Equal(t, int64(25), page.Items[0].ID)

	page, err = as.ListQuotes(context.Background(), testAdmin(), models.QuoteFilter{}, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
}

func TestAdminServiceRenderPDF(t *testing.T) {
	store := newMemoryStore()
	store.put(storedQuote(1, models.StatusPending, "10"))
	as := newTestAdminService(store, &staticSettings{settings: testSettings()}, &stubRelay{})

	doc, err := as.RenderPDF(context.Background(), testAdmin(), 1)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "%PDF")

	_, err = as.RenderPDF(context.Background(), testAdmin(), 2)
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}
