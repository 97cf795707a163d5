package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNotifier struct {
	calls  int32
	result models.FallbackResult
}

func (n *countingNotifier) Notify(context.Context, models.Quote) models.FallbackResult {
	atomic.AddInt32(&n.calls, 1)
	return n.result
}

func TestERPRelaySend(t *testing.T) {
	testCases := []struct {
		testName        string
		status          int
		body            string
		fallback        models.FallbackResult
		expectedSuccess bool
		expectedChannel models.DeliveryChannel
		expectedStatus  models.QuoteStatus
		expectedRemote  string
		expectedNotify  int32
	}{
		{
			testName:        "Should accept 200 with string quote id",
			status:          http.StatusOK,
			body:            `{"quote_id":"ERP-100"}`,
			expectedSuccess: true,
			expectedChannel: models.ChannelERP,
			expectedStatus:  models.StatusSentToERP,
			expectedRemote:  "ERP-100",
		},
		{
			testName:        "Should accept 201 with numeric quote id",
			status:          http.StatusCreated,
			body:            `{"quote_id":4512}`,
			expectedSuccess: true,
			expectedChannel: models.ChannelERP,
			expectedStatus:  models.StatusSentToERP,
			expectedRemote:  "4512",
		},
		{
			testName:        "Should accept 204 without body",
			status:          http.StatusNoContent,
			expectedSuccess: true,
			expectedChannel: models.ChannelERP,
			expectedStatus:  models.StatusSentToERP,
		},
		{
			testName:        "Should fall back on 503 and report failure when nothing is delivered",
			status:          http.StatusServiceUnavailable,
			body:            `maintenance`,
			expectedChannel: models.ChannelFallback,
			expectedStatus:  models.StatusERPFailed,
			expectedNotify:  1,
		},
		{
			testName:        "Should fall back on 400 and succeed through webhook",
			status:          http.StatusBadRequest,
			fallback:        models.FallbackResult{WebhookSent: true},
			expectedSuccess: true,
			expectedChannel: models.ChannelFallback,
			expectedStatus:  models.StatusSentViaFallback,
			expectedNotify:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			s := testSettings()
			s.ERPEndpoint = srv.URL
			notifier := &countingNotifier{result: tc.fallback}

			result := NewERPRelay(s, testSite(), srv.Client(), notifier).Send(context.Background(), storedQuote(1, models.StatusPending, "7500"))

			assert.Equal(t, tc.expectedSuccess, result.Success)
			assert.Equal(t, tc.expectedChannel, result.Channel)
			assert.Equal(t, tc.expectedStatus, result.Status())
			assert.Equal(t, tc.expectedRemote, result.RemoteID)
			assert.Equal(t, tc.status, result.ResponseCode)
			assert.Equal(t, tc.expectedNotify, atomic.LoadInt32(&notifier.calls))
			if tc.expectedChannel == models.ChannelFallback {
				assert.Contains(t, result.ERPError, "ERP returned error code")
			}
		})
	}
}

func TestERPRelaySendWithoutEndpoint(t *testing.T) {
	notifier := &countingNotifier{}

	result := NewERPRelay(testSettings(), testSite(), nil, notifier).Send(context.Background(), storedQuote(1, models.StatusPending, "7500"))

	assert.False(t, result.Success)
	assert.Equal(t, models.ChannelFallback, result.Channel)
	assert.Equal(t, models.StatusERPFailed, result.Status())
	assert.Equal(t, "All delivery methods failed", result.Message)
	assert.Empty(t, result.ERPError)
	assert.EqualValues(t, 1, notifier.calls)
}

func TestERPRelayRequest(t *testing.T) {
	var (
		header  http.Header
		payload ERPPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := testSettings()
	s.ERPEndpoint = srv.URL
	s.ERPAPIKey = "secret-key"

	relay := NewERPRelay(s, testSite(), srv.Client(), nil,
		WithPayloadMiddlewares(func(_ context.Context, q models.Quote, p *ERPPayload) error {
			p.Customer.Company = "Rewritten"
			return nil
		}),
		WithRequestEditors(func(r *http.Request) { r.Header.Set("X-Tenant", "lab") }),
	)

	quote := storedQuote(9, models.StatusPending, "12.5")
	quote.Metadata.IPAddress = "203.0.113.9"
	result := relay.Send(context.Background(), quote)
	require.True(t, result.Success)

	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, "application/json", header.Get("Accept"))
	assert.Equal(t, "Bearer secret-key", header.Get("Authorization"))
	assert.Equal(t, "quote-relay/1.0.0", header.Get("User-Agent"))
	assert.Equal(t, "lab", header.Get("X-Tenant"))

	assert.Equal(t, "quote_request", payload.Type)
	assert.NotEmpty(t, payload.EventID)
	assert.Equal(t, "Rewritten", payload.Customer.Company)
	assert.Equal(t, "20123456786", payload.Customer.TaxID)
	assert.Equal(t, json.Number("12.50"), payload.Cart.Total)
	assert.Equal(t, int64(9), payload.Metadata.QuoteID)
	assert.Equal(t, "203.0.113.9", payload.Metadata.IPAddress)
	require.Len(t, payload.Products, 1)
	assert.Len(t, payload.Products[0].ScientificData, len(ScientificDataKeys))
	assert.Equal(t, "64-17-5", payload.Products[0].ScientificData["cas_number"])
	assert.Equal(t, "", payload.Products[0].ScientificData["hazard_class"])
}

func TestERPRelayPayloadMiddlewareError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	s := testSettings()
	s.ERPEndpoint = srv.URL
	notifier := &countingNotifier{result: models.FallbackResult{EmailSent: true}}

	relay := NewERPRelay(s, testSite(), srv.Client(), notifier,
		WithPayloadMiddlewares(func(context.Context, models.Quote, *ERPPayload) error {
			return errors.New("blocked")
		}),
	)

	result := relay.Send(context.Background(), storedQuote(1, models.StatusPending, "10"))

	assert.EqualValues(t, 0, atomic.LoadInt32(&hits))
	assert.Equal(t, models.StatusSentViaFallback, result.Status())
	assert.Contains(t, result.ERPError, "blocked")
}

func TestERPRelayTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s := testSettings()
	s.ERPEndpoint = srv.URL
	s.ERPTimeout = 50 * time.Millisecond

	started := time.Now()
	result := NewERPRelay(s, testSite(), srv.Client(), &countingNotifier{}).Send(context.Background(), storedQuote(1, models.StatusPending, "10"))

	assert.Less(t, time.Since(started), 5*time.Second)
	assert.False(t, result.Success)
	assert.Equal(t, models.StatusERPFailed, result.Status())
	assert.Contains(t, result.ERPError, "HTTP error")
}

func TestERPRelayTestConnection(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := testSettings()
	s.ERPEndpoint = srv.URL

	result := NewERPRelay(s, testSite(), srv.Client(), nil).TestConnection(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, http.StatusAccepted, result.ResponseCode)
	assert.Equal(t, "connection_test", payload["type"])

	result = NewERPRelay(testSettings(), testSite(), nil, nil).TestConnection(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, "No ERP endpoint configured", result.Message)
}
