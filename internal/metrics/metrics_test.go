package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRegistryHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.BeforeSend(ctx, models.Quote{ID: 1})
	r.AfterSendSuccess(ctx, models.Quote{ID: 1}, models.DeliveryResult{Success: true, Channel: models.ChannelERP})

	r.BeforeSend(ctx, models.Quote{ID: 2})
	r.AfterSendFailure(ctx, models.Quote{ID: 2}, models.DeliveryResult{Channel: models.ChannelFallback})

	body := scrape(t, r)
	assert.Contains(t, body, "quote_relay_delivery_attempts_total 2")
	assert.Contains(t, body, `quote_relay_deliveries_total{channel="erp",status="sent_to_erp"} 1`)
	assert.Contains(t, body, `quote_relay_deliveries_total{channel="fallback",status="erp_failed"} 1`)
	assert.Contains(t, body, `quote_relay_delivery_duration_seconds_count{channel="erp"} 1`)
	assert.Empty(t, r.started)
}

func TestRegistryCounters(t *testing.T) {
	r := NewRegistry()
	r.ObserveSubmission("accepted")
	r.ObserveSubmission("accepted")
	r.ObserveSubmission("rejected")
	r.ObserveExport(models.ExportCSV)

	body := scrape(t, r)
	assert.Contains(t, body, `quote_relay_submissions_total{result="accepted"} 2`)
	assert.Contains(t, body, `quote_relay_submissions_total{result="rejected"} 1`)
	assert.Contains(t, body, `quote_relay_exports_total{format="csv"} 1`)
}
