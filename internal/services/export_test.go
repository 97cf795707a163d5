package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExports map[models.ExportFormat]int

func (c countingExports) ObserveExport(format models.ExportFormat) { c[format]++ }

func newTestExportService(store *memoryStore, dir string, observer exportObserver) *ExportService {
	es := NewExportService(store, dir, "https://shop.example.com/exports/", observer)
	es.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) }
	return es
}

func exportedFile(t *testing.T, dir, url string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(url, "https://shop.example.com/exports/quotes-export-2024-03-15-09-30-00-"), url)
	return filepath.Join(dir, filepath.Base(url))
}

func TestExportServiceNoData(t *testing.T) {
	dir := t.TempDir()
	store := newMemoryStore()
	store.put(storedQuote(1, models.StatusPending, "10"))

	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := newTestExportService(store, dir, nil).Export(context.Background(), models.QuoteFilter{DateFrom: &from, DateTo: &to}, models.ExportCSV)
	assert.ErrorIs(t, err, ErrNoData)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	store := newMemoryStore()

	_, err := newTestExportService(store, t.TempDir(), nil).Export(context.Background(), models.QuoteFilter{}, "xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, store.callCount())
}

func TestExportServiceCSV(t *testing.T) {
	dir := t.TempDir()
	store := newMemoryStore()
	first := storedQuote(1, models.StatusSentToERP, "1500")
	bulk := models.NewCart([]models.LineItem{lineItem(1, "10", 50), lineItem(2, "1000", 1)}, "USD")
	first.Items, first.Totals = bulk.Items, bulk.Totals
	first.Notes = `urgent, "cold chain"`
	store.put(first)
	store.put(storedQuote(2, models.StatusERPFailed, "10"))
	store.put(storedQuote(3, models.StatusPending, "10"))

	status := models.StatusERPFailed
	observer := countingExports{}
	es := newTestExportService(store, dir, observer)

	url, err := es.Export(context.Background(), models.QuoteFilter{}, models.ExportCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".csv"))

	f, err := os.Open(exportedFile(t, dir, url))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, exportColumns, records[0])

	last := records[3]
	assert.Equal(t, []string{
		"1",
		"2024-03-01 12:00:00",
		"Jane Doe",
		"jane@example.com",
		"",
		"20-12345678-6",
		"",
		"1500.00",
		"sent_to_erp",
		"low",
		"2",
		`urgent, "cold chain"`,
	}, last)
	assert.Equal(t, 51, first.Totals.ItemCount)

	url, err = es.Export(context.Background(), models.QuoteFilter{Status: &status}, models.ExportCSV)
	require.NoError(t, err)

	data, err := os.ReadFile(exportedFile(t, dir, url))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(string(data)), "\n")+1)
	assert.Equal(t, 2, observer[models.ExportCSV])
}

func TestExportServiceJSON(t *testing.T) {
	dir := t.TempDir()
	store := newMemoryStore()
	quote := storedQuote(4, models.StatusProcessed, "9999.99")
	quote.Customer.CompanyName = "R&D <Labs>"
	store.put(quote)

	url, err := newTestExportService(store, dir, nil).Export(context.Background(), models.QuoteFilter{}, models.ExportJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".json"))

	data, err := os.ReadFile(exportedFile(t, dir, url))
	require.NoError(t, err)
	assert.Contains(t, string(data), "R&D <Labs>")
	assert.Contains(t, string(data), "\n  ")

	var decoded []models.Quote
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, quote.ID, decoded[0].ID)
	assert.Equal(t, quote.Customer, decoded[0].Customer)
	assert.True(t, quote.Totals.Total.Equal(decoded[0].Totals.Total))
	assert.Equal(t, models.PriorityMedium, decoded[0].Priority)
}
