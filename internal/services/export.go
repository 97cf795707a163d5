package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Renal37/go-quote-relay/internal/database"
	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const exportBatchSize = 500

var exportColumns = []string{
	"ID",
	"Date",
	"Customer",
	"Email",
	"Company",
	"Tax ID",
	"Phone",
	"Total",
	"Status",
	"Priority",
	"Items",
	"Notes",
}

type exportStorage interface {
	FindQuotes(ctx context.Context, filter models.QuoteFilter, limit, offset int) ([]database.QuoteDB, int, error)
}

type exportObserver interface {
	ObserveExport(format models.ExportFormat)
}

// ExportService выгружает заявки в файлы каталога выгрузок.
type ExportService struct {
	storage  exportStorage
	dir      string
	baseURL  string
	observer exportObserver
	now      func() time.Time
}

func NewExportService(storage exportStorage, dir, baseURL string, observer exportObserver) *ExportService {
	return &ExportService{
		storage:  storage,
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		observer: observer,
		now:      time.Now,
	}
}

// Export записывает файл и возвращает его URL.
// Если под фильтр не попала ни одна заявка, файл не создаётся.
func (es *ExportService) Export(ctx context.Context, filter models.QuoteFilter, format models.ExportFormat) (string, error) {
	var write func(io.Writer, []models.Quote) error
	switch format {
	case models.ExportCSV:
		write = writeCSV
	case models.ExportJSON:
		write = writeJSON
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	quotes, err := es.collect(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(quotes) == 0 {
		return "", ErrNoData
	}

	if err := os.MkdirAll(es.dir, 0o755); err != nil {
		return "", fmt.Errorf("ошибка создания каталога выгрузок: %w", err)
	}

	name := fmt.Sprintf("quotes-export-%s-%s.%s",
		es.now().Format("2006-01-02-15-04-05"),
		uuid.NewString()[:8],
		format,
	)

	if err := es.writeFile(name, quotes, write); err != nil {
		return "", err
	}

	if es.observer != nil {
		es.observer.ObserveExport(format)
	}

	logger.Log.Info("quotes exported",
		zap.String("file", name),
		zap.String("format", string(format)),
		zap.Int("quotes", len(quotes)),
	)

	return es.baseURL + "/" + name, nil
}

func (es *ExportService) collect(ctx context.Context, filter models.QuoteFilter) ([]models.Quote, error) {
	var quotes []models.Quote

	for offset := 0; ; offset += exportBatchSize {
		rows, total, err := es.storage.FindQuotes(ctx, filter, exportBatchSize, offset)
		if err != nil {
			return nil, fmt.Errorf("ошибка выборки заявок: %w", err)
		}
		for _, row := range rows {
			quotes = append(quotes, row.Quote)
		}
		if len(rows) < exportBatchSize || len(quotes) >= total {
			return quotes, nil
		}
	}
}

// writeFile пишет во временный файл и переименовывает его,
// чтобы по ссылке не был доступен недописанный файл.
func (es *ExportService) writeFile(name string, quotes []models.Quote, write func(io.Writer, []models.Quote) error) error {
	tmp, err := os.CreateTemp(es.dir, ".export-*")
	if err != nil {
		return fmt.Errorf("ошибка создания файла выгрузки: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp, quotes); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка записи выгрузки: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка записи выгрузки: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(es.dir, name)); err != nil {
		return fmt.Errorf("ошибка сохранения выгрузки: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, quotes []models.Quote) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportColumns); err != nil {
		return err
	}

	for _, q := range quotes {
		err := cw.Write([]string{
			strconv.FormatInt(q.ID, 10),
			q.CreatedAt.Format(time.DateTime),
			q.Customer.Name,
			q.Customer.Email,
			q.Customer.CompanyName,
			validation.FormatTaxID(q.Customer.TaxID),
			q.Customer.Phone,
			q.Totals.Total.StringFixed(2),
			string(q.Status),
			string(q.Priority),
			strconv.Itoa(len(q.Items)),
			q.Notes,
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, quotes []models.Quote) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(quotes)
}
