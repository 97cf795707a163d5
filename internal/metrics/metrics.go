package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry метрики конвейера заявок. Реализует models.QuoteHooks.
type Registry struct {
	reg              *prometheus.Registry
	Submissions      *prometheus.CounterVec
	DeliveryAttempts prometheus.Counter
	Deliveries       *prometheus.CounterVec
	DeliverySec      *prometheus.HistogramVec
	Exports          *prometheus.CounterVec

	mu      sync.Mutex
	started map[int64]time.Time
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_relay_submissions_total",
		Help: "Quote submissions by outcome.",
	}, []string{"result"})
	attempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quote_relay_delivery_attempts_total",
		Help: "Quote delivery attempts, including admin resends.",
	})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_relay_deliveries_total",
		Help: "Finished quote deliveries by channel and status.",
	}, []string{"channel", "status"})
	deliverySec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_relay_delivery_duration_seconds",
		Help:    "Time spent delivering a quote to the ERP or fallback channels.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30, 45},
	}, []string{"channel"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_relay_exports_total",
		Help: "Generated quote exports by format.",
	}, []string{"format"})

	r.MustRegister(submissions, attempts, deliveries, deliverySec, exports)
	return &Registry{
		reg:              r,
		Submissions:      submissions,
		DeliveryAttempts: attempts,
		Deliveries:       deliveries,
		DeliverySec:      deliverySec,
		Exports:          exports,
		started:          map[int64]time.Time{},
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ObserveSubmission учитывает исход отправки заявки: accepted, rejected или failed.
func (r *Registry) ObserveSubmission(result string) {
	r.Submissions.WithLabelValues(result).Inc()
}

func (r *Registry) ObserveExport(format models.ExportFormat) {
	r.Exports.WithLabelValues(string(format)).Inc()
}

func (r *Registry) BeforeSend(_ context.Context, quote models.Quote) {
	r.DeliveryAttempts.Inc()

	r.mu.Lock()
	r.started[quote.ID] = time.Now()
	r.mu.Unlock()
}

func (r *Registry) AfterSendSuccess(_ context.Context, quote models.Quote, result models.DeliveryResult) {
	r.observeDelivery(quote, result)
}

func (r *Registry) AfterSendFailure(_ context.Context, quote models.Quote, result models.DeliveryResult) {
	r.observeDelivery(quote, result)
}

func (r *Registry) observeDelivery(quote models.Quote, result models.DeliveryResult) {
	r.Deliveries.WithLabelValues(string(result.Channel), string(result.Status())).Inc()

	r.mu.Lock()
	started, ok := r.started[quote.ID]
	delete(r.started, quote.ID)
	r.mu.Unlock()

	if ok {
		r.DeliverySec.WithLabelValues(string(result.Channel)).Observe(time.Since(started).Seconds())
	}
}
