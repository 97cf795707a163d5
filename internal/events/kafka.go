package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TypeQuoteSending        = "quote.sending"
	TypeQuoteDelivered      = "quote.delivered"
	TypeQuoteDeliveryFailed = "quote.delivery_failed"

	publishTimeout = 10 * time.Second
)

// Event сообщение о ходе доставки заявки.
type Event struct {
	ID         string                 `json:"event_id"`
	Type       string                 `json:"type"`
	QuoteID    int64                  `json:"quote_id"`
	Status     models.QuoteStatus     `json:"status"`
	Channel    models.DeliveryChannel `json:"channel,omitempty"`
	RemoteID   string                 `json:"erp_quote_id,omitempty"`
	Total      string                 `json:"total"`
	Currency   string                 `json:"currency"`
	Priority   models.Priority        `json:"priority"`
	Email      string                 `json:"customer_email"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Dispatcher выполняет публикацию вне запроса, например через очередь заданий.
type Dispatcher func(job func(ctx context.Context)) error

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher публикует события доставки заявок в топик Kafka.
// Реализует models.QuoteHooks.
type KafkaPublisher struct {
	writer   kafkaMessageWriter
	dispatch Dispatcher
	now      func() time.Time
}

// NewKafkaPublisher создаёт издателя. brokers список host:port через запятую.
func NewKafkaPublisher(brokers, topic string, dispatch Dispatcher) *KafkaPublisher {
	var addrs []string
	for _, a := range strings.Split(brokers, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}

	return NewKafkaPublisherWith(&kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, dispatch)
}

// NewKafkaPublisherWith is only for tests to inject a fake writer.
func NewKafkaPublisherWith(w kafkaMessageWriter, dispatch Dispatcher) *KafkaPublisher {
	return &KafkaPublisher{writer: w, dispatch: dispatch, now: time.Now}
}

func (p *KafkaPublisher) BeforeSend(ctx context.Context, quote models.Quote) {
	p.publish(ctx, p.event(TypeQuoteSending, quote, models.DeliveryResult{}))
}

func (p *KafkaPublisher) AfterSendSuccess(ctx context.Context, quote models.Quote, result models.DeliveryResult) {
	p.publish(ctx, p.event(TypeQuoteDelivered, quote, result))
}

func (p *KafkaPublisher) AfterSendFailure(ctx context.Context, quote models.Quote, result models.DeliveryResult) {
	p.publish(ctx, p.event(TypeQuoteDeliveryFailed, quote, result))
}

func (p *KafkaPublisher) Close() error {
	if c, ok := p.writer.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (p *KafkaPublisher) event(typ string, quote models.Quote, result models.DeliveryResult) Event {
	status := quote.Status
	if typ != TypeQuoteSending {
		status = result.Status()
	}

	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		QuoteID:    quote.ID,
		Status:     status,
		Channel:    result.Channel,
		RemoteID:   result.RemoteID,
		Total:      quote.Totals.Total.StringFixed(2),
		Currency:   quote.Totals.Currency,
		Priority:   quote.Priority,
		Email:      quote.Customer.Email,
		OccurredAt: p.now().UTC(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, e Event) {
	job := func(ctx context.Context) {
		if err := p.write(ctx, e); err != nil {
			logger.Log.Error("failed to publish quote event",
				zap.String("type", e.Type),
				zap.Int64("quote_id", e.QuoteID),
				zap.Error(err),
			)
		}
	}

	if p.dispatch == nil {
		job(ctx)
		return
	}

	if err := p.dispatch(job); err != nil {
		logger.Log.Warn("quote event dropped",
			zap.String("type", e.Type),
			zap.Int64("quote_id", e.QuoteID),
			zap.Error(err),
		)
	}
}

func (p *KafkaPublisher) write(ctx context.Context, e Event) error {
	b, err := json.Marshal(&e)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.QuoteID, 10)),
		Value: b,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
}
