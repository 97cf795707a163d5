package services

import (
	"context"
	"net/http"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/pdf"
	"github.com/Renal37/go-quote-relay/internal/settings"
)

// Relay доставка заявки, собранная под конкретный снимок настроек.
type Relay interface {
	Send(ctx context.Context, quote models.Quote) models.DeliveryResult

	TestConnection(ctx context.Context) models.ConnectionResult
}

type RelayFactory interface {
	NewRelay(s settings.Settings) Relay
}

// Delivery собирает ERPRelay с запасным каналом для каждой операции.
type Delivery struct {
	site               Site
	client             *http.Client
	mailer             Mailer
	pdf                pdf.Generator
	payloadMiddlewares []PayloadMiddleware
	requestEditors     []RequestEditor
}

func NewDelivery(site Site, client *http.Client, mailer Mailer, generator pdf.Generator) *Delivery {
	return &Delivery{site: site, client: client, mailer: mailer, pdf: generator}
}

func (d *Delivery) WithPayloadMiddlewares(m ...PayloadMiddleware) *Delivery {
	d.payloadMiddlewares = append(d.payloadMiddlewares, m...)
	return d
}

func (d *Delivery) WithRequestEditors(e ...RequestEditor) *Delivery {
	d.requestEditors = append(d.requestEditors, e...)
	return d
}

func (d *Delivery) NewRelay(s settings.Settings) Relay {
	notifier := NewFallbackNotifier(s, d.site, d.client, d.mailer, d.pdf)

	return NewERPRelay(s, d.site, d.client, notifier,
		WithPayloadMiddlewares(d.payloadMiddlewares...),
		WithRequestEditors(d.requestEditors...),
	)
}
