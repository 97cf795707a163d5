package services

import (
	"context"
	"testing"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/stretchr/testify/assert"
)

type panickingHooks struct{}

func (panickingHooks) BeforeSend(context.Context, models.Quote) { panic("boom") }

func (panickingHooks) AfterSendSuccess(context.Context, models.Quote, models.DeliveryResult) {
	panic("boom")
}

func (panickingHooks) AfterSendFailure(context.Context, models.Quote, models.DeliveryResult) {
	panic("boom")
}

func TestHookChainRecoversPanics(t *testing.T) {
	recorder := &recordingHooks{}
	chain := HookChain{panickingHooks{}, LoggingHooks{}, recorder}
	quote := storedQuote(1, models.StatusPending, "10")

	assert.NotPanics(t, func() {
		chain.BeforeSend(context.Background(), quote)
		chain.AfterSendSuccess(context.Background(), quote, models.DeliveryResult{Success: true})
		chain.AfterSendFailure(context.Background(), quote, models.DeliveryResult{})
	})
	assert.Equal(t, []string{"before", "success", "failure"}, recorder.events)
}

func TestLeadHooksIgnoreStorageErrors(t *testing.T) {
	store := newMemoryStore()
	store.failOn["CreateLead"] = errStoreDown
	hooks := NewLeadHooks(store)

	assert.NotPanics(t, func() {
		hooks.AfterSendFailure(context.Background(), storedQuote(1, models.StatusPending, "10"), models.DeliveryResult{})
	})
	assert.Empty(t, store.leads)
}
