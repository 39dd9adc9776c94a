package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kevin07696/billing-service/internal/adapters/logger"
	"github.com/kevin07696/billing-service/internal/domain/models"
	"go.uber.org/zap"
)

func TestEmitter_DispatchesInRegistrationOrder(t *testing.T) {
	e := NewEmitter(logger.Wrap(zap.NewNop()))

	var order []string
	e.Register(func(_ context.Context, _ interface{}) { order = append(order, "first") })
	e.Register(func(_ context.Context, _ interface{}) { order = append(order, "second") })

	e.Emit(context.Background(), PaymentStatusChanged{PaymentID: "p1"})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEmitter_HandlerPanicIsContained(t *testing.T) {
	e := NewEmitter(logger.Wrap(zap.NewNop()))

	var delivered []interface{}
	e.Register(func(_ context.Context, _ interface{}) { panic("listener bug") })
	e.Register(func(_ context.Context, event interface{}) { delivered = append(delivered, event) })

	ev := RecurrentChargeFailStop{RecurrentPaymentID: "rp1", ResultCode: "59"}
	assert.NotPanics(t, func() { e.Emit(context.Background(), ev) })

	// the panicking handler must not starve the ones after it
	assert.Equal(t, []interface{}{ev}, delivered)
}

func TestEmitter_TypedEventsRoundTrip(t *testing.T) {
	e := NewEmitter(logger.Wrap(zap.NewNop()))

	var failTries []RecurrentChargeFailTry
	e.Register(func(_ context.Context, event interface{}) {
		if ev, ok := event.(RecurrentChargeFailTry); ok {
			failTries = append(failTries, ev)
		}
	})

	e.Emit(context.Background(), PaymentStatusChanged{
		PaymentID: "p1",
		From:      models.PaymentStatusForm,
		To:        models.PaymentStatusPaid,
	})
	e.Emit(context.Background(), RecurrentChargeFailTry{RecurrentPaymentID: "rp1", ResultCode: "51"})

	assert.Len(t, failTries, 1)
	assert.Equal(t, "rp1", failTries[0].RecurrentPaymentID)
}
