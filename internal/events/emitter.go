package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/kevin07696/billing-service/internal/domain/ports"
	"github.com/kevin07696/billing-service/pkg/observability"
)

// HandlerFunc receives every emitted event; handlers filter by type assertion
type HandlerFunc func(ctx context.Context, event interface{})

// Emitter is a synchronous in-process event dispatcher implementing
// ports.EventEmitter. Handler panics are contained so a misbehaving listener
// cannot break the charge batch.
type Emitter struct {
	mu       sync.RWMutex
	handlers []HandlerFunc
	logger   ports.Logger
}

// NewEmitter creates an emitter; logger records contained handler panics
func NewEmitter(logger ports.Logger) *Emitter {
	return &Emitter{logger: logger}
}

// Register adds a handler for all subsequently emitted events
func (e *Emitter) Register(fn HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, fn)
}

// Emit dispatches the event to every registered handler in registration order
func (e *Emitter) Emit(ctx context.Context, event interface{}) {
	e.mu.RLock()
	handlers := make([]HandlerFunc, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, fn := range handlers {
		e.dispatch(ctx, fn, event)
	}
}

func (e *Emitter) dispatch(ctx context.Context, fn HandlerFunc, event interface{}) {
	defer func() {
		if r := recover(); r != nil && e.logger != nil {
			e.logger.Error("event handler panicked",
				ports.String("event", fmt.Sprintf("%T", event)),
				ports.String("panic", fmt.Sprintf("%v", r)))
		}
	}()
	fn(ctx, event)
}

// MetricsHandler returns a handler that counts charge lifecycle events
func MetricsHandler() HandlerFunc {
	return func(_ context.Context, event interface{}) {
		switch event.(type) {
		case PaymentStatusChanged:
			observability.RecordChargeEvent("payment_status_changed")
		case RecurrentChargeFailTry:
			observability.RecordChargeEvent("recurrent_charge_fail_try")
		case RecurrentChargeFailStop:
			observability.RecordChargeEvent("recurrent_charge_fail_stop")
		}
	}
}

// LoggingHandler returns a handler that logs every charge lifecycle event
func LoggingHandler(logger ports.Logger) HandlerFunc {
	return func(_ context.Context, event interface{}) {
		switch ev := event.(type) {
		case PaymentStatusChanged:
			logger.Info("payment status changed",
				ports.String("payment_id", ev.PaymentID),
				ports.String("from", string(ev.From)),
				ports.String("to", string(ev.To)))
		case RecurrentChargeFailTry:
			logger.Warn("recurrent charge failed, retry scheduled",
				ports.String("recurrent_payment_id", ev.RecurrentPaymentID),
				ports.String("payment_id", ev.PaymentID),
				ports.String("user_id", ev.UserID),
				ports.String("result_code", ev.ResultCode))
		case RecurrentChargeFailStop:
			logger.Warn("recurrent charge failed, chain stopped",
				ports.String("recurrent_payment_id", ev.RecurrentPaymentID),
				ports.String("payment_id", ev.PaymentID),
				ports.String("user_id", ev.UserID),
				ports.String("result_code", ev.ResultCode))
		}
	}
}
