package ports

import "context"

// EventEmitter dispatches domain events to registered handlers. Dispatch is
// synchronous and in-process; handler errors never propagate to the emitter's
// caller.
type EventEmitter interface {
	Emit(ctx context.Context, event interface{})
}
