package notification

import (
	"context"
	"time"

	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Notifier is what usecases depend on. Notify must only be called after the
// transaction that produced the event has committed.
type Notifier interface {
	Notify(ev Event)
}

// Dispatcher hands events to a Publisher on a background goroutine.
type Dispatcher struct {
	publisher Publisher
	timeout   time.Duration
	logger    logger.ZapLogger
}

func NewDispatcher(p Publisher, timeout time.Duration, log logger.ZapLogger) *Dispatcher {
	return &Dispatcher{publisher: p, timeout: timeout, logger: log}
}

func (d *Dispatcher) Notify(ev Event) {
	if d == nil || d.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.publisher.Publish(ctx, ev); err != nil {
			d.logger.Error("failed to deliver notification",
				zap.String("event", ev.Type),
				zap.String("event_id", ev.ID),
				zap.Error(err),
			)
		}
	}()
}
