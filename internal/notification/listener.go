package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/printfarm-inventory-service/pkg/broker"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// Listener consumes events from Kafka and forwards them to the webhook.
type Listener struct {
	consumer *broker.KafkaConsumer
	sender   Publisher
	logger   logger.ZapLogger
}

func NewListener(consumer *broker.KafkaConsumer, sender Publisher, log logger.ZapLogger) *Listener {
	return &Listener{
		consumer: consumer,
		sender:   sender,
		logger:   log,
	}
}

func (l *Listener) Start(ctx context.Context) {
	l.logger.Info("Starting notification Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping notification Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *Listener) processMessage(ctx context.Context, value []byte) {
	var ev Event
	if err := json.Unmarshal(value, &ev); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if ev.Type == "" {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := l.sender.Publish(sendCtx, ev); err != nil {
		l.logger.Error("Failed to forward event to webhook",
			zap.String("event", ev.Type),
			zap.String("event_id", ev.ID),
			zap.Error(err),
		)
	}
}
