package notification

import (
	"context"
	"encoding/json"

	"github.com/fekuna/printfarm-inventory-service/pkg/broker"
)

// KafkaPublisher writes events to the notification topic; the Listener on the
// other side turns them into webhook calls.
type KafkaPublisher struct {
	producer *broker.KafkaProducer
}

func NewKafkaPublisher(producer *broker.KafkaProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (k *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return k.producer.Publish(ctx, []byte(ev.Key), value)
}
