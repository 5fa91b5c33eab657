package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"kungfu-delivery/internal/domain"
	"kungfu-delivery/internal/service"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes order events keyed by order id so the events of one
// order stay on one partition.
type KafkaPublisher struct {
	Writer messageWriter
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: payload,
	})
}

var _ service.EventPublisher = (*KafkaPublisher)(nil)
