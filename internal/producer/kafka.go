package producer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jraydirect/wagerloop-sub005/pkg/contracts/events"
)

// SlipEvents publishes slip lifecycle events to Kafka
type SlipEvents struct {
	writer *kafka.Writer
}

// NewSlipEvents creates a publisher for the given brokers ("a:9092,b:9092")
// and topic
func NewSlipEvents(brokers string, topic string) *SlipEvents {
	return &SlipEvents{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(brokers, ",")...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishSlipFinalized emits the finalization event, keyed by user so one
// user's slips stay ordered
func (p *SlipEvents) PublishSlipFinalized(ctx context.Context, e events.SlipFinalized) error {
	e.TsUnixMs = time.Now().UnixMilli()

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.UserID),
		Value: payload,
	})
}

// Close flushes and closes the underlying writer
func (p *SlipEvents) Close() error {
	return p.writer.Close()
}
