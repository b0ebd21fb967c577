package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hospital-frontdesk/config"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends keyed JSON messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
	log    *logrus.Logger
}

// NewPublisher returns a Kafka backed publisher, or a no-op one when no
// brokers are configured.
func NewPublisher(cfg config.KafkaConfig, log *logrus.Logger) Publisher {
	if !cfg.Enabled() {
		log.Info("Kafka brokers not configured, stock events are disabled")
		return NoopPublisher{}
	}

	// Async writes keep bill requests off the broker round trip; delivery
	// failures surface through Completion.
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.StockTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warnf("Failed to deliver %d stock event(s) to %s: %+v", len(messages), cfg.StockTopic, err)
			}
		},
	}

	log.Infof("Kafka publisher created for topic %s", cfg.StockTopic)
	return &kafkaPublisher{writer: writer, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.Debugf("Queued message for %s with key %s", p.writer.Topic, key)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, key string, value interface{}) error { return nil }

func (NoopPublisher) Close() error { return nil }
