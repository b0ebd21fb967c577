package messaging

import (
	"testing"
	"time"

	"hospital-frontdesk/config"
	"hospital-frontdesk/internal/testutil"
)

func TestNewPublisher_DisabledWithoutBrokers(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{StockTopic: "stock-movements"}, testutil.NewLogger())
	if _, ok := p.(NoopPublisher); !ok {
		t.Fatalf("publisher = %T, want NoopPublisher", p)
	}
}

func TestNewPublisher_DoesNotBlockCallers(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{
		Brokers:    []string{"127.0.0.1:9092"},
		StockTopic: "stock-movements",
	}, testutil.NewLogger())
	kp, ok := p.(*kafkaPublisher)
	if !ok {
		t.Fatalf("publisher = %T, want *kafkaPublisher", p)
	}
	defer kp.writer.Close()

	if !kp.writer.Async {
		t.Error("writer should be async")
	}
	if kp.writer.BatchTimeout <= 0 || kp.writer.BatchTimeout > 50*time.Millisecond {
		t.Errorf("batch timeout = %s", kp.writer.BatchTimeout)
	}
	if kp.writer.Completion == nil {
		t.Error("delivery failures are not reported")
	}
	if kp.writer.Topic != "stock-movements" {
		t.Errorf("topic = %s", kp.writer.Topic)
	}
}
