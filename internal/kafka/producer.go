package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/employee"
	"github.com/disha2301/employee-payroll-application/internal/metrics"

	"github.com/IBM/sarama"
)

const system = "kafka"

type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	metrics  *metrics.MessagingMetrics
}

// NewConfig returns the producer settings: wait for all replicas, retry
// five times and report successes so SendMessage can return offsets.
func NewConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "employee-service"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	return config
}

func NewProducer(brokers []string, topic string, logger *slog.Logger, m *metrics.MessagingMetrics) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	logger.Info("kafka producer initialized", "brokers", brokers, "topic", topic)
	return NewProducerWithClient(producer, topic, logger, m), nil
}

// NewProducerWithClient wraps an existing SyncProducer, e.g. a sarama mock.
func NewProducerWithClient(producer sarama.SyncProducer, topic string, logger *slog.Logger, m *metrics.MessagingMetrics) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger,
		metrics:  m,
	}
}

func (p *Producer) SendMessage(ctx context.Context, key string, value interface{}) error {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal message", "error", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(valueBytes),
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	p.metrics.RecordPublish(ctx, system, p.topic, time.Since(start), err)

	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send message to kafka", "topic", p.topic, "error", err)
		return err
	}

	p.logger.InfoContext(ctx, "message sent to kafka", "topic", p.topic, "partition", partition, "offset", offset, "key", key)
	return nil
}

// SendWelcome implements employee.Notifier. Events are keyed by employee id
// so every message for one employee lands on the same partition.
func (p *Producer) SendWelcome(ctx context.Context, event employee.WelcomeEvent) error {
	return p.SendMessage(ctx, strconv.FormatInt(event.EmployeeID, 10), event)
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
