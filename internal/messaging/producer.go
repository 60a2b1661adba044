package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/employee"
	"github.com/disha2301/employee-payroll-application/internal/metrics"

	"github.com/nats-io/nats.go"
)

const system = "nats"

// Producer publishes JSON messages to one NATS subject.
type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	metrics *metrics.MessagingMetrics
}

func NewProducer(url string, subject string, logger *slog.Logger, m *metrics.MessagingMetrics) (*Producer, error) {
	nc, err := nats.Connect(url,
		nats.Name("employee-service"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
		metrics: m,
	}, nil
}

func (p *Producer) SendMessage(ctx context.Context, value interface{}) error {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal message", "error", err)
		return err
	}

	start := time.Now()
	err = p.conn.Publish(p.subject, valueBytes)
	if err == nil {
		// Publish only buffers; flushing surfaces a dead connection now.
		err = p.conn.FlushWithContext(ctx)
	}
	p.metrics.RecordPublish(ctx, system, p.subject, time.Since(start), err)

	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send message to NATS", "subject", p.subject, "error", err)
		return err
	}

	p.logger.InfoContext(ctx, "message sent to NATS", "subject", p.subject)
	return nil
}

// SendWelcome implements employee.Notifier.
func (p *Producer) SendWelcome(ctx context.Context, event employee.WelcomeEvent) error {
	return p.SendMessage(ctx, event)
}

// Healthy reports whether the connection to the server is up.
func (p *Producer) Healthy() bool {
	return p.conn != nil && p.conn.IsConnected()
}

func (p *Producer) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
