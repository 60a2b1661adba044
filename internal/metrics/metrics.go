package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database  *DatabaseMetrics
	Messaging *MessagingMetrics
	Health    *HealthMetrics
	Runtime   *RuntimeMetrics

	employeesCreated metric.Int64Counter
	employeesViewed  metric.Int64Counter
	employeesListed  metric.Int64Counter
	employeesUpdated metric.Int64Counter
	employeesDeleted metric.Int64Counter
	welcomeOutcomes  metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.Database, err = NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.Messaging, err = NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.Health, err = NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.Runtime, err = NewRuntimeMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.employeesCreated, err = meter.Int64Counter(
		"employee_service.employees.created",
		metric.WithDescription("Total number of employees created"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesViewed, err = meter.Int64Counter(
		"employee_service.employees.viewed",
		metric.WithDescription("Total number of single employee reads"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesListed, err = meter.Int64Counter(
		"employee_service.employees.list_viewed",
		metric.WithDescription("Total number of times the employee list was read"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesUpdated, err = meter.Int64Counter(
		"employee_service.employees.updated",
		metric.WithDescription("Total number of employees updated"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesDeleted, err = meter.Int64Counter(
		"employee_service.employees.deleted",
		metric.WithDescription("Total number of employees deleted"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.welcomeOutcomes, err = meter.Int64Counter(
		"employee_service.welcome_notifications",
		metric.WithDescription("Welcome notifications by outcome"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordEmployeeCreated(ctx context.Context) {
	if m != nil && m.employeesCreated != nil {
		m.employeesCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeViewed(ctx context.Context) {
	if m != nil && m.employeesViewed != nil {
		m.employeesViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeesListed(ctx context.Context) {
	if m != nil && m.employeesListed != nil {
		m.employeesListed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeUpdated(ctx context.Context) {
	if m != nil && m.employeesUpdated != nil {
		m.employeesUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeDeleted(ctx context.Context) {
	if m != nil && m.employeesDeleted != nil {
		m.employeesDeleted.Add(ctx, 1)
	}
}

// RecordWelcome counts a welcome notification attempt; outcome is "sent" or "failed".
func (m *Metrics) RecordWelcome(ctx context.Context, err error) {
	if m == nil || m.welcomeOutcomes == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.welcomeOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database:  &DatabaseMetrics{},
		Messaging: &MessagingMetrics{},
		Health:    &HealthMetrics{},
	}
}
