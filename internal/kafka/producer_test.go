package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/employee"
	"github.com/disha2301/employee-payroll-application/internal/kafka"
	"github.com/disha2301/employee-payroll-application/internal/logger"
	"github.com/disha2301/employee-payroll-application/internal/metrics"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_SendWelcome(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, kafka.NewConfig())
	producer := kafka.NewProducerWithClient(mockProducer, "employees.welcome", logger.Discard(), metrics.NewMock().Messaging)

	event := employee.NewWelcomeEvent(&employee.Employee{ID: 42, Email: "a@x.com", Name: "Alice"},
		"Welcome to Gevernova!", time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC))

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "employees.welcome" {
			return fmt.Errorf("unexpected topic %q", msg.Topic)
		}

		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return fmt.Errorf("unexpected key %q", key)
		}

		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got employee.WelcomeEvent
		if err := json.Unmarshal(value, &got); err != nil {
			return err
		}
		if got.EventID != event.EventID || got.EmployeeID != 42 || got.Body != event.Body {
			return fmt.Errorf("unexpected event %+v", got)
		}
		return nil
	})

	require.NoError(t, producer.SendWelcome(context.Background(), event))
	require.NoError(t, producer.Close())
}

func TestProducer_SendFailure(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, kafka.NewConfig())
	producer := kafka.NewProducerWithClient(mockProducer, "employees.welcome", logger.Discard(), nil)

	brokerDown := errors.New("kafka: client has run out of available brokers")
	mockProducer.ExpectSendMessageAndFail(brokerDown)

	err := producer.SendMessage(context.Background(), "1", map[string]string{"hello": "world"})
	assert.ErrorIs(t, err, brokerDown)
	require.NoError(t, producer.Close())
}

func TestProducer_MarshalFailure(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, kafka.NewConfig())
	producer := kafka.NewProducerWithClient(mockProducer, "employees.welcome", logger.Discard(), nil)

	err := producer.SendMessage(context.Background(), "1", make(chan int))
	assert.Error(t, err)
	require.NoError(t, producer.Close())
}

func TestNewConfig(t *testing.T) {
	config := kafka.NewConfig()

	assert.Equal(t, sarama.WaitForAll, config.Producer.RequiredAcks)
	assert.True(t, config.Producer.Return.Successes)
	assert.Equal(t, 5, config.Producer.Retry.Max)
	assert.NoError(t, config.Validate())
}
