package messaging

import (
	"context"
	"log/slog"

	"github.com/disha2301/employee-payroll-application/internal/employee"
)

// LogNotifier writes welcome messages to the log instead of a broker.
// Used for local runs and as the fallback when no transport is reachable.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendWelcome(ctx context.Context, event employee.WelcomeEvent) error {
	n.logger.InfoContext(ctx, "welcome notification",
		"event_id", event.EventID,
		"employee_id", event.EmployeeID,
		"to", event.Email,
		"subject", event.Subject,
		"body", event.Body,
	)
	return nil
}
