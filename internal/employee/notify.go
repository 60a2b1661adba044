package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DefaultWelcomeSubject = "Welcome to Gevernova!"

// Notifier delivers welcome messages to newly created employees.
// Implementations may fail; callers treat delivery as best effort.
type Notifier interface {
	SendWelcome(ctx context.Context, event WelcomeEvent) error
}

// WelcomeEvent is the payload published for a new employee.
type WelcomeEvent struct {
	EventID    string    `json:"eventId"`
	EmployeeID int64     `json:"employeeId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurredAt"`
}

func welcomeBody(name string) string {
	return fmt.Sprintf("Hi %s, your employee account has been successfully created.", name)
}

// NewWelcomeEvent builds the welcome message for a stored employee.
func NewWelcomeEvent(e *Employee, subject string, at time.Time) WelcomeEvent {
	return WelcomeEvent{
		EventID:    uuid.NewString(),
		EmployeeID: e.ID,
		Email:      e.Email,
		Name:       e.Name,
		Subject:    subject,
		Body:       welcomeBody(e.Name),
		OccurredAt: at.UTC(),
	}
}
