package employee

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/logger"
	"github.com/disha2301/employee-payroll-application/internal/metrics"
)

var ErrInvalidInput = errors.New("invalid input")

type Service interface {
	CreateEmployee(ctx context.Context, req *EmployeeRequest) (*EmployeeResponse, error)
	GetAllEmployees(ctx context.Context) ([]EmployeeResponse, error)
	GetEmployeeByID(ctx context.Context, id int64) (*EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id int64, req *EmployeeRequest) (*EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type ServiceOption func(*service)

// WithWelcomeSubject overrides DefaultWelcomeSubject.
func WithWelcomeSubject(subject string) ServiceOption {
	return func(s *service) {
		if subject != "" {
			s.welcomeSubject = subject
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	repo           Repository
	notifier       Notifier
	hasher         PasswordHasher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	welcomeSubject string
	now            func() time.Time
}

// NewService wires the employee use cases. A nil notifier disables welcome
// messages; a nil hasher uses bcrypt at its default cost.
func NewService(repo Repository, notifier Notifier, hasher PasswordHasher, log *slog.Logger, m *metrics.Metrics, opts ...ServiceOption) Service {
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	if log == nil {
		log = logger.Discard()
	}
	if m == nil {
		m = metrics.NewMock()
	}

	s := &service{
		repo:           repo,
		notifier:       notifier,
		hasher:         hasher,
		logger:         log,
		metrics:        m,
		welcomeSubject: DefaultWelcomeSubject,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateEmployee(ctx context.Context, req *EmployeeRequest) (*EmployeeResponse, error) {
	if req == nil {
		return nil, ErrInvalidInput
	}

	record := ToRecord(req)
	if err := s.hashPassword(record); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "employee created", "employee_id", created.ID)
	s.metrics.RecordEmployeeCreated(ctx)

	if strings.TrimSpace(created.Email) != "" {
		s.sendWelcome(ctx, created)
	}

	return ToResponse(created), nil
}

// sendWelcome never fails the caller; delivery errors are logged and counted.
func (s *service) sendWelcome(ctx context.Context, e *Employee) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.SendWelcome(ctx, NewWelcomeEvent(e, s.welcomeSubject, s.now()))
	s.metrics.RecordWelcome(ctx, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send welcome notification",
			"employee_id", e.ID,
			"email", e.Email,
			"error", err,
		)
	}
}

func (s *service) GetAllEmployees(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, *ToResponse(&employees[i]))
	}

	s.metrics.RecordEmployeesListed(ctx)
	return out, nil
}

func (s *service) GetEmployeeByID(ctx context.Context, id int64) (*EmployeeResponse, error) {
	if id <= 0 {
		return nil, &NotFoundError{ID: id}
	}

	employee, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordEmployeeViewed(ctx)
	return ToResponse(employee), nil
}

func (s *service) UpdateEmployee(ctx context.Context, id int64, req *EmployeeRequest) (*EmployeeResponse, error) {
	if req == nil {
		return nil, ErrInvalidInput
	}
	if id <= 0 {
		return nil, &NotFoundError{ID: id}
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ApplyUpdate(existing, req)
	if err := s.hashPassword(existing); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "employee updated", "employee_id", id)
	s.metrics.RecordEmployeeUpdated(ctx)
	return ToResponse(existing), nil
}

func (s *service) DeleteEmployee(ctx context.Context, id int64) error {
	if id <= 0 {
		return &NotFoundError{ID: id}
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{ID: id}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "employee deleted", "employee_id", id)
	s.metrics.RecordEmployeeDeleted(ctx)
	return nil
}

func (s *service) hashPassword(e *Employee) error {
	hashed, err := s.hasher.Hash(e.Password)
	if err != nil {
		return err
	}
	e.Password = hashed
	return nil
}
