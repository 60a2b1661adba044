package employee_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/employee"
	"github.com/disha2301/employee-payroll-application/internal/employee/employeetest"
	"github.com/disha2301/employee-payroll-application/internal/logger"
	"github.com/disha2301/employee-payroll-application/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

// plainHasher keeps service tests fast; bcrypt is covered separately.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }

func ptr[T any](v T) *T { return &v }

func newRequest(email string) *employee.EmployeeRequest {
	dob := employee.NewDate(1990, time.January, 1)
	join := employee.NewDate(2025, time.January, 1)
	return &employee.EmployeeRequest{
		Email:      email,
		Name:       "Alice",
		Department: "Eng",
		Salary:     ptr(5000.0),
		Password:   "Abcdef1!",
		Gender:     "FEMALE",
		DOB:        &dob,
		JoinDate:   &join,
		Skills:     []string{"Go"},
	}
}

type serviceFixture struct {
	repo     *employeetest.Repository
	notifier *employeetest.Notifier
	logs     *bytes.Buffer
	service  employee.Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	logs := &bytes.Buffer{}
	f := &serviceFixture{
		repo:     employeetest.NewRepository(),
		notifier: &employeetest.Notifier{},
		logs:     logs,
	}
	log := logger.NewWithOptions(logger.Options{Writer: logs, JSON: true, Level: slog.LevelDebug})
	f.service = employee.NewService(f.repo, f.notifier, plainHasher{}, log, metrics.NewMock(),
		employee.WithClock(func() time.Time { return testNow }),
	)
	return f
}

func TestService_CreateThenGetReturnsSameResponse(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateEmployee(ctx, newRequest("a@x.com"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	fetched, err := f.service.GetEmployeeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestService_CreateHashesPassword(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateEmployee(ctx, newRequest("a@x.com"))
	require.NoError(t, err)

	stored, err := f.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:Abcdef1!", stored.Password)
}

func TestService_CreateSendsWelcome(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.service.CreateEmployee(context.Background(), newRequest("a@x.com"))
	require.NoError(t, err)

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].EmployeeID)
	assert.Equal(t, "a@x.com", events[0].Email)
	assert.Equal(t, employee.DefaultWelcomeSubject, events[0].Subject)
	assert.Equal(t, "Hi Alice, your employee account has been successfully created.", events[0].Body)
	assert.Equal(t, testNow, events[0].OccurredAt)
	assert.NotEmpty(t, events[0].EventID)
}

func TestService_WelcomeSubjectOption(t *testing.T) {
	notifier := &employeetest.Notifier{}
	svc := employee.NewService(employeetest.NewRepository(), notifier, plainHasher{}, nil, nil,
		employee.WithWelcomeSubject("Hello from HR"),
	)

	_, err := svc.CreateEmployee(context.Background(), newRequest("a@x.com"))
	require.NoError(t, err)
	require.Len(t, notifier.Events(), 1)
	assert.Equal(t, "Hello from HR", notifier.Events()[0].Subject)
}

func TestService_NotifierFailureIsAbsorbed(t *testing.T) {
	f := newServiceFixture(t)
	f.notifier.Err = errors.New("smtp unavailable")
	ctx := context.Background()

	created, err := f.service.CreateEmployee(ctx, newRequest("a@x.com"))
	require.NoError(t, err)
	require.NotNil(t, created)

	_, err = f.service.GetEmployeeByID(ctx, created.ID)
	assert.NoError(t, err, "record must survive a failed notification")
	assert.Contains(t, f.logs.String(), "failed to send welcome notification")
	assert.Contains(t, f.logs.String(), "smtp unavailable")
}

func TestService_NilNotifier(t *testing.T) {
	svc := employee.NewService(employeetest.NewRepository(), nil, plainHasher{}, nil, nil)

	_, err := svc.CreateEmployee(context.Background(), newRequest("a@x.com"))
	assert.NoError(t, err)
}

func TestService_DuplicateEmailRejected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateEmployee(ctx, newRequest("dup@x.com"))
	require.NoError(t, err)

	_, err = f.service.CreateEmployee(ctx, newRequest("dup@x.com"))
	assert.ErrorIs(t, err, employee.ErrDuplicateEmail)
	assert.Equal(t, 1, f.repo.Len())
	assert.Len(t, f.notifier.Events(), 1, "no welcome for a rejected insert")
}

func TestService_HashFailureStopsCreate(t *testing.T) {
	repo := employeetest.NewRepository()
	svc := employee.NewService(repo, nil, failingHasher{}, nil, nil)

	_, err := svc.CreateEmployee(context.Background(), newRequest("a@x.com"))
	assert.Error(t, err)
	assert.Zero(t, repo.Len())
}

func TestService_GetMissing(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.GetEmployeeByID(context.Background(), 999)

	var nf *employee.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(999), nf.ID)
	assert.Equal(t, "Employee not found with id: 999", err.Error())
}

func TestService_GetAllOrderedByID(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	all, err := f.service.GetAllEmployees(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		_, err := f.service.CreateEmployee(ctx, newRequest(email))
		require.NoError(t, err)
	}

	all, err = f.service.GetAllEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c@x.com", all[0].Email)
	assert.Equal(t, "a@x.com", all[1].Email)
	assert.Equal(t, "b@x.com", all[2].Email)
}

func TestService_UpdateIsFullOverwrite(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateEmployee(ctx, newRequest("a@x.com"))
	require.NoError(t, err)

	update := &employee.EmployeeRequest{
		Email:      "alice@corp.com",
		Name:       "Alicia",
		Department: "Finance",
		Salary:     ptr(7500.0),
		Password:   "Newpass9#",
		Gender:     "OTHERS",
		Skills:     []string{"Excel", "SQL"},
	}

	updated, err := f.service.UpdateEmployee(ctx, created.ID, update)
	require.NoError(t, err)

	fetched, err := f.service.GetEmployeeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, fetched)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "alice@corp.com", fetched.Email)
	assert.Equal(t, "Alicia", fetched.Name)
	assert.Equal(t, "Finance", fetched.Department)
	assert.Equal(t, 7500.0, fetched.Salary)
	assert.Equal(t, "OTHERS", fetched.Gender)
	assert.Nil(t, fetched.DOB)
	assert.Nil(t, fetched.JoinDate)
	assert.Equal(t, []string{"Excel", "SQL"}, fetched.Skills)

	stored, err := f.repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:Newpass9#", stored.Password)
}

func TestService_UpdateMissingDoesNotCreate(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.UpdateEmployee(context.Background(), 42, newRequest("a@x.com"))

	assert.ErrorIs(t, err, employee.ErrNotFound)
	assert.Zero(t, f.repo.Len())
	assert.Zero(t, f.repo.CallCount("Update"))
}

func TestService_UpdateToTakenEmail(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateEmployee(ctx, newRequest("first@x.com"))
	require.NoError(t, err)
	second, err := f.service.CreateEmployee(ctx, newRequest("second@x.com"))
	require.NoError(t, err)

	_, err = f.service.UpdateEmployee(ctx, second.ID, newRequest("first@x.com"))
	assert.ErrorIs(t, err, employee.ErrDuplicateEmail)
}

func TestService_Delete(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	keep, err := f.service.CreateEmployee(ctx, newRequest("keep@x.com"))
	require.NoError(t, err)
	drop, err := f.service.CreateEmployee(ctx, newRequest("drop@x.com"))
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteEmployee(ctx, drop.ID))

	_, err = f.service.GetEmployeeByID(ctx, drop.ID)
	assert.ErrorIs(t, err, employee.ErrNotFound)
	_, err = f.service.GetEmployeeByID(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestService_DeleteMissingSkipsStore(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateEmployee(ctx, newRequest("keep@x.com"))
	require.NoError(t, err)

	err = f.service.DeleteEmployee(ctx, 999)

	assert.ErrorIs(t, err, employee.ErrNotFound)
	assert.Zero(t, f.repo.CallCount("Delete"))
	assert.Equal(t, 1, f.repo.Len())
}

func TestService_NonPositiveIDs(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.GetEmployeeByID(ctx, 0)
	assert.ErrorIs(t, err, employee.ErrNotFound)
	assert.ErrorIs(t, f.service.DeleteEmployee(ctx, -1), employee.ErrNotFound)
	assert.Zero(t, f.repo.CallCount("GetByID"))
}

func TestService_NilRequest(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.CreateEmployee(context.Background(), nil)
	assert.ErrorIs(t, err, employee.ErrInvalidInput)

	_, err = f.service.UpdateEmployee(context.Background(), 1, nil)
	assert.ErrorIs(t, err, employee.ErrInvalidInput)
}
