// Package employeetest provides in-memory doubles for the employee package.
package employeetest

import (
	"context"
	"sort"
	"sync"

	"github.com/disha2301/employee-payroll-application/internal/employee"
)

// Repository is an in-memory employee.Repository that enforces email
// uniqueness the way the database does.
type Repository struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]employee.Employee

	// Calls counts invocations per method name.
	Calls map[string]int
}

func NewRepository() *Repository {
	return &Repository{
		records: make(map[int64]employee.Employee),
		Calls:   make(map[string]int),
	}
}

func (r *Repository) Create(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Create"]++

	if r.emailTaken(e.Email, 0) {
		return nil, employee.ErrDuplicateEmail
	}

	r.nextID++
	e.ID = r.nextID
	r.records[e.ID] = copyEmployee(*e)
	return e, nil
}

func (r *Repository) GetAll(_ context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["GetAll"]++

	out := make([]employee.Employee, 0, len(r.records))
	for _, e := range r.records {
		out = append(out, copyEmployee(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["GetByID"]++

	e, ok := r.records[id]
	if !ok {
		return nil, &employee.NotFoundError{ID: id}
	}
	c := copyEmployee(e)
	return &c, nil
}

func (r *Repository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Exists"]++

	_, ok := r.records[id]
	return ok, nil
}

func (r *Repository) Update(_ context.Context, e *employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Update"]++

	if _, ok := r.records[e.ID]; !ok {
		return &employee.NotFoundError{ID: e.ID}
	}
	if r.emailTaken(e.Email, e.ID) {
		return employee.ErrDuplicateEmail
	}
	r.records[e.ID] = copyEmployee(*e)
	return nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls["Delete"]++

	if _, ok := r.records[id]; !ok {
		return &employee.NotFoundError{ID: id}
	}
	delete(r.records, id)
	return nil
}

// Len returns the number of stored records.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// CallCount returns how often method was invoked.
func (r *Repository) CallCount(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Calls[method]
}

func (r *Repository) emailTaken(email string, except int64) bool {
	for id, e := range r.records {
		if id != except && e.Email == email {
			return true
		}
	}
	return false
}

func copyEmployee(e employee.Employee) employee.Employee {
	if e.Skills != nil {
		e.Skills = append([]string(nil), e.Skills...)
	}
	if e.DOB != nil {
		t := *e.DOB
		e.DOB = &t
	}
	if e.JoinDate != nil {
		t := *e.JoinDate
		e.JoinDate = &t
	}
	return e
}

// Notifier records every welcome event and returns Err from each send.
type Notifier struct {
	mu     sync.Mutex
	Err    error
	events []employee.WelcomeEvent
}

func (n *Notifier) SendWelcome(_ context.Context, event employee.WelcomeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.Err
}

func (n *Notifier) Events() []employee.WelcomeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]employee.WelcomeEvent(nil), n.events...)
}
