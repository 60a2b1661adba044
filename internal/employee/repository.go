package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/metrics"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	table = "employees"

	uniqueViolation = "23505"
)

type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	GetAll(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	if m == nil {
		m = metrics.NewMock()
	}
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, employee *Employee) (*Employee, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(employee).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", table, time.Since(start), err)

	if err != nil {
		return nil, translateError(err)
	}
	return employee, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Employee, error) {
	start := time.Now()
	employees := make([]Employee, 0)
	err := r.db.NewSelect().Model(&employees).Order("id ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		return nil, translateError(err)
	}
	return employees, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	start := time.Now()
	employee := new(Employee)
	err := r.db.NewSelect().Model(employee).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", table, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, translateError(err)
	}
	return employee, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*Employee)(nil)).Where("id = ?", id).Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "exists", table, time.Since(start), err)

	if err != nil {
		return false, translateError(err)
	}
	return exists, nil
}

func (r *repository) Update(ctx context.Context, employee *Employee) error {
	start := time.Now()
	result, err := r.db.NewUpdate().Model(employee).WherePK().Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", table, time.Since(start), err)

	if err != nil {
		return translateError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return &NotFoundError{ID: employee.ID}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	employee := &Employee{ID: id}
	result, err := r.db.NewDelete().Model(employee).WherePK().Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", table, time.Since(start), err)

	if err != nil {
		return translateError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// translateError turns a unique violation into ErrDuplicateEmail. The email
// column carries the only unique constraint besides the primary key.
func translateError(err error) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("employee store: %w", err)
}
