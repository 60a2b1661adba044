package employee

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Employee is the persisted record. Password holds a bcrypt hash once the
// service has stored it.
type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:e"`

	ID         int64      `bun:"id,pk,autoincrement"`
	Email      string     `bun:"email,unique,notnull"`
	Name       string     `bun:"name,notnull"`
	Department string     `bun:"department,notnull"`
	Salary     float64    `bun:"salary,notnull"`
	Password   string     `bun:"password,notnull"`
	Gender     string     `bun:"gender,notnull"`
	DOB        *time.Time `bun:"dob,type:date"`
	JoinDate   *time.Time `bun:"join_date,type:date"`
	Skills     []string   `bun:"skills,array"`
}

// EmployeeRequest is the inbound body for create and update.
type EmployeeRequest struct {
	Email      string   `json:"email" validate:"notblank,email"`
	Name       string   `json:"name" validate:"notblank,employeename"`
	Department string   `json:"department" validate:"notblank"`
	Salary     *float64 `json:"salary" validate:"required,min=1000"`
	Password   string   `json:"password" validate:"notblank,strongpassword,maxbytes=72"`
	Gender     string   `json:"gender" validate:"notblank,oneof=FEMALE MALE OTHERS"`
	DOB        *Date    `json:"dob" validate:"omitempty,pastdate"`
	JoinDate   *Date    `json:"joinDate" validate:"omitempty,todayorfuture"`
	Skills     []string `json:"skills" validate:"required,min=1"`
}

// EmployeeResponse is the outbound shape. It never carries the password.
type EmployeeResponse struct {
	ID         int64    `json:"id"`
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Salary     float64  `json:"salary"`
	Gender     string   `json:"gender"`
	DOB        *Date    `json:"dob"`
	JoinDate   *Date    `json:"joinDate"`
	Skills     []string `json:"skills"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date carried on the wire as "YYYY-MM-DD".
type Date time.Time

func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return Date(t), nil
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func dateToTime(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func timeToDate(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	u := t.UTC()
	d := NewDate(u.Year(), u.Month(), u.Day())
	return &d
}
