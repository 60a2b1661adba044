package employee

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var namePattern = regexp.MustCompile(`^[A-Z][a-zA-Z]{2,}$`)

const passwordSpecials = "@#$%^&+=!"

var fieldMessages = map[string]map[string]string{
	"email": {
		"notblank": "Email is required",
		"email":    "Invalid email format",
	},
	"name": {
		"notblank":     "Name is required",
		"employeename": "Enter valid name",
	},
	"department": {
		"notblank": "Department is required",
	},
	"salary": {
		"required": "Salary is required",
		"min":      "Salary must be at least 1000",
	},
	"password": {
		"notblank":       "Password is required",
		"strongpassword": "Password must be at least 8 characters, include a digit, an uppercase letter, and a special character",
		"maxbytes":       "Password must be at most 72 characters",
	},
	"gender": {
		"notblank": "Gender is required",
		"oneof":    "Gender must be FEMALE, MALE, or OTHERS",
	},
	"dob": {
		"pastdate": "DOB must be in the past",
	},
	"joinDate": {
		"todayorfuture": "Join date cannot be in the past",
	},
	"skills": {
		"required": "Skills cannot be empty",
		"min":      "Skills cannot be empty",
	},
}

// Validator checks EmployeeRequest bodies and reports every failing field.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator builds a Validator. now decides what "today" is for the date
// rules; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	v := &Validator{
		validate: validator.New(),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.validate.RegisterValidation("notblank", validators.NotBlank))
	must(v.validate.RegisterValidation("employeename", validName))
	must(v.validate.RegisterValidation("strongpassword", strongPassword))
	must(v.validate.RegisterValidation("maxbytes", maxBytes))
	must(v.validate.RegisterValidation("pastdate", v.pastDate))
	must(v.validate.RegisterValidation("todayorfuture", v.todayOrFuture))

	return v
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("employee: register validation: %v", err))
	}
}

// Validate returns nil or a *ValidationError.
func (v *Validator) Validate(req *EmployeeRequest) error {
	if req == nil {
		return &ValidationError{Fields: map[string]string{"body": "Request body is required"}}
	}

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate employee request: %w", err)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return &ValidationError{Fields: fields}
}

func messageFor(field, tag string) string {
	if msg, ok := fieldMessages[field][tag]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}

func validName(fl validator.FieldLevel) bool {
	return namePattern.MatchString(fl.Field().String())
}

// strongPassword requires 8+ characters on a single line with an ASCII
// digit, an ASCII uppercase letter and one of @#$%^&+=!.
func strongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if utf8.RuneCountInString(password) < 8 {
		return false
	}

	var hasDigit, hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case isLineTerminator(r):
			return false
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	return hasDigit && hasUpper && hasSpecial
}

func isLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// maxBytes bounds the encoded length of a string. bcrypt rejects
// passwords over 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func (v *Validator) today() time.Time {
	now := v.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (v *Validator) pastDate(fl validator.FieldLevel) bool {
	d, ok := fieldDate(fl)
	if !ok {
		return false
	}
	return d.Before(v.today())
}

func (v *Validator) todayOrFuture(fl validator.FieldLevel) bool {
	d, ok := fieldDate(fl)
	if !ok {
		return false
	}
	return !d.Before(v.today())
}

func fieldDate(fl validator.FieldLevel) (time.Time, bool) {
	switch value := fl.Field().Interface().(type) {
	case Date:
		return value.Time(), true
	case time.Time:
		u := value.UTC()
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}
