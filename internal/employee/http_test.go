package employee_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/employee"
	"github.com/disha2301/employee-payroll-application/internal/employee/employeetest"
	"github.com/disha2301/employee-payroll-application/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFixture struct {
	repo     *employeetest.Repository
	notifier *employeetest.Notifier
	router   chi.Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	f := &handlerFixture{
		repo:     employeetest.NewRepository(),
		notifier: &employeetest.Notifier{},
		router:   chi.NewRouter(),
	}
	clock := func() time.Time { return testNow }
	svc := employee.NewService(f.repo, f.notifier, plainHasher{}, logger.Discard(), nil, employee.WithClock(clock))
	handler := employee.NewHandler(svc, employee.NewValidator(clock), logger.Discard())
	handler.RegisterRoutes(f.router)
	return f
}

func (f *handlerFixture) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func alicePayload() map[string]interface{} {
	return map[string]interface{}{
		"email":      "a@x.com",
		"name":       "Alice",
		"department": "Eng",
		"salary":     5000,
		"password":   "Abcdef1!",
		"gender":     "FEMALE",
		"dob":        "1990-01-01",
		"joinDate":   "2025-01-01",
		"skills":     []string{"Go"},
	}
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestHandler_CreateEmployee(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/employees", alicePayload())

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decodeMap(t, w)
	assert.NotContains(t, resp, "password")
	assert.NotZero(t, resp["id"])
	assert.Equal(t, "a@x.com", resp["email"])
	assert.Equal(t, "Alice", resp["name"])
	assert.Equal(t, "Eng", resp["department"])
	assert.Equal(t, 5000.0, resp["salary"])
	assert.Equal(t, "FEMALE", resp["gender"])
	assert.Equal(t, "1990-01-01", resp["dob"])
	assert.Equal(t, "2025-01-01", resp["joinDate"])
	assert.Equal(t, []interface{}{"Go"}, resp["skills"])
}

func TestHandler_CreateRejectsLowSalary(t *testing.T) {
	f := newHandlerFixture(t)

	payload := alicePayload()
	payload["salary"] = 500

	w := f.do(t, http.MethodPost, "/employees", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"salary": "Salary must be at least 1000"}, decodeMap(t, w))
	assert.Zero(t, f.repo.Len())
}

func TestHandler_CreateRejectsEmptySkills(t *testing.T) {
	f := newHandlerFixture(t)

	payload := alicePayload()
	payload["skills"] = []string{}

	w := f.do(t, http.MethodPost, "/employees", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Skills cannot be empty", decodeMap(t, w)["skills"])
}

func TestHandler_CreateReportsEveryInvalidField(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPost, "/employees", map[string]interface{}{
		"email":  "nope",
		"name":   "bob",
		"salary": 1200,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeMap(t, w)
	assert.Equal(t, "Invalid email format", resp["email"])
	assert.Equal(t, "Enter valid name", resp["name"])
	assert.Equal(t, "Department is required", resp["department"])
	assert.Equal(t, "Password is required", resp["password"])
	assert.Equal(t, "Gender is required", resp["gender"])
	assert.Equal(t, "Skills cannot be empty", resp["skills"])
	assert.NotContains(t, resp, "salary")
}

func TestHandler_CreateMalformedBody(t *testing.T) {
	f := newHandlerFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"wrong type", `{"salary": "lots"}`},
		{"bad date", `{"dob": "01/01/1990"}`},
		{"trailing garbage", `{"email": "a@x.com"} garbage`},
		{"two objects", `{"email": "a@x.com"} {"email": "b@x.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/employees", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, map[string]interface{}{"error": "invalid request body"}, decodeMap(t, w))
		})
	}
}

func TestHandler_CreateDuplicateEmail(t *testing.T) {
	f := newHandlerFixture(t)

	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/employees", alicePayload()).Code)

	w := f.do(t, http.MethodPost, "/employees", alicePayload())

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "employee with this email already exists", decodeMap(t, w)["error"])
	assert.Equal(t, 1, f.repo.Len())
}

func TestHandler_NotifierFailureStillCreates(t *testing.T) {
	f := newHandlerFixture(t)
	f.notifier.Err = errors.New("mail relay down")

	w := f.do(t, http.MethodPost, "/employees", alicePayload())

	require.Equal(t, http.StatusCreated, w.Code)
	id := int64(decodeMap(t, w)["id"].(float64))

	_, err := f.repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Len(t, f.notifier.Events(), 1)
}

func TestHandler_GetEmployee(t *testing.T) {
	f := newHandlerFixture(t)

	created := f.do(t, http.MethodPost, "/employees", alicePayload())
	require.Equal(t, http.StatusCreated, created.Code)
	createdBody := created.Body.String()

	w := f.do(t, http.MethodGet, "/employees/1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, createdBody, w.Body.String())
}

func TestHandler_GetMissingEmployee(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodGet, "/employees/999", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, "Employee not found with id: 999", w.Body.String())
}

func TestHandler_InvalidID(t *testing.T) {
	f := newHandlerFixture(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := f.do(t, method, "/employees/abc", nil)

		require.Equal(t, http.StatusBadRequest, w.Code, method)
		assert.Equal(t, "invalid employee id", decodeMap(t, w)["error"])
	}
}

func TestHandler_GetAllEmployees(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodGet, "/employees", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	second := alicePayload()
	second["email"] = "b@x.com"
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/employees", alicePayload()).Code)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/employees", second).Code)

	w = f.do(t, http.MethodGet, "/employees", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "a@x.com", list[0]["email"])
	assert.Equal(t, "b@x.com", list[1]["email"])
	for _, item := range list {
		assert.NotContains(t, item, "password")
	}
}

func TestHandler_UpdateEmployee(t *testing.T) {
	f := newHandlerFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/employees", alicePayload()).Code)

	payload := alicePayload()
	payload["email"] = "alice@corp.com"
	payload["department"] = "Research"
	payload["salary"] = 9000
	payload["skills"] = []string{"Go", "Kubernetes"}
	delete(payload, "dob")

	w := f.do(t, http.MethodPut, "/employees/1", payload)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeMap(t, w)
	assert.Equal(t, 1.0, resp["id"])
	assert.Equal(t, "alice@corp.com", resp["email"])
	assert.Equal(t, "Research", resp["department"])
	assert.Equal(t, 9000.0, resp["salary"])
	assert.Nil(t, resp["dob"])
	assert.Equal(t, []interface{}{"Go", "Kubernetes"}, resp["skills"])
	assert.NotContains(t, resp, "password")
}

func TestHandler_UpdateValidationRunsFirst(t *testing.T) {
	f := newHandlerFixture(t)

	payload := alicePayload()
	payload["gender"] = "UNKNOWN"

	w := f.do(t, http.MethodPut, "/employees/999", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Gender must be FEMALE, MALE, or OTHERS", decodeMap(t, w)["gender"])
	assert.Zero(t, f.repo.CallCount("GetByID"))
}

func TestHandler_UpdateMissingEmployee(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, http.MethodPut, "/employees/999", alicePayload())

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Employee not found with id: 999", w.Body.String())
	assert.Zero(t, f.repo.Len())
}

func TestHandler_DeleteEmployee(t *testing.T) {
	f := newHandlerFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/employees", alicePayload()).Code)

	w := f.do(t, http.MethodDelete, "/employees/1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Employee deleted with ID: 1", w.Body.String())
	assert.Zero(t, f.repo.Len())

	w = f.do(t, http.MethodDelete, "/employees/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Employee not found with id: 1", w.Body.String())
}
