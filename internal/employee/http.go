package employee

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/disha2301/employee-payroll-application/internal/httputil"
	"github.com/disha2301/employee-payroll-application/internal/logger"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	service   Service
	validator *Validator
	logger    *slog.Logger
}

func NewHandler(service Service, validator *Validator, log *slog.Logger) *Handler {
	if validator == nil {
		validator = NewValidator(nil)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		service:   service,
		validator: validator,
		logger:    log,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/employees", h.CreateEmployee)
	router.Get("/employees", h.GetAllEmployees)
	router.Get("/employees/{id}", h.GetEmployee)
	router.Put("/employees/{id}", h.UpdateEmployee)
	router.Delete("/employees/{id}", h.DeleteEmployee)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "creating employee", "email", req.Email)
	created, err := h.service.CreateEmployee(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all employees")

	employees, err := h.service.GetAllEmployees(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching employee", "employee_id", id)
	employee, err := h.service.GetEmployeeByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "updating employee", "employee_id", id)
	updated, err := h.service.UpdateEmployee(r.Context(), id, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "deleting employee", "employee_id", id)
	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithText(w, http.StatusOK, fmt.Sprintf("Employee deleted with ID: %d", id))
}

// decodeRequest reads and validates the body. On failure it has already
// written the response.
func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*EmployeeRequest, bool) {
	var req EmployeeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(&req)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after request body")
		}
	}
	if err != nil {
		h.logger.InfoContext(r.Context(), "invalid request body", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(w, r, err)
		return nil, false
	}
	return &req, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid employee id")
		return 0, false
	}
	return id, true
}

// errorStatus maps a service error to its HTTP status.
func errorStatus(err error) int {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := errorStatus(err)

	switch status {
	case http.StatusBadRequest:
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			h.logger.InfoContext(ctx, "validation failed", "fields", len(validationErr.Fields))
			httputil.RespondWithJSON(w, status, validationErr.Fields)
			return
		}
		httputil.RespondWithError(w, status, err.Error())
	case http.StatusNotFound:
		h.logger.InfoContext(ctx, "employee not found", "error", err)
		httputil.RespondWithText(w, status, notFoundMessage(err))
	case http.StatusConflict:
		h.logger.InfoContext(ctx, "duplicate email")
		httputil.RespondWithError(w, status, err.Error())
	default:
		h.logger.ErrorContext(ctx, "internal error", "error", err)
		httputil.RespondWithError(w, status, "internal server error")
	}
}

func notFoundMessage(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return "Employee not found"
}
