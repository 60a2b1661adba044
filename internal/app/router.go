package app

import (
	"log/slog"

	"github.com/disha2301/employee-payroll-application/internal/auth"
	"github.com/disha2301/employee-payroll-application/internal/employee"
	"github.com/disha2301/employee-payroll-application/internal/health"
	"github.com/disha2301/employee-payroll-application/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	Logger      *slog.Logger
	CORSOrigins []string
	// JWTSecret protects /employees when non-empty.
	JWTSecret string
	Employees *employee.Handler
	Health    *health.Handler
}

func NewRouter(opts RouterOptions) chi.Router {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.CORS(opts.CORSOrigins))

	// Health endpoints (no auth required)
	if opts.Health != nil {
		opts.Health.RegisterRoutes(router)
	}

	router.Group(func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.Middleware([]byte(opts.JWTSecret), opts.Logger))
		}
		opts.Employees.RegisterRoutes(r)
	})

	return router
}
