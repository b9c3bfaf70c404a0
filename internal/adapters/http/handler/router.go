package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig はルーター構築に必要な依存です。
type RouterConfig struct {
	Companies    *CompanyHandler
	Persons      *PersonHandler
	Health       *HealthHandler
	Logger       *zap.Logger
	MaxBodyBytes int64
}

// NewRouter は chi ルーターを構築します。
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	if cfg.Health != nil {
		r.Get("/health/live", cfg.Health.Live)
		r.Get("/health/ready", cfg.Health.Ready)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(LimitBody(cfg.MaxBodyBytes))

		if cfg.Companies != nil {
			r.Route("/companies", func(r chi.Router) {
				r.Get("/", cfg.Companies.List)
				r.Post("/", cfg.Companies.Upsert)
				r.Post("/bulk", cfg.Companies.UpsertBulk)
				r.Get("/{code}", cfg.Companies.Get)
				r.Delete("/{code}", cfg.Companies.Delete)
			})
		}

		if cfg.Persons != nil {
			r.Route("/persons", func(r chi.Router) {
				r.Post("/", cfg.Persons.Create)
				r.Get("/{nationalID}", cfg.Persons.Get)
				r.Delete("/{nationalID}", cfg.Persons.Delete)
			})
		}
	})

	return r
}
