package httpserver

import (
	"net/http"
	"time"

	"church-admin-go/internal/config"
	"church-admin-go/internal/metrics"
	"church-admin-go/internal/transport/httpserver/handler"
	authmw "church-admin-go/internal/transport/httpserver/middleware"
	"church-admin-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the router needs besides the handlers.
type Deps struct {
	Auth               *authmw.Auth
	RegistrationLimit  authmw.Limiter
	Metrics            metrics.Recorder
	MetricsHandler     http.Handler
	LocalLoginsEnabled bool
}

func NewRouter(cfg config.Config, handlers *handler.Handlers, deps Deps, log logger.Logger) http.Handler {
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.NewRequestLog(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout(cfg.HTTP)))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))
	r.Use(authmw.NewMetrics(recorder))

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		if deps.LocalLoginsEnabled {
			r.Post("/auth/login", handlers.Auth.Login)
		}

		r.Group(func(r chi.Router) {
			r.Use(authmw.NewRateLimit(deps.RegistrationLimit, "registration", recorder, log))

			r.Get("/registration/assignments", handlers.Assignments.ListOpenAssignments)
			r.Post("/registration", handlers.Assignments.Register)
			r.Post("/register", handlers.Auth.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Middleware)

			r.Get("/auth/me", handlers.Auth.Me)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireChurchUser)

				r.Get("/preferences/dashboard", handlers.Preferences.GetDashboard)
				r.Put("/preferences/dashboard", handlers.Preferences.UpdateDashboard)

				r.Get("/churches", handlers.Churches.ListChurches)
				r.Post("/churches", handlers.Churches.CreateChurch)
				r.Get("/churches/{id}", handlers.Churches.GetChurch)
				r.Put("/churches/{id}", handlers.Churches.UpdateChurch)
				r.Delete("/churches/{id}", handlers.Churches.DeleteChurch)

				r.Get("/members", handlers.Members.ListMembers)
				r.Post("/members", handlers.Members.CreateMember)
				r.Get("/members/{id}", handlers.Members.GetMember)
				r.Put("/members/{id}", handlers.Members.UpdateMember)
				r.Delete("/members/{id}", handlers.Members.DeleteMember)

				r.Get("/reports/summary", handlers.Reports.Summary)
				r.Get("/reports/churches.csv", handlers.Reports.ChurchesCSV)
			})

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAdmin)

				r.Post("/assignments", handlers.Assignments.CreateAssignment)
				r.Get("/assignments", handlers.Assignments.ListAssignments)
				r.Post("/assignments/{id}/cancel", handlers.Assignments.CancelAssignment)

				r.Get("/pastors", handlers.Pastors.ListPastors)
				r.Delete("/pastors/{id}", handlers.Pastors.UnassignPastor)
			})
		})
	})

	return r
}

func requestTimeout(cfg config.HTTPConfig) time.Duration {
	if cfg.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return cfg.RequestTimeout
}
