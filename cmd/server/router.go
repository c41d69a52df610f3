package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mongosession/pkg/httpserver"
	"github.com/dmitrymomot/mongosession/pkg/requestid"
	"github.com/dmitrymomot/mongosession/pkg/session"
)

func newRouter(interceptor *session.Interceptor, log *slog.Logger, checks ...httpserver.Check) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, checks...))

	r.Group(func(r chi.Router) {
		r.Use(interceptor.Middleware)

		r.Get("/visits", visitsHandler(log))
		r.Post("/session/rotate", rotateHandler(log))
		r.Post("/logout", logoutHandler(log))
	})

	return r
}
