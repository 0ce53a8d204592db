package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health                          liveness plus gazetteer count
//	GET /api/v1/times/today              today's schedule
//	GET /api/v1/times/date/{date}        schedule for one date
//	GET /api/v1/times/range              schedule for an inclusive range
//	GET /api/v1/places                   gazetteer prefix search
//	GET /api/v1/places/nearest           nearest known place to coordinates
func SetupRoutes(handlers *Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/times/today", handlers.GetTodayTimes)
		r.Get("/times/date/{date}", handlers.GetDateTimes)
		r.Get("/times/range", handlers.GetRangeTimes)

		r.Get("/places", handlers.SearchPlaces)
		r.Get("/places/nearest", handlers.NearestPlace)
	})

	return r
}
