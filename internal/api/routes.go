package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yegors/flightlog/internal/config"
	"github.com/yegors/flightlog/internal/igc"
	"github.com/yegors/flightlog/internal/storage/sqlite"
	"github.com/yegors/flightlog/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(parser *igc.Parser, storage *sqlite.FlightStorage, debrief DebriefService, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(parser, storage, debrief, config, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Flight routes
		router.Post("/flights", r.handler.UploadFlight)
		router.Get("/flights", r.handler.GetFlights)
		router.Get("/flights/{id}", r.handler.GetFlightByID)
		router.Get("/flights/{id}/geojson", r.handler.GetFlightGeoJSON)
		router.Get("/flights/{id}/debrief", r.handler.GetFlightDebrief)

		// Health check
		router.Get("/health", r.handler.GetHealth)

		// Configuration
		router.Get("/config", r.handler.GetConfig)
	})

	// Prometheus metrics
	if r.config.Metrics.Enabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	return router
}
