package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yegors/flightlog/internal/config"
	"github.com/yegors/flightlog/internal/geojson"
	"github.com/yegors/flightlog/internal/igc"
	"github.com/yegors/flightlog/internal/observability"
	"github.com/yegors/flightlog/internal/storage/sqlite"
	"github.com/yegors/flightlog/pkg/logger"
)

// DebriefService generates a narrative summary for a parsed flight.
type DebriefService interface {
	Generate(ctx context.Context, meta igc.FlightMetadata, fixes []igc.Fix) (string, error)
}

// Handler handles API requests
type Handler struct {
	parser  *igc.Parser
	storage *sqlite.FlightStorage
	debrief DebriefService // nil when disabled
	config  *config.Config
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(parser *igc.Parser, storage *sqlite.FlightStorage, debrief DebriefService, config *config.Config, logger *logger.Logger) *Handler {
	return &Handler{
		parser:  parser,
		storage: storage,
		debrief: debrief,
		config:  config,
		logger:  logger.Named("api-handler"),
	}
}

// uploadResponse is the response to a flight upload
type uploadResponse struct {
	ID        int64              `json:"id"`
	Metadata  igc.FlightMetadata `json:"metadata"`
	FixCount  int                `json:"fix_count"`
	VoidFixes int                `json:"void_fixes"`
}

// UploadFlight parses a raw IGC body and stores the resulting flight
func (h *Handler) UploadFlight(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadBytes))
	if err != nil {
		h.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if len(body) == 0 {
		h.respondError(w, http.StatusBadRequest, "empty request body")
		return
	}

	start := time.Now()
	flight, err := h.parser.Parse(igc.Options{
		Content:       string(body),
		SkipMalformed: h.config.Parser.SkipMalformed,
	})
	if err != nil {
		observability.ParseErrors.Inc()
		var perr *igc.StructuralParseError
		if errors.As(err, &perr) {
			h.respondError(w, http.StatusUnprocessableEntity, perr.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	observability.ObserveParseLatency(start)
	observability.FlightsParsed.Inc()
	observability.FixesDecoded.Add(float64(len(flight.Fixes)))
	observability.VoidFixesSkipped.Add(float64(flight.VoidFixes))

	id, err := h.storage.StoreFlight(flight)
	if err != nil {
		h.logger.Error("Failed to store flight", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to store flight")
		return
	}

	h.logger.Info("Stored uploaded flight",
		logger.Int64("flight_id", id),
		logger.Int("fix_count", len(flight.Fixes)))

	h.respondJSON(w, http.StatusCreated, uploadResponse{
		ID:        id,
		Metadata:  flight.Metadata,
		FixCount:  len(flight.Fixes),
		VoidFixes: flight.VoidFixes,
	})
}

// GetFlights returns the most recently stored flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = v
	}

	flights, err := h.storage.GetRecentFlights(limit)
	if err != nil {
		h.logger.Error("Failed to query flights", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to query flights")
		return
	}
	if flights == nil {
		flights = []*sqlite.FlightRecord{}
	}

	h.respondJSON(w, http.StatusOK, flights)
}

// flightResponse is a stored flight with its full fix sequence
type flightResponse struct {
	*sqlite.FlightRecord
	Fixes []igc.Fix `json:"fixes"`
}

// GetFlightByID returns one stored flight with its fixes
func (h *Handler) GetFlightByID(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookupFlight(w, r)
	if !ok {
		return
	}

	fixes, err := h.storage.GetFixesByFlightID(record.ID)
	if err != nil {
		h.logger.Error("Failed to query fixes", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to query fixes")
		return
	}

	h.respondJSON(w, http.StatusOK, flightResponse{FlightRecord: record, Fixes: fixes})
}

// GetFlightGeoJSON projects a stored flight into a GeoJSON feature.
// An optional "offset" query parameter shifts every altitude, in meters.
func (h *Handler) GetFlightGeoJSON(w http.ResponseWriter, r *http.Request) {
	record, ok := h.lookupFlight(w, r)
	if !ok {
		return
	}

	offset := h.config.Parser.AltitudeOffsetM
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = v
	}

	fixes, err := h.storage.GetFixesByFlightID(record.ID)
	if err != nil {
		h.logger.Error("Failed to query fixes", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to query fixes")
		return
	}

	feature, err := geojson.FromFixes(fixes, offset)
	if err != nil {
		if errors.Is(err, geojson.ErrEmptyTrack) {
			h.respondError(w, http.StatusUnprocessableEntity, "flight has no track points")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to project flight")
		return
	}

	h.respondJSON(w, http.StatusOK, feature)
}

// GetFlightDebrief returns an LLM-generated narrative for a stored flight
func (h *Handler) GetFlightDebrief(w http.ResponseWriter, r *http.Request) {
	if h.debrief == nil {
		h.respondError(w, http.StatusServiceUnavailable, "debrief is not configured")
		return
	}

	record, ok := h.lookupFlight(w, r)
	if !ok {
		return
	}

	fixes, err := h.storage.GetFixesByFlightID(record.ID)
	if err != nil {
		h.logger.Error("Failed to query fixes", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to query fixes")
		return
	}

	summary, err := h.debrief.Generate(r.Context(), record.Metadata, fixes)
	if err != nil {
		h.logger.Error("Failed to generate debrief", logger.Error(err))
		h.respondError(w, http.StatusBadGateway, "failed to generate debrief")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"debrief": summary})
}

// GetHealth returns the health status
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetConfig returns the sanitized configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	sanitized := *h.config
	sanitized.Debrief.OpenAIAPIKey = ""
	h.respondJSON(w, http.StatusOK, sanitized)
}

// lookupFlight resolves the {id} URL parameter to a stored flight,
// writing the error response itself when the lookup fails.
func (h *Handler) lookupFlight(w http.ResponseWriter, r *http.Request) (*sqlite.FlightRecord, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid flight id")
		return nil, false
	}

	record, err := h.storage.GetFlightByID(id)
	if err != nil {
		h.logger.Error("Failed to query flight", logger.Error(err))
		h.respondError(w, http.StatusInternalServerError, "failed to query flight")
		return nil, false
	}
	if record == nil {
		h.respondError(w, http.StatusNotFound, "flight not found")
		return nil, false
	}

	return record, true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
