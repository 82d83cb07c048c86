// Package http exposes the climate assessment API over HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecoshield/climate-insight/internal/assess"
	"github.com/ecoshield/climate-insight/internal/domain"
)

const (
	defaultFireDays = 30
	maxFireDays     = 60

	minQueryYear = 1981
	maxQueryYear = 2100
)

// AssessmentService is the surface the API server needs from the assessor.
type AssessmentService interface {
	CheckReadiness(ctx context.Context) error
	Geocode(ctx context.Context, query string) (domain.GeocodeResult, error)
	ClimateHistory(ctx context.Context, lat, lon float64, start, end string) (assess.HistoryResult, error)
	ClimateOutlook(ctx context.Context, lat, lon float64, startYear, endYear int) (assess.OutlookResult, error)
	FireActivity(ctx context.Context, box domain.BBox, days int) (domain.FireCount, error)
}

// Server exposes the assessment API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	service    AssessmentService
	logger     *slog.Logger
}

// NewServer creates the API server and wires its routes.
func NewServer(addr string, service AssessmentService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /api/healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/geocode", s.handleGeocode)
	mux.HandleFunc("GET /api/climate/history", s.handleClimateHistory)
	mux.HandleFunc("GET /api/climate", s.handleClimateOutlook)
	mux.HandleFunc("GET /api/fires", s.handleFires)

	s.httpServer.Handler = requestIDMiddleware(logger, corsMiddleware(mux))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter: q")
		return
	}

	result, err := s.service.Geocode(r.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrNoGeocodeResults) {
			writeError(w, http.StatusNotFound, "no results for query")
			return
		}
		s.logger.Error("geocode failed", "query", query, "error", err)
		writeError(w, http.StatusBadGateway, "geocoding service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleClimateHistory(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	for _, label := range []string{start, end} {
		if label == "" {
			continue
		}
		if _, err := time.Parse("2006-01", label); err != nil {
			writeError(w, http.StatusBadRequest, "start and end must be YYYY-MM")
			return
		}
	}

	result, err := s.service.ClimateHistory(r.Context(), lat, lon, start, end)
	if err != nil {
		s.writeClimateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleClimateOutlook(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	startYear, err := parseYearParam(r, "start_year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	endYear, err := parseYearParam(r, "end_year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if startYear > endYear {
		writeError(w, http.StatusBadRequest, "start_year must not exceed end_year")
		return
	}

	result, err := s.service.ClimateOutlook(r.Context(), lat, lon, startYear, endYear)
	if err != nil {
		s.writeClimateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFires(w http.ResponseWriter, r *http.Request) {
	box := domain.BBox{}
	coords := []struct {
		name string
		dst  *float64
	}{
		{"lat_min", &box.LatMin},
		{"lon_min", &box.LonMin},
		{"lat_max", &box.LatMax},
		{"lon_max", &box.LonMax},
	}
	for _, c := range coords {
		raw := r.URL.Query().Get(c.name)
		if raw == "" {
			writeError(w, http.StatusBadRequest, "missing required parameter: "+c.name)
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+c.name)
			return
		}
		*c.dst = v
	}

	days := defaultFireDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxFireDays {
			writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 60")
			return
		}
		days = v
	}

	result, err := s.service.FireActivity(r.Context(), box, days)
	if err != nil {
		if errors.Is(err, domain.ErrFireAuthorization) {
			writeError(w, http.StatusUnauthorized, "fire data access not authorized")
			return
		}
		s.logger.Error("fire activity lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "fire data service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeClimateError maps climate provider failures onto response codes.
func (s *Server) writeClimateError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrMalformedUpstreamData) {
		s.logger.Error("climate provider returned unusable payload", "error", err)
		writeError(w, http.StatusBadGateway, "climate provider returned an unusable payload")
		return
	}
	s.logger.Error("climate fetch failed", "error", err)
	writeError(w, http.StatusBadGateway, "climate data service unavailable")
}

func parseCoordinates(w http.ResponseWriter, r *http.Request) (lat, lon float64, ok bool) {
	rawLat := r.URL.Query().Get("lat")
	rawLon := r.URL.Query().Get("lon")
	if rawLat == "" || rawLon == "" {
		writeError(w, http.StatusBadRequest, "missing required parameters: lat, lon")
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "lat must be a number in [-90, 90]")
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(rawLon, 64)
	if err != nil || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "lon must be a number in [-180, 180]")
		return 0, 0, false
	}
	return lat, lon, true
}

func parseYearParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New("missing required parameter: " + name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < minQueryYear || v > maxQueryYear {
		return 0, errors.New(name + " must be a year between 1981 and 2100")
	}
	return v, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
