package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const maxRequestBytes = 1 << 20

// analysisFailedMessage is the only detail clients see when an assessment cannot be produced.
const analysisFailedMessage = "Failed to analyze water safety"

type checkRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

func (r checkRequest) validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return errors.New("latitude and longitude are required")
	}
	lat, lon := *r.Latitude, *r.Longitude
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v out of range", lon)
	}
	return nil
}

func (s *Server) handleCheckWaterSafety(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	rec, err := s.provider.FetchWaterQualityData(ctx, *req.Latitude, *req.Longitude, req.Address)
	if err != nil {
		s.metrics.ProviderErrors.Inc()
		s.logger.Error("fetch water quality data failed",
			"error", err,
			"request_id", middleware.GetReqID(ctx),
			"latitude", *req.Latitude,
			"longitude", *req.Longitude,
		)
		writeError(w, http.StatusInternalServerError, analysisFailedMessage)
		return
	}

	writeJSON(w, http.StatusOK, s.assessor.Assess(ctx, rec))
}

func (s *Server) handleStandards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.assessor.Standards())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
