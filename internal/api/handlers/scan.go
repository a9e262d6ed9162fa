package handlers

import (
	"encoding/json"
	"net/http"

	"phishshield/internal/domain/models"
	"phishshield/internal/domain/services"
	"phishshield/pkg/logger"
)

// maxBatchSize caps the number of URLs accepted in one batch request
const maxBatchSize = 100

// ScanHandler handles URL scanning API requests
type ScanHandler struct {
	scanService *services.ScanService
	logger      *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanService *services.ScanService, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
		logger:      log.WithComponent("scan-handler"),
	}
}

// ScanURL handles POST /scan-url and POST /api/v1/url/scan
func (h *ScanHandler) ScanURL(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.scanService.Scan(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("failed to scan URL")
		h.respondError(w, http.StatusInternalServerError, "failed to scan URL")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ScanBatch handles POST /api/v1/url/scan/batch
func (h *ScanHandler) ScanBatch(w http.ResponseWriter, r *http.Request) {
	var req models.ScanBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.URLs) == 0 {
		h.respondError(w, http.StatusBadRequest, "urls array is required")
		return
	}

	if len(req.URLs) > maxBatchSize {
		h.respondError(w, http.StatusBadRequest, "maximum 100 URLs per batch")
		return
	}

	result, err := h.scanService.ScanBatch(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Int("count", len(req.URLs)).Msg("failed to batch scan URLs")
		h.respondError(w, http.StatusInternalServerError, "failed to scan URLs")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetStats handles GET /api/v1/url/stats
func (h *ScanHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scanService.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get scan stats")
		h.respondError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

func (h *ScanHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ScanHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
