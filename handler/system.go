package handler

import (
	"errors"
	"net/http"
)

// HealthCheck handles GET /health
// @Summary Health check
// @Description Returns service status and the number of registered short links.
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	SendJSONSuccess(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"links":  h.registry.Len(),
	})
}

// CacheMetrics handles GET /cache/metrics
// @Summary Resolve cache metrics
// @Description Returns resolve-cache performance metrics including hit ratio and evictions.
// @Tags System
// @Produce json
// @Success 200 {object} cache.MetricsSnapshot "Cache metrics"
// @Failure 503 {object} handler.ErrorResponse "Cache is disabled"
// @Router /cache/metrics [get]
func (h *Handler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	if !h.config.Cache.Enabled || h.cache == nil {
		SendJSONError(w, http.StatusServiceUnavailable, errors.New("cache is disabled"), "")
		return
	}

	SendJSONSuccess(w, http.StatusOK, h.cache.GetMetricsSnapshot())
}
