package handler

import (
	"net/http"
	"strconv"

	"shortlink-registry/model"
)

// GetActivityLog handles GET /api/activity
// @Summary Activity log
// @Description Returns activity log entries, most recent first, with pagination and an optional level filter (info, warning, error).
// @Tags Activity
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Entries per page (max 100)" default(50)
// @Param level query string false "Filter by level" Enums(info, warning, error)
// @Success 200 {object} model.ActivityListResponse "Activity entries"
// @Router /api/activity [get]
func (h *Handler) GetActivityLog(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 50
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	level := model.ActivityLevel(r.URL.Query().Get("level"))
	entries, total := h.activity.Entries(page, limit, level)

	SendJSONSuccess(w, http.StatusOK, model.ActivityListResponse{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Entries: entries,
	})
}
