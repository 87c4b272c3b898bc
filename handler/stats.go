package handler

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"shortlink-registry/model"
)

const topLinksCount = 5

// GetLinkStats handles GET /api/links
// @Summary Registry-wide click statistics
// @Description Lists every short link in creation order, expired records included, with aggregate totals and referrer/location breakdowns computed from the recorded clicks.
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.StatsResponse "Statistics"
// @Router /api/links [get]
func (h *Handler) GetLinkStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	records := h.registry.List()

	stats := model.StatsResponse{
		ReferrerBreakdown: make(map[string]int),
		LocationBreakdown: make(map[string]int),
		TopLinks:          make([]model.LinkStats, 0),
		Links:             make([]model.LinkStats, 0, len(records)),
	}

	for _, rec := range records {
		expired := rec.Expired(now)

		stats.TotalLinks++
		if expired {
			stats.ExpiredLinks++
		} else {
			stats.ActiveLinks++
		}
		stats.TotalClicks += rec.ClickCount

		for _, click := range rec.Clicks {
			referrer := click.Referrer
			if referrer == "" {
				referrer = "direct"
			}
			stats.ReferrerBreakdown[referrer]++
			stats.LocationBreakdown[click.Location]++
		}

		stats.Links = append(stats.Links, model.LinkStats{
			Shortcode:   rec.Shortcode,
			OriginalURL: rec.OriginalURL,
			CreatedAt:   rec.CreatedAt,
			ExpiresAt:   rec.ExpiresAt,
			Expired:     expired,
			ClickCount:  rec.ClickCount,
		})
	}

	// Top links by clicks; the full listing keeps creation order.
	ranked := make([]model.LinkStats, len(stats.Links))
	copy(ranked, stats.Links)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ClickCount > ranked[j].ClickCount
	})
	if len(ranked) > topLinksCount {
		ranked = ranked[:topLinksCount]
	}
	stats.TopLinks = ranked

	SendJSONSuccess(w, http.StatusOK, stats)
}

// GetLinkDetail handles GET /api/links/{shortcode}
// @Summary One short link with its click trail
// @Description Returns a single record including every click event in order. Expired records are visible here even though they no longer resolve.
// @Tags Statistics
// @Produce json
// @Param shortcode path string true "Shortcode" example("Ab3xYz")
// @Success 200 {object} model.LinkStats "Link detail"
// @Failure 404 {object} handler.ErrorResponse "Unknown shortcode"
// @Router /api/links/{shortcode} [get]
func (h *Handler) GetLinkDetail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	shortcode := vars["shortcode"]

	link, ok := h.registry.Get(shortcode)
	if !ok {
		SendJSONError(w, http.StatusNotFound, errors.New("short link not found"), "")
		return
	}

	SendJSONSuccess(w, http.StatusOK, model.LinkStats{
		Shortcode:   link.Shortcode,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
		Expired:     link.Expired(time.Now()),
		ClickCount:  link.ClickCount,
		Clicks:      link.Clicks,
	})
}
