package handler

import (
	"embed"
	"errors"
	"hash/fnv"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"shortlink-registry/model"
)

//go:embed resolve.html
var resolveTemplateFS embed.FS

// simulatedLocations is the pool of coarse locations attributed to
// clicks. There is no real geolocation; the pick is deterministic per
// client address so repeated clicks from one client agree.
var simulatedLocations = []string{
	"Berlin, Germany",
	"Chicago, USA",
	"London, UK",
	"Mumbai, India",
	"Sao Paulo, Brazil",
	"Singapore",
	"Sydney, Australia",
	"Tokyo, Japan",
}

// ResolveData holds data for the simulated-redirect template.
type ResolveData struct {
	OriginalURL      string
	Shortcode        string
	CreatedAt        string
	ExpiresAt        string
	ClickCount       int
	IsSecure         bool
	CountdownSeconds int
}

// ResolveResponse is the JSON variant of the resolve screen.
type ResolveResponse struct {
	Shortcode   string    `json:"shortcode"`
	OriginalURL string    `json:"originalURL"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ClickCount  int       `json:"clickCount"`
}

// ResolveShortLink handles GET /{shortcode} - the simulated redirect
// screen. The click is recorded and an interstitial page names the
// destination; no real 3xx redirect is issued.
// @Summary Resolve a short link
// @Description Records a click and shows the destination of the short link. Expired links answer 404 and are only visible through the statistics endpoints. Request JSON via the Accept header to get the destination as data instead of HTML.
// @Tags Links
// @Produce html
// @Param shortcode path string true "Shortcode" example("Ab3xYz")
// @Param countdown query int false "Countdown in seconds shown before the simulated redirect (max 30)"
// @Success 200 {string} html "Simulated redirect page"
// @Failure 404 {object} handler.ErrorResponse "Unknown or expired shortcode"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /{shortcode} [get]
func (h *Handler) ResolveShortLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	shortcode := vars["shortcode"]

	link, ok := h.registry.Lookup(shortcode)
	if !ok {
		SendJSONError(w, http.StatusNotFound, errors.New("short link not found"), "")
		return
	}

	click := model.ClickEvent{
		Timestamp: time.Now(),
		Referrer:  r.Referer(),
		Location:  simulateLocation(r.RemoteAddr),
	}
	h.registry.RecordClick(shortcode, click)
	link.ClickCount++

	if wantsJSON(r) {
		SendJSONSuccess(w, http.StatusOK, ResolveResponse{
			Shortcode:   link.Shortcode,
			OriginalURL: link.OriginalURL,
			ExpiresAt:   link.ExpiresAt,
			ClickCount:  link.ClickCount,
		})
		return
	}

	countdown := h.config.Shortener.RedirectCountdown
	if countdownStr := r.URL.Query().Get("countdown"); countdownStr != "" {
		if seconds, err := strconv.Atoi(countdownStr); err == nil && seconds >= 0 {
			countdown = seconds
		}
	}
	if countdown > 30 {
		countdown = 30
	}

	data := ResolveData{
		OriginalURL:      link.OriginalURL,
		Shortcode:        link.Shortcode,
		CreatedAt:        link.CreatedAt.Format("Jan 2, 2006 15:04"),
		ExpiresAt:        link.ExpiresAt.Format("Jan 2, 2006 15:04"),
		ClickCount:       link.ClickCount,
		IsSecure:         strings.HasPrefix(link.OriginalURL, "https://"),
		CountdownSeconds: countdown,
	}

	tmpl, err := template.ParseFS(resolveTemplateFS, "resolve.html")
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse resolve template")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to load redirect page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")

	if err := tmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Failed to execute resolve template")
		return
	}

	log.Info().
		Str("shortcode", shortcode).
		Str("original_url", link.OriginalURL).
		Str("location", click.Location).
		Msg("Simulated redirect displayed")
}

// wantsJSON reports whether the client asked for a data response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// simulateLocation picks a coarse location from the fixed pool, keyed
// by the client address.
func simulateLocation(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	hash := fnv.New32a()
	hash.Write([]byte(host))
	return simulatedLocations[hash.Sum32()%uint32(len(simulatedLocations))]
}
