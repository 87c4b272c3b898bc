package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"shortlink-registry/activity"
	"shortlink-registry/cache"
	"shortlink-registry/config"
	"shortlink-registry/model"
	"shortlink-registry/registry"
)

// Handler serves the HTTP surface over the short-link registry.
type Handler struct {
	registry *registry.Registry
	activity *activity.Log
	cache    *cache.Cache
	config   config.Config
	baseURL  string
}

// New creates a handler. Use configured base_url if provided, otherwise
// construct it from scheme, IP, and port.
func New(reg *registry.Registry, act *activity.Log, cacheClient *cache.Cache, cfg config.Config) *Handler {
	baseURL := cfg.WebServer.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s://%s:%s", cfg.WebServer.Scheme, cfg.WebServer.IP, cfg.WebServer.Port)
	}
	return &Handler{
		registry: reg,
		activity: act,
		cache:    cacheClient,
		config:   cfg,
		baseURL:  baseURL,
	}
}

func (h *Handler) linkResponse(link model.ShortLink) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		Shortcode:   link.Shortcode,
		ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, link.Shortcode),
		CreatedAt:   link.CreatedAt,
		ExpiresAt:   link.ExpiresAt,
		QRCodeURL:   fmt.Sprintf("%s/qr/%s", h.baseURL, link.Shortcode),
	}
}

// sendRegistryError maps a create failure to the right status code.
func sendRegistryError(w http.ResponseWriter, err error) {
	var verr *registry.ValidationError
	if errors.As(err, &verr) {
		SendJSONViolations(w, http.StatusBadRequest, verr, verr.Violations)
		return
	}
	log.Error().Err(err).Msg("Failed to create short link")
	SendJSONError(w, http.StatusInternalServerError, err, "Failed to create short link")
}

// CreateShortLink handles POST /shorten
// @Summary Create a short link
// @Description Shortens a URL with an optional validity window in minutes (default 30) and an optional custom shortcode (3-20 alphanumeric characters). All validation rule violations are reported together.
// @Tags Links
// @Accept json
// @Produce json
// @Param request body registry.CreateInput true "URL shortening request"
// @Success 201 {object} handler.LinkResponse "Short link created"
// @Failure 400 {object} handler.ErrorResponse "Validation failed (violations listed)"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /shorten [post]
func (h *Handler) CreateShortLink(w http.ResponseWriter, r *http.Request) {
	var input registry.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	link, err := h.registry.Create(input)
	if err != nil {
		sendRegistryError(w, err)
		return
	}

	log.Info().
		Str("shortcode", link.Shortcode).
		Str("original_url", link.OriginalURL).
		Time("expires_at", link.ExpiresAt).
		Msg("Short link created")

	SendJSONSuccess(w, http.StatusCreated, h.linkResponse(link))
}

// BatchRequest wraps a batch-create body.
type BatchRequest struct {
	Links []registry.CreateInput `json:"links"`
}

// BatchResponse lists the created short links.
type BatchResponse struct {
	Links []LinkResponse `json:"links"`
}

// CreateShortLinkBatch handles POST /shorten/batch
// @Summary Create several short links at once
// @Description Shortens up to five URLs in a single request. Validation is all-or-nothing: violations from every entry are accumulated and no link is created unless the whole batch is valid.
// @Tags Links
// @Accept json
// @Produce json
// @Param request body handler.BatchRequest true "Batch shortening request"
// @Success 201 {object} handler.BatchResponse "Short links created"
// @Failure 400 {object} handler.ErrorResponse "Validation failed (violations listed)"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /shorten/batch [post]
func (h *Handler) CreateShortLinkBatch(w http.ResponseWriter, r *http.Request) {
	var input BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	links, err := h.registry.CreateBatch(input.Links)
	if err != nil {
		sendRegistryError(w, err)
		return
	}

	out := BatchResponse{Links: make([]LinkResponse, 0, len(links))}
	for _, link := range links {
		out.Links = append(out.Links, h.linkResponse(link))
	}

	log.Info().Int("count", len(links)).Msg("Short link batch created")
	SendJSONSuccess(w, http.StatusCreated, out)
}
