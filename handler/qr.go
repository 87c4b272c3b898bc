package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// GenerateQR handles GET /qr/{shortcode} - renders a QR code PNG for a
// short link. Expired links still get a code; only resolution is gated
// by expiry.
// @Summary QR code for a short link
// @Description Generates a PNG QR code pointing at the short link. Size (128-1024) and error correction level (low, medium, high, highest) are adjustable.
// @Tags Links
// @Produce png
// @Param shortcode path string true "Shortcode" example("Ab3xYz")
// @Param size query int false "Image size in pixels" default(256)
// @Param level query string false "Error correction level" Enums(low, medium, high, highest)
// @Success 200 {string} binary "PNG image"
// @Failure 400 {object} handler.ErrorResponse "Invalid parameters"
// @Failure 404 {object} handler.ErrorResponse "Unknown shortcode"
// @Failure 500 {object} handler.ErrorResponse "Internal server error"
// @Router /qr/{shortcode} [get]
func (h *Handler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	shortcode := vars["shortcode"]

	if _, ok := h.registry.Get(shortcode); !ok {
		log.Warn().Str("shortcode", shortcode).Msg("Short link not found for QR generation")
		SendJSONError(w, http.StatusNotFound, errors.New("short link not found"), "Shortcode does not exist")
		return
	}

	query := r.URL.Query()

	// Size parameter (default: 256, min: 128, max: 1024)
	size := 256
	if sizeStr := query.Get("size"); sizeStr != "" {
		parsedSize, err := strconv.Atoi(sizeStr)
		if err != nil {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid size parameter"), "Size must be a number")
			return
		}
		if parsedSize < 128 || parsedSize > 1024 {
			SendJSONError(w, http.StatusBadRequest, errors.New("size out of range"), "Size must be between 128 and 1024")
			return
		}
		size = parsedSize
	}

	level := qrcode.Medium
	if levelStr := query.Get("level"); levelStr != "" {
		switch levelStr {
		case "low":
			level = qrcode.Low
		case "medium":
			level = qrcode.Medium
		case "high":
			level = qrcode.High
		case "highest":
			level = qrcode.Highest
		default:
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid level parameter"), "Level must be: low, medium, high, or highest")
			return
		}
	}

	fullURL := fmt.Sprintf("%s/%s", h.baseURL, shortcode)

	qrCode, err := qrcode.Encode(fullURL, level, size)
	if err != nil {
		log.Error().Err(err).Str("url", fullURL).Msg("Failed to generate QR code")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(qrCode)))

	if _, err := w.Write(qrCode); err != nil {
		log.Error().Err(err).Msg("Failed to write QR code response")
		return
	}

	log.Info().
		Str("shortcode", shortcode).
		Str("full_url", fullURL).
		Int("size", size).
		Msg("QR code generated")
}
