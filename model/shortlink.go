package model

import "time"

// ShortLink is the sole persistent entity of the service. Records are
// created once and never deleted; the only mutation after creation is
// click recording.
type ShortLink struct {
	ID          string       `json:"id"`          // UUID v4, assigned at creation
	OriginalURL string       `json:"originalURL"` // absolute URL (scheme + host)
	Shortcode   string       `json:"shortcode"`   // 3-20 alphanumeric characters
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"` // CreatedAt + validity window
	ClickCount  int          `json:"clickCount"`
	Clicks      []ClickEvent `json:"clicks"`
}

// ClickEvent records one simulated visit to a short link.
type ClickEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	Location  string    `json:"location"` // simulated, coarse "City, Country"
}

// Expired reports whether the link is past its validity window at the
// given instant. Expiry is computed on read; expired records stay in the
// registry and remain visible in statistics.
func (l ShortLink) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing the clicks slice.
func (l ShortLink) Clone() ShortLink {
	out := l
	if l.Clicks != nil {
		out.Clicks = make([]ClickEvent, len(l.Clicks))
		copy(out.Clicks, l.Clicks)
	}
	return out
}
