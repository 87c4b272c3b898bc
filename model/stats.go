package model

import "time"

// LinkStats is the statistics view of one short link. Expired records
// remain listed here even though they no longer resolve.
type LinkStats struct {
	Shortcode   string       `json:"shortcode"`
	OriginalURL string       `json:"originalURL"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	Expired     bool         `json:"expired"`
	ClickCount  int          `json:"clickCount"`
	Clicks      []ClickEvent `json:"clicks,omitempty"`
}

// StatsResponse aggregates registry-wide click statistics.
type StatsResponse struct {
	TotalLinks        int            `json:"totalLinks"`
	ActiveLinks       int            `json:"activeLinks"`
	ExpiredLinks      int            `json:"expiredLinks"`
	TotalClicks       int            `json:"totalClicks"`
	ReferrerBreakdown map[string]int `json:"referrerBreakdown"`
	LocationBreakdown map[string]int `json:"locationBreakdown"`
	TopLinks          []LinkStats    `json:"topLinks"`
	Links             []LinkStats    `json:"links"`
}
