package model

import "time"

// ActivityLevel classifies an activity log entry.
type ActivityLevel string

const (
	LevelInfo    ActivityLevel = "info"
	LevelWarning ActivityLevel = "warning"
	LevelError   ActivityLevel = "error"
)

// ActivityEntry is one structured event in the in-memory activity log.
type ActivityEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     ActivityLevel          `json:"level"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// ActivityListResponse is the paginated activity log payload.
type ActivityListResponse struct {
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Total   int             `json:"total"`
	Entries []ActivityEntry `json:"entries"`
}
