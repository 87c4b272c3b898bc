// Package activity provides the in-memory activity log: an append-only,
// capped sink for structured events emitted by the registry and its
// callers. Entries are mirrored to the process logger at the matching
// level.
package activity

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"shortlink-registry/model"
)

const defaultMaxEntries = 1000

// Log is an append-only activity sink. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []model.ActivityEntry
	max     int
	now     func() time.Time
}

// New creates an activity log keeping at most maxEntries entries;
// values <= 0 fall back to 1000. Oldest entries are dropped first.
func New(maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Log{
		max: maxEntries,
		now: time.Now,
	}
}

// Record timestamps the event and appends it. The entry is also written
// to the structured process log at the matching level.
func (l *Log) Record(level model.ActivityLevel, message string, data map[string]interface{}) {
	entry := model.ActivityEntry{
		Timestamp: l.now(),
		Level:     level,
		Message:   message,
		Data:      data,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	l.mu.Unlock()

	var evt *zerolog.Event
	switch level {
	case model.LevelWarning:
		evt = log.Warn()
	case model.LevelError:
		evt = log.Error()
	default:
		evt = log.Info()
	}
	evt.Fields(data).Msg(message)
}

// Entries returns one page of entries, most recent first, optionally
// filtered by level (empty level matches everything). The second return
// value is the total number of entries matching the filter.
func (l *Log) Entries(page, limit int, level model.ActivityLevel) ([]model.ActivityEntry, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	l.mu.Lock()
	matched := make([]model.ActivityEntry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		if level == "" || l.entries[i].Level == level {
			matched = append(matched, l.entries[i])
		}
	}
	l.mu.Unlock()

	start := (page - 1) * limit
	if start >= len(matched) {
		return []model.ActivityEntry{}, len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched)
}

// Len reports the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
