// Package registry owns the in-memory collection of short-link records:
// creation with accumulated validation, lookup with expiry computed on
// read, and click recording. Records live for the lifetime of the
// process and are never deleted; expired records stay listed but become
// unreachable via Lookup.
package registry

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"shortlink-registry/model"
)

const (
	generatedCodeLength = 6
	codeAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	defaultValidityMinutes = 30
	defaultMaxBatchSize    = 5
)

// ActivityLogger receives the structured activity events the registry
// emits. The concrete sink is injected by the caller.
type ActivityLogger interface {
	Record(level model.ActivityLevel, message string, data map[string]interface{})
}

// LinkCache fronts the registry's linear shortcode scan on the resolve
// path. Optional; a nil cache disables it.
type LinkCache interface {
	Get(shortcode string) (model.ShortLink, bool)
	Set(shortcode string, link model.ShortLink)
}

// Options tune registry defaults. Zero values fall back to the spec
// defaults (30-minute validity, batches of up to 5).
type Options struct {
	DefaultValidityMinutes int
	MaxBatchSize           int
}

// CreateInput is one URL-shortening request. ValidityMinutes
// distinguishes "absent" (nil, defaults to 30) from an explicit value,
// which must be a positive integer.
type CreateInput struct {
	OriginalURL     string `json:"originalURL"`
	ValidityMinutes *int   `json:"validityMinutes,omitempty"`
	CustomShortcode string `json:"customShortcode,omitempty"`
}

// Registry is the short-link store. Safe for concurrent use; all reads
// hand out deep copies so callers never share mutable state.
type Registry struct {
	mu      sync.RWMutex
	records []model.ShortLink

	activity ActivityLogger
	cache    LinkCache
	opts     Options
	now      func() time.Time
}

// New creates an empty registry. A nil activity logger is replaced with
// a no-op sink; a nil cache disables resolve caching.
func New(activity ActivityLogger, cache LinkCache, opts Options) *Registry {
	if activity == nil {
		activity = nopLogger{}
	}
	if opts.DefaultValidityMinutes <= 0 {
		opts.DefaultValidityMinutes = defaultValidityMinutes
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = defaultMaxBatchSize
	}
	return &Registry{
		activity: activity,
		cache:    cache,
		opts:     opts,
		now:      time.Now,
	}
}

// Create shortens a single URL. On any rule violation it fails with a
// *ValidationError listing every violated rule.
func (r *Registry) Create(in CreateInput) (model.ShortLink, error) {
	links, err := r.CreateBatch([]CreateInput{in})
	if err != nil {
		return model.ShortLink{}, err
	}
	return links[0], nil
}

// CreateBatch shortens up to MaxBatchSize URLs at once. Validation is
// all-or-nothing: violations from every input are accumulated into one
// *ValidationError and no record is appended unless the whole batch is
// valid. One info-level activity event reports the count of links added.
func (r *Registry) CreateBatch(inputs []CreateInput) ([]model.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var violations []string
	if len(inputs) == 0 {
		violations = append(violations, msgNoInputs)
	}
	if len(inputs) > r.opts.MaxBatchSize {
		violations = append(violations,
			fmt.Sprintf("A maximum of %d URLs can be shortened at once", r.opts.MaxBatchSize))
	}

	// Custom codes must be unique within the batch as well as against
	// every existing record, expired ones included.
	batchCodes := make(map[string]bool)
	for i, in := range inputs {
		vs := validateInput(in, func(code string) bool {
			return batchCodes[code] || r.shortcodeTakenLocked(code)
		})
		if len(inputs) > 1 {
			for _, v := range vs {
				violations = append(violations, fmt.Sprintf("URL %d: %s", i+1, v))
			}
		} else {
			violations = append(violations, vs...)
		}
		if in.CustomShortcode != "" && shortcodePattern.MatchString(in.CustomShortcode) {
			batchCodes[in.CustomShortcode] = true
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	now := r.now()
	created := make([]model.ShortLink, 0, len(inputs))
	for _, in := range inputs {
		code := in.CustomShortcode
		if code == "" {
			generated, err := r.generateUniqueCodeLocked()
			if err != nil {
				return nil, err
			}
			code = generated
		}

		validity := r.opts.DefaultValidityMinutes
		if in.ValidityMinutes != nil {
			validity = *in.ValidityMinutes
		}

		link := model.ShortLink{
			ID:          uuid.New().String(),
			OriginalURL: in.OriginalURL,
			Shortcode:   code,
			CreatedAt:   now,
			ExpiresAt:   now.Add(time.Duration(validity) * time.Minute),
			Clicks:      []model.ClickEvent{},
		}
		r.records = append(r.records, link)
		created = append(created, link.Clone())
	}

	r.activity.Record(model.LevelInfo, "Short links added", map[string]interface{}{
		"count": len(created),
	})
	return created, nil
}

// Lookup resolves a shortcode to its record. A record past its validity
// window is reported as not found (it is not removed) and a warning
// activity event names the shortcode; a plain miss stays silent.
func (r *Registry) Lookup(shortcode string) (model.ShortLink, bool) {
	if r.cache != nil {
		if link, ok := r.cache.Get(shortcode); ok {
			return r.filterExpired(link)
		}
	}

	link, ok := r.findClone(shortcode)
	if !ok {
		return model.ShortLink{}, false
	}
	if r.cache != nil {
		r.cache.Set(shortcode, link)
	}
	return r.filterExpired(link)
}

// Get fetches a record by shortcode regardless of expiry, for
// statistics views that must see expired links. Never logs.
func (r *Registry) Get(shortcode string) (model.ShortLink, bool) {
	return r.findClone(shortcode)
}

// RecordClick appends a click event to the record and increments its
// click count by exactly one. Unknown shortcodes are a silent no-op:
// the caller is expected to have resolved the code via Lookup first.
// Expiry is deliberately not checked here.
func (r *Registry) RecordClick(shortcode string, click model.ClickEvent) {
	r.mu.Lock()
	idx := -1
	for i := range r.records {
		if r.records[i].Shortcode == shortcode {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return
	}
	rec := &r.records[idx]
	rec.Clicks = append(rec.Clicks, click)
	rec.ClickCount++
	snapshot := rec.Clone()
	r.mu.Unlock()

	if r.cache != nil {
		r.cache.Set(shortcode, snapshot)
	}
	r.activity.Record(model.LevelInfo, "Short link clicked", map[string]interface{}{
		"shortcode": shortcode,
		"referrer":  click.Referrer,
		"location":  click.Location,
	})
}

// List returns a snapshot of every record in insertion order, expired
// records included.
func (r *Registry) List() []model.ShortLink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.ShortLink, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	return out
}

// Len reports the number of records, expired included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func (r *Registry) findClone(shortcode string) (model.ShortLink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.Shortcode == shortcode {
			return rec.Clone(), true
		}
	}
	return model.ShortLink{}, false
}

func (r *Registry) filterExpired(link model.ShortLink) (model.ShortLink, bool) {
	if link.Expired(r.now()) {
		r.activity.Record(model.LevelWarning, "Short link expired", map[string]interface{}{
			"shortcode": link.Shortcode,
		})
		return model.ShortLink{}, false
	}
	return link, true
}

// shortcodeTakenLocked scans every record ever created, expired ones
// included, so an expired shortcode is never reused.
func (r *Registry) shortcodeTakenLocked(code string) bool {
	for i := range r.records {
		if r.records[i].Shortcode == code {
			return true
		}
	}
	return false
}

// generateUniqueCodeLocked draws 6-character codes uniformly from the
// 62-character alphanumeric alphabet and retries on collision until a
// free code is found.
func (r *Registry) generateUniqueCodeLocked() (string, error) {
	for {
		code, err := randomCode(generatedCodeLength)
		if err != nil {
			return "", err
		}
		if !r.shortcodeTakenLocked(code) {
			return code, nil
		}
	}
}

// randomCode generates a cryptographically secure random code, each
// character drawn independently and uniformly from the alphabet.
func randomCode(length int) (string, error) {
	result := make([]byte, length)
	for i := range result {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		result[i] = codeAlphabet[num.Int64()]
	}
	return string(result), nil
}

type nopLogger struct{}

func (nopLogger) Record(model.ActivityLevel, string, map[string]interface{}) {}
