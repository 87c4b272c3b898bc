package registry

import (
	"fmt"
	"reflect"
	"regexp"
	"testing"
	"time"

	"shortlink-registry/model"
)

// recordingLogger captures activity events for assertions.
type recordingLogger struct {
	entries []model.ActivityEntry
}

func (l *recordingLogger) Record(level model.ActivityLevel, message string, data map[string]interface{}) {
	l.entries = append(l.entries, model.ActivityEntry{
		Level:   level,
		Message: message,
		Data:    data,
	})
}

func (l *recordingLogger) byLevel(level model.ActivityLevel) []model.ActivityEntry {
	var out []model.ActivityEntry
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func newTestRegistry(t *testing.T) (*Registry, *recordingLogger, *time.Time) {
	t.Helper()
	logger := &recordingLogger{}
	reg := New(logger, nil, Options{})

	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	return reg, logger, &now
}

func intPtr(v int) *int { return &v }

func TestCreate_GeneratedShortcode(t *testing.T) {
	reg, logger, _ := newTestRegistry(t)

	link, err := reg.Create(CreateInput{OriginalURL: "https://example.com/page"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	pattern := regexp.MustCompile(`^[A-Za-z0-9]{3,20}$`)
	if !pattern.MatchString(link.Shortcode) {
		t.Errorf("Generated shortcode %q does not match pattern", link.Shortcode)
	}
	if len(link.Shortcode) != 6 {
		t.Errorf("Generated shortcode length = %d, want 6", len(link.Shortcode))
	}
	if link.ID == "" {
		t.Error("Expected a non-empty ID")
	}
	if link.ClickCount != 0 || len(link.Clicks) != 0 {
		t.Errorf("New link has clickCount=%d clicks=%d, want 0/0", link.ClickCount, len(link.Clicks))
	}
	if want := link.CreatedAt.Add(30 * time.Minute); !link.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want createdAt+30m (%v)", link.ExpiresAt, want)
	}

	infos := logger.byLevel(model.LevelInfo)
	if len(infos) != 1 {
		t.Fatalf("Expected 1 info activity event, got %d", len(infos))
	}
	if infos[0].Data["count"] != 1 {
		t.Errorf("Activity event count = %v, want 1", infos[0].Data["count"])
	}
}

func TestCreate_ShortcodesUnique(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		link, err := reg.Create(CreateInput{OriginalURL: fmt.Sprintf("https://example.com/%d", i)})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[link.Shortcode] {
			t.Fatalf("Duplicate shortcode generated: %s", link.Shortcode)
		}
		seen[link.Shortcode] = true
	}
}

func TestCreate_ExplicitValidity(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	link, err := reg.Create(CreateInput{
		OriginalURL:     "https://example.com",
		ValidityMinutes: intPtr(90),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if want := link.CreatedAt.Add(90 * time.Minute); !link.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", link.ExpiresAt, want)
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateInput
		want  []string
	}{
		{
			name:  "Empty URL",
			input: CreateInput{OriginalURL: ""},
			want:  []string{"URL is required"},
		},
		{
			name:  "Invalid URL",
			input: CreateInput{OriginalURL: "not-a-url"},
			want:  []string{"Invalid URL format"},
		},
		{
			name:  "Missing host",
			input: CreateInput{OriginalURL: "http://"},
			want:  []string{"Invalid URL format"},
		},
		{
			name:  "Zero validity",
			input: CreateInput{OriginalURL: "https://a.com", ValidityMinutes: intPtr(0)},
			want:  []string{"Validity must be a positive integer"},
		},
		{
			name:  "Negative validity",
			input: CreateInput{OriginalURL: "https://a.com", ValidityMinutes: intPtr(-5)},
			want:  []string{"Validity must be a positive integer"},
		},
		{
			name:  "Shortcode too short",
			input: CreateInput{OriginalURL: "https://a.com", CustomShortcode: "ab"},
			want:  []string{"Shortcode must be 3-20 alphanumeric characters"},
		},
		{
			name:  "Shortcode bad characters",
			input: CreateInput{OriginalURL: "https://a.com", CustomShortcode: "abc-def"},
			want:  []string{"Shortcode must be 3-20 alphanumeric characters"},
		},
		{
			name: "Multiple violations accumulate",
			input: CreateInput{
				OriginalURL:     "not-a-url",
				ValidityMinutes: intPtr(0),
				CustomShortcode: "ab",
			},
			want: []string{
				"Invalid URL format",
				"Validity must be a positive integer",
				"Shortcode must be 3-20 alphanumeric characters",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _, _ := newTestRegistry(t)

			_, err := reg.Create(tt.input)
			if err == nil {
				t.Fatal("Create() expected error, got nil")
			}
			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Create() error type = %T, want *ValidationError", err)
			}
			if !reflect.DeepEqual(verr.Violations, tt.want) {
				t.Errorf("Violations = %v, want %v", verr.Violations, tt.want)
			}
		})
	}
}

func TestCreate_DuplicateCustomShortcode(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	if _, err := reg.Create(CreateInput{OriginalURL: "https://a.com", CustomShortcode: "validCode123"}); err != nil {
		t.Fatalf("First Create() error = %v", err)
	}

	_, err := reg.Create(CreateInput{OriginalURL: "https://b.com", CustomShortcode: "validCode123"})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Second Create() error = %v, want *ValidationError", err)
	}
	if !reflect.DeepEqual(verr.Violations, []string{"Shortcode already exists"}) {
		t.Errorf("Violations = %v, want [Shortcode already exists]", verr.Violations)
	}
}

func TestCreate_ExpiredShortcodeNeverReused(t *testing.T) {
	reg, _, now := newTestRegistry(t)

	if _, err := reg.Create(CreateInput{
		OriginalURL:     "https://a.com",
		ValidityMinutes: intPtr(1),
		CustomShortcode: "oldCode",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Well past expiry; uniqueness still scans expired records.
	*now = now.Add(2 * time.Hour)

	_, err := reg.Create(CreateInput{OriginalURL: "https://b.com", CustomShortcode: "oldCode"})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Create() error = %v, want *ValidationError", err)
	}
	if !reflect.DeepEqual(verr.Violations, []string{"Shortcode already exists"}) {
		t.Errorf("Violations = %v, want [Shortcode already exists]", verr.Violations)
	}
}

func TestCreateBatch(t *testing.T) {
	reg, logger, _ := newTestRegistry(t)

	links, err := reg.CreateBatch([]CreateInput{
		{OriginalURL: "https://a.com"},
		{OriginalURL: "https://b.com", CustomShortcode: "codeB"},
		{OriginalURL: "https://c.com", ValidityMinutes: intPtr(5)},
	})
	if err != nil {
		t.Fatalf("CreateBatch() error = %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("CreateBatch() returned %d links, want 3", len(links))
	}
	if links[1].Shortcode != "codeB" {
		t.Errorf("Custom shortcode = %q, want codeB", links[1].Shortcode)
	}

	infos := logger.byLevel(model.LevelInfo)
	if len(infos) != 1 {
		t.Fatalf("Expected a single activity event for the batch, got %d", len(infos))
	}
	if infos[0].Data["count"] != 3 {
		t.Errorf("Activity event count = %v, want 3", infos[0].Data["count"])
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
}

func TestCreateBatch_ViolationsPrefixed(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	_, err := reg.CreateBatch([]CreateInput{
		{OriginalURL: "https://a.com"},
		{OriginalURL: "not-a-url"},
	})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("CreateBatch() error = %v, want *ValidationError", err)
	}
	if !reflect.DeepEqual(verr.Violations, []string{"URL 2: Invalid URL format"}) {
		t.Errorf("Violations = %v, want [URL 2: Invalid URL format]", verr.Violations)
	}
	if reg.Len() != 0 {
		t.Errorf("Invalid batch must not append records, Len() = %d", reg.Len())
	}
}

func TestCreateBatch_DuplicateWithinBatch(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	_, err := reg.CreateBatch([]CreateInput{
		{OriginalURL: "https://a.com", CustomShortcode: "sameCode"},
		{OriginalURL: "https://b.com", CustomShortcode: "sameCode"},
	})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("CreateBatch() error = %v, want *ValidationError", err)
	}
	if !reflect.DeepEqual(verr.Violations, []string{"URL 2: Shortcode already exists"}) {
		t.Errorf("Violations = %v", verr.Violations)
	}
}

func TestCreateBatch_Limits(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	if _, err := reg.CreateBatch(nil); err == nil {
		t.Error("Empty batch expected error, got nil")
	}

	inputs := make([]CreateInput, 6)
	for i := range inputs {
		inputs[i] = CreateInput{OriginalURL: fmt.Sprintf("https://example.com/%d", i)}
	}
	_, err := reg.CreateBatch(inputs)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Oversized batch error = %v, want *ValidationError", err)
	}
	if !reflect.DeepEqual(verr.Violations, []string{"A maximum of 5 URLs can be shortened at once"}) {
		t.Errorf("Violations = %v", verr.Violations)
	}
}

func TestLookup(t *testing.T) {
	reg, logger, _ := newTestRegistry(t)

	created, err := reg.Create(CreateInput{OriginalURL: "https://example.com", CustomShortcode: "myCode"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, ok := reg.Lookup("myCode")
	if !ok {
		t.Fatal("Lookup() did not find the record")
	}
	if got.OriginalURL != created.OriginalURL || got.ID != created.ID {
		t.Errorf("Lookup() = %+v, want %+v", got, created)
	}

	// Plain miss stays silent.
	before := len(logger.entries)
	if _, ok := reg.Lookup("unknown"); ok {
		t.Error("Lookup() found a record for an unknown shortcode")
	}
	if len(logger.entries) != before {
		t.Error("Plain not-found must not emit an activity event")
	}
}

func TestLookup_Expired(t *testing.T) {
	reg, logger, now := newTestRegistry(t)

	link, err := reg.Create(CreateInput{
		OriginalURL:     "https://example.com",
		ValidityMinutes: intPtr(1),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Still resolvable right up to the boundary: expiry is strict.
	*now = link.ExpiresAt
	if _, ok := reg.Lookup(link.Shortcode); !ok {
		t.Error("Lookup() at exact expiry instant should still resolve")
	}

	*now = link.ExpiresAt.Add(time.Second)
	if _, ok := reg.Lookup(link.Shortcode); ok {
		t.Error("Lookup() resolved an expired record")
	}

	warnings := logger.byLevel(model.LevelWarning)
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning activity event, got %d", len(warnings))
	}
	if warnings[0].Data["shortcode"] != link.Shortcode {
		t.Errorf("Warning names shortcode %v, want %s", warnings[0].Data["shortcode"], link.Shortcode)
	}

	// The expired record stays in the registry and in listings.
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	records := reg.List()
	if len(records) != 1 || records[0].Shortcode != link.Shortcode {
		t.Errorf("List() = %v, want the expired record", records)
	}
}

func TestLookup_Idempotent(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	link, err := reg.Create(CreateInput{OriginalURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, ok1 := reg.Lookup(link.Shortcode)
	second, ok2 := reg.Lookup(link.Shortcode)
	if !ok1 || !ok2 {
		t.Fatal("Lookup() did not find the record")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Consecutive lookups differ: %+v vs %+v", first, second)
	}
}

func TestRecordClick(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	link, err := reg.Create(CreateInput{OriginalURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		reg.RecordClick(link.Shortcode, model.ClickEvent{
			Timestamp: time.Date(2026, 8, 24, 12, i, 0, 0, time.UTC),
			Referrer:  fmt.Sprintf("https://ref.example/%d", i),
			Location:  "Berlin, Germany",
		})
	}

	got, ok := reg.Get(link.Shortcode)
	if !ok {
		t.Fatal("Get() did not find the record")
	}
	if got.ClickCount != n {
		t.Errorf("ClickCount = %d, want %d", got.ClickCount, n)
	}
	if len(got.Clicks) != n {
		t.Fatalf("len(Clicks) = %d, want %d", len(got.Clicks), n)
	}
	for i, click := range got.Clicks {
		if want := fmt.Sprintf("https://ref.example/%d", i); click.Referrer != want {
			t.Errorf("Clicks[%d].Referrer = %q, want %q (insertion order)", i, click.Referrer, want)
		}
	}
}

func TestRecordClick_UnknownShortcode(t *testing.T) {
	reg, logger, _ := newTestRegistry(t)

	if _, err := reg.Create(CreateInput{OriginalURL: "https://example.com"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	before := reg.List()
	eventsBefore := len(logger.entries)

	reg.RecordClick("unknown-code", model.ClickEvent{Referrer: "https://ref.example"})

	if !reflect.DeepEqual(reg.List(), before) {
		t.Error("RecordClick on unknown shortcode must leave state unchanged")
	}
	if len(logger.entries) != eventsBefore {
		t.Error("RecordClick on unknown shortcode must not emit an activity event")
	}
}

func TestRecordClick_ExpiredLink(t *testing.T) {
	reg, _, now := newTestRegistry(t)

	link, err := reg.Create(CreateInput{OriginalURL: "https://example.com", ValidityMinutes: intPtr(1)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	*now = now.Add(time.Hour)

	// Expiry is not checked on the click path.
	reg.RecordClick(link.Shortcode, model.ClickEvent{Referrer: "https://ref.example"})

	got, _ := reg.Get(link.Shortcode)
	if got.ClickCount != 1 {
		t.Errorf("ClickCount = %d, want 1", got.ClickCount)
	}
}

func TestList_SnapshotIsolation(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	link, err := reg.Create(CreateInput{OriginalURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	reg.RecordClick(link.Shortcode, model.ClickEvent{Referrer: "a"})

	snapshot := reg.List()
	snapshot[0].Clicks[0].Referrer = "mutated"

	got, _ := reg.Get(link.Shortcode)
	if got.Clicks[0].Referrer != "a" {
		t.Error("Mutating a snapshot must not affect the registry")
	}
}

func TestRandomCode(t *testing.T) {
	code, err := randomCode(6)
	if err != nil {
		t.Fatalf("randomCode() error = %v", err)
	}
	if len(code) != 6 {
		t.Errorf("randomCode() length = %d, want 6", len(code))
	}
	for _, ch := range code {
		found := false
		for _, valid := range codeAlphabet {
			if ch == valid {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Invalid character %c in generated code", ch)
		}
	}
}
