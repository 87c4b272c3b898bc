package registry

import (
	"net/url"
	"regexp"
	"strings"
)

// Violation messages surfaced to the user on a failed create. These are
// part of the API contract and must stay stable.
const (
	msgURLRequired         = "URL is required"
	msgInvalidURL          = "Invalid URL format"
	msgValidityNotPositive = "Validity must be a positive integer"
	msgShortcodeFormat     = "Shortcode must be 3-20 alphanumeric characters"
	msgShortcodeTaken      = "Shortcode already exists"
	msgNoInputs            = "At least one URL is required"
)

var shortcodePattern = regexp.MustCompile(`^[A-Za-z0-9]{3,20}$`)

// ValidationError carries every rule violated by a create request.
// Validation never short-circuits: all violations are collected before
// failing so the caller can surface them at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// validateInput checks a single create input and returns the violations
// found, in rule order. taken reports whether a shortcode is already in
// use (existing records, expired included, plus earlier inputs of the
// same batch).
func validateInput(in CreateInput, taken func(string) bool) []string {
	var violations []string

	if in.OriginalURL == "" {
		violations = append(violations, msgURLRequired)
	} else if !validAbsoluteURL(in.OriginalURL) {
		violations = append(violations, msgInvalidURL)
	}

	if in.ValidityMinutes != nil && *in.ValidityMinutes <= 0 {
		violations = append(violations, msgValidityNotPositive)
	}

	if in.CustomShortcode != "" {
		if !shortcodePattern.MatchString(in.CustomShortcode) {
			violations = append(violations, msgShortcodeFormat)
		} else if taken(in.CustomShortcode) {
			violations = append(violations, msgShortcodeTaken)
		}
	}

	return violations
}

// validAbsoluteURL requires a parseable absolute URL with both scheme
// and host.
func validAbsoluteURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
