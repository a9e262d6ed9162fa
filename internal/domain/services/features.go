package services

import (
	"net/url"
	"strings"
	"unicode"
)

// featureNames fixes the order of the numeric feature vector. This order
// is the contract with the offline training pipeline; reordering breaks
// every serialized model.
var featureNames = []string{
	"url_length",
	"dot_count",
	"at_count",
	"has_ip",
	"subdomain_count",
	"hyphen_count",
	"underscore_count",
	"slash_count",
	"question_count",
	"equals_count",
	"is_https",
	"hostname_length",
	"digit_count",
	"letter_count",
}

// FeatureExtractor converts URLs into fixed-order numeric vectors for
// classifier prediction. Stateless and deterministic: the same URL always
// produces the same vector.
type FeatureExtractor struct{}

// NewFeatureExtractor creates a feature extractor
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// FeatureNames returns the vector field order
func (e *FeatureExtractor) FeatureNames() []string {
	names := make([]string, len(featureNames))
	copy(names, featureNames)
	return names
}

// Extract computes the feature vector for a URL
func (e *FeatureExtractor) Extract(rawURL string) []float64 {
	raw := strings.TrimSpace(rawURL)

	hasIP := 0.0
	if ipLiteralPattern.MatchString(raw) {
		hasIP = 1
	}

	isHTTPS := 0.0
	if strings.HasPrefix(raw, "https://") {
		isHTTPS = 1
	}

	host := ""
	parseable := raw
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		parseable = "http://" + raw
	}
	if parsed, err := url.Parse(parseable); err == nil {
		host = parsed.Hostname()
	}

	digits, letters := 0, 0
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		}
	}

	return []float64{
		float64(len(raw)),
		float64(strings.Count(raw, ".")),
		float64(strings.Count(raw, "@")),
		hasIP,
		float64(subdomainCount(host)),
		float64(strings.Count(raw, "-")),
		float64(strings.Count(raw, "_")),
		float64(strings.Count(raw, "/")),
		float64(strings.Count(raw, "?")),
		float64(strings.Count(raw, "=")),
		isHTTPS,
		float64(len(host)),
		float64(digits),
		float64(letters),
	}
}
