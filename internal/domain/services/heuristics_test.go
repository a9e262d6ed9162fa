package services

import (
	"strings"
	"testing"
)

func TestAnalyze(t *testing.T) {
	analyzer := NewHeuristicAnalyzer(testScanCfg(), testLog())

	tests := []struct {
		name           string
		url            string
		wantConfidence int
		wantSuspicious bool
		wantReason     string
	}{
		{
			name:           "clean well-known URL",
			url:            "https://www.google.com",
			wantConfidence: 0,
			wantSuspicious: false,
		},
		{
			name:           "IP literal with login keyword",
			url:            "http://192.168.1.1/login",
			wantConfidence: 40,
			wantSuspicious: true,
			wantReason:     "Contains IP address instead of domain name",
		},
		{
			name:           "masking symbol only",
			url:            "https://google.com@evil.com",
			wantConfidence: 35,
			wantSuspicious: false,
			wantReason:     "Contains @ symbol (potential domain masking)",
		},
		{
			name:           "deep subdomain nesting",
			url:            "http://a.b.c.example.com/page",
			wantConfidence: 20,
			wantSuspicious: false,
			wantReason:     "Suspicious number of subdomains (3)",
		},
		{
			name:           "typosquat with keyword on cheap TLD",
			url:            "http://paypal-verify.tk",
			wantConfidence: 65,
			wantSuspicious: true,
			wantReason:     "Possible typosquatting of paypal.com",
		},
		{
			name:           "confusable substitution",
			url:            "http://g00gle.com",
			wantConfidence: 40,
			wantSuspicious: true,
			wantReason:     "Possible typosquatting of google.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.Analyze(tt.url)

			if result.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %d, want %d (reasons: %v)",
					result.Confidence, tt.wantConfidence, result.Reasons)
			}
			if result.Suspicious != tt.wantSuspicious {
				t.Errorf("suspicious = %v, want %v", result.Suspicious, tt.wantSuspicious)
			}
			if tt.wantReason != "" && !containsString(result.Reasons, tt.wantReason) {
				t.Errorf("reasons %v missing %q", result.Reasons, tt.wantReason)
			}
			if tt.wantConfidence == 0 && len(result.Reasons) != 0 {
				t.Errorf("expected no reasons, got %v", result.Reasons)
			}
		})
	}
}

func TestAnalyze_ConfidenceClamped(t *testing.T) {
	analyzer := NewHeuristicAnalyzer(testScanCfg(), testLog())

	// Triggers IP literal, masking symbol, multiple keywords, suspicious
	// TLD, excessive hyphens and excessive length all at once; the raw sum
	// is well over 100.
	url := "http://192.168.1.1@secure-login-verify-account-update-zone.tk/confirm-password-reset?session=" +
		strings.Repeat("a", 40)

	result := analyzer.Analyze(url)

	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want clamp at 100 (reasons: %v)", result.Confidence, result.Reasons)
	}
	if !result.Suspicious {
		t.Error("expected suspicious")
	}
}

func TestAnalyze_MalformedInputDegrades(t *testing.T) {
	analyzer := NewHeuristicAnalyzer(testScanCfg(), testLog())

	// Host-dependent checks must fall back to their neutral result instead
	// of panicking when the URL does not parse.
	result := analyzer.Analyze("http://%zz bad url")

	if result.Confidence < 0 || result.Confidence > 100 {
		t.Errorf("confidence %d out of range", result.Confidence)
	}
}

func TestAnalyze_FindingsMatchReasons(t *testing.T) {
	analyzer := NewHeuristicAnalyzer(testScanCfg(), testLog())

	result := analyzer.Analyze("http://192.168.1.1/login")

	if len(result.Findings) != len(result.Reasons) {
		t.Fatalf("findings (%d) and reasons (%d) out of sync", len(result.Findings), len(result.Reasons))
	}

	sum := 0
	for i, f := range result.Findings {
		if f.Label != result.Reasons[i] {
			t.Errorf("finding %d label %q != reason %q", i, f.Label, result.Reasons[i])
		}
		sum += f.Weight
	}
	if sum != result.Confidence {
		t.Errorf("finding weights sum to %d, confidence is %d", sum, result.Confidence)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
