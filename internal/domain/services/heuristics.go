package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"phishshield/internal/config"
	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

// ipLiteralPattern matches a dotted-quad anywhere in the URL string,
// with or without a scheme prefix.
var ipLiteralPattern = regexp.MustCompile(`(?:https?://)?(\d{1,3}\.){3}\d{1,3}`)

// scanInput is the pre-parsed view of a URL shared by all checks. The
// raw string is lower-cased and trimmed; host is empty when the URL does
// not parse, and checks that need it degrade to their neutral result.
type scanInput struct {
	raw  string
	host string
}

// heuristicCheck is one entry of the scoring table: a named predicate
// that returns its weight contribution and a human-readable label when
// triggered.
type heuristicCheck struct {
	Name string
	Run  func(in *scanInput) (weight int, label string, triggered bool)
}

// HeuristicAnalyzer runs structural and lexical checks against a URL and
// produces a bounded suspicion score. All checks run unconditionally;
// scoring is order-independent but reasons keep table order for
// reproducibility.
type HeuristicAnalyzer struct {
	matcher             *DomainMatcher
	keywords            []string
	tlds                []string
	suspiciousThreshold int
	checks              []heuristicCheck
	logger              *logger.Logger
}

// NewHeuristicAnalyzer creates an analyzer from the static scan
// configuration. The rule tables are read-only afterwards and the
// analyzer is safe for concurrent use.
func NewHeuristicAnalyzer(cfg config.ScanConfig, log *logger.Logger) *HeuristicAnalyzer {
	a := &HeuristicAnalyzer{
		matcher:             NewDomainMatcher(cfg.ProtectedDomains, cfg.SimilarityThreshold),
		keywords:            cfg.SuspiciousKeywords,
		tlds:                cfg.SuspiciousTLDs,
		suspiciousThreshold: cfg.SuspiciousThreshold,
		logger:              log.WithComponent("heuristics"),
	}
	a.checks = a.buildChecks()
	return a
}

// buildChecks assembles the scoring table. Weights are fixed per check;
// only the keyword check varies its contribution with the match count.
func (a *HeuristicAnalyzer) buildChecks() []heuristicCheck {
	return []heuristicCheck{
		{
			Name: "ip_literal",
			Run: func(in *scanInput) (int, string, bool) {
				if ipLiteralPattern.MatchString(in.raw) {
					return 30, "Contains IP address instead of domain name", true
				}
				return 0, "", false
			},
		},
		{
			Name: "excessive_subdomains",
			Run: func(in *scanInput) (int, string, bool) {
				count := subdomainCount(in.host)
				if count >= 3 {
					return 20, fmt.Sprintf("Suspicious number of subdomains (%d)", count), true
				}
				return 0, "", false
			},
		},
		{
			Name: "typosquatting",
			Run: func(in *scanInput) (int, string, bool) {
				if target, ok := a.matcher.Match(in.host); ok {
					return 40, fmt.Sprintf("Possible typosquatting of %s", target), true
				}
				return 0, "", false
			},
		},
		{
			Name: "suspicious_keywords",
			Run: func(in *scanInput) (int, string, bool) {
				count := 0
				for _, kw := range a.keywords {
					if strings.Contains(in.raw, kw) {
						count++
					}
				}
				switch {
				case count >= 2:
					return 25, fmt.Sprintf("Contains %d suspicious keywords", count), true
				case count == 1:
					return 10, "Contains suspicious keyword", true
				}
				return 0, "", false
			},
		},
		{
			Name: "suspicious_tld",
			Run: func(in *scanInput) (int, string, bool) {
				for _, tld := range a.tlds {
					if strings.HasSuffix(in.host, tld) || strings.HasSuffix(in.raw, tld) {
						return 15, "Uses suspicious top-level domain", true
					}
				}
				return 0, "", false
			},
		},
		{
			Name: "masking_symbol",
			Run: func(in *scanInput) (int, string, bool) {
				if strings.Contains(in.raw, "@") {
					return 35, "Contains @ symbol (potential domain masking)", true
				}
				return 0, "", false
			},
		},
		{
			Name: "excessive_hyphens",
			Run: func(in *scanInput) (int, string, bool) {
				count := strings.Count(in.raw, "-")
				if count >= 4 {
					return 15, fmt.Sprintf("Excessive hyphens (%d)", count), true
				}
				return 0, "", false
			},
		},
		{
			Name: "excessive_length",
			Run: func(in *scanInput) (int, string, bool) {
				if len(in.raw) > 100 {
					return 10, "Unusually long URL", true
				}
				return 0, "", false
			},
		},
		{
			Name: "homograph",
			Run: func(in *scanInput) (int, string, bool) {
				for _, r := range in.host {
					if r > 127 {
						return 30, "Possible homograph attack (lookalike characters)", true
					}
				}
				return 0, "", false
			},
		},
	}
}

// Analyze runs every check against the URL and returns the aggregate
// result. Never fails: malformed input degrades individual checks to
// their neutral outcome.
func (a *HeuristicAnalyzer) Analyze(rawURL string) models.HeuristicResult {
	in := newScanInput(rawURL)

	result := models.HeuristicResult{
		Reasons: []string{},
	}

	confidence := 0
	for _, check := range a.checks {
		weight, label, triggered := check.Run(in)
		if !triggered {
			continue
		}
		confidence += weight
		result.Reasons = append(result.Reasons, label)
		result.Findings = append(result.Findings, models.HeuristicFinding{
			Check:  check.Name,
			Weight: weight,
			Label:  label,
		})
	}

	result.Confidence = clampInt(confidence, 0, 100)
	result.Suspicious = result.Confidence >= a.suspiciousThreshold

	return result
}

// newScanInput lower-cases and trims the URL, then extracts the hostname,
// synthesizing an http:// prefix for parsing when absent. The raw string
// keeps its canonical (scheme-less) form.
func newScanInput(rawURL string) *scanInput {
	raw := strings.ToLower(strings.TrimSpace(rawURL))

	parseable := raw
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		parseable = "http://" + raw
	}

	in := &scanInput{raw: raw}
	if parsed, err := url.Parse(parseable); err == nil {
		in.host = parsed.Hostname()
	}

	return in
}

// subdomainCount counts hostname labels beyond the registrable domain.
func subdomainCount(host string) int {
	if host == "" {
		return 0
	}
	count := len(strings.Split(host, ".")) - 2
	if count < 0 {
		return 0
	}
	return count
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
