package services

import (
	"strings"
)

// confusableMap maps characters commonly substituted in typosquatted
// domains to the letter they imitate. Applied before similarity
// comparison only; the original URL is never rewritten.
var confusableMap = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'5': 's',
	'8': 'b',
	'@': 'a',
	'$': 's',
}

// DomainMatcher decides whether a hostname impersonates one of a curated
// set of protected brand domains. The protected set is read-only after
// construction and safe for concurrent use.
type DomainMatcher struct {
	protected []string
	threshold float64
}

// NewDomainMatcher creates a matcher over an ordered protected set.
// When several protected domains exceed the similarity threshold, the
// first one in slice order wins (first over threshold, not closest).
func NewDomainMatcher(protected []string, threshold float64) *DomainMatcher {
	return &DomainMatcher{
		protected: protected,
		threshold: threshold,
	}
}

// RegistrableDomain extracts the domain minus subdomain labels: the last
// two labels of the hostname, or the whole hostname when it has fewer.
func RegistrableDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

// NormalizeConfusables replaces look-alike characters with their canonical
// letters, character for character.
func NormalizeConfusables(s string) string {
	return strings.Map(func(r rune) rune {
		if canonical, ok := confusableMap[r]; ok {
			return canonical
		}
		return r
	}, s)
}

// Match reports the protected domain a hostname appears to impersonate.
// Returns ("", false) for exact matches against the protected set, for
// hostnames with no close protected counterpart, and for malformed input.
func (m *DomainMatcher) Match(host string) (string, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return "", false
	}

	domain := RegistrableDomain(host)

	// Exact match means the real brand domain, not an impersonation.
	for _, legit := range m.protected {
		if domain == legit {
			return "", false
		}
	}

	// Character-substitution typosquats collapse to the brand domain
	// under confusable normalization (g00gle.com -> google.com).
	normalized := NormalizeConfusables(domain)
	if normalized != domain {
		for _, legit := range m.protected {
			if normalized == legit {
				return legit, true
			}
		}
	}

	// Edit-similarity against every protected domain; first over the
	// threshold wins.
	for _, legit := range m.protected {
		if similarityRatio(domain, legit) > m.threshold {
			return legit, true
		}
	}

	// Brand token embedded in a hyphenated label (paypal-verify.tk).
	label := strings.SplitN(domain, ".", 2)[0]
	if strings.Contains(label, "-") {
		for _, token := range strings.Split(label, "-") {
			if token == "" {
				continue
			}
			for _, legit := range m.protected {
				brand := strings.SplitN(legit, ".", 2)[0]
				if token == brand || similarityRatio(token, brand) > m.threshold {
					return legit, true
				}
			}
		}
	}

	return "", false
}

// similarityRatio is the classic normalized edit-similarity ratio in
// [0, 1]: twice the longest common subsequence length over the combined
// length of both strings.
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	ra := []rune(a)
	rb := []rune(b)
	lcs := lcsLength(ra, rb)

	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest common subsequence length with a
// two-row dynamic program.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
