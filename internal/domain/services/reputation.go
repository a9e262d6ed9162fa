package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"phishshield/internal/config"
	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

// noHitReason is the reason string when no threat intelligence source
// knows the URL.
const noHitReason = "Not found in threat intelligence databases"

// ReputationClient looks a URL up in a threat intelligence source.
// Implementations must honor context cancellation; the orchestrator
// treats errors and timeouts as "no hit" with an error note.
type ReputationClient interface {
	Lookup(ctx context.Context, rawURL string) (models.ReputationResult, error)
}

// StubReputationClient is the placeholder used until a real feed
// integration (VirusTotal, PhishTank) exists. It never reports a hit.
type StubReputationClient struct {
	logger *logger.Logger
}

// NewStubReputationClient creates the placeholder client
func NewStubReputationClient(log *logger.Logger) *StubReputationClient {
	return &StubReputationClient{logger: log.WithComponent("reputation-stub")}
}

// Lookup always reports no hit
func (c *StubReputationClient) Lookup(ctx context.Context, rawURL string) (models.ReputationResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ReputationResult{}, err
	}
	c.logger.Debug().Str("url", rawURL).Msg("threat intelligence check (placeholder)")
	return models.ReputationResult{Hit: false, Reason: noHitReason}, nil
}

// BlocklistReputationClient reports hits for domains on a locally
// configured indicator list. Parent domains match too, so blocking
// example.com also blocks evil.example.com.
type BlocklistReputationClient struct {
	domains map[string]bool
	logger  *logger.Logger
}

// NewBlocklistReputationClient creates a client over a static domain list
func NewBlocklistReputationClient(domains []string, log *logger.Logger) *BlocklistReputationClient {
	set := make(map[string]bool, len(domains))
	for _, d := range domains {
		set[strings.ToLower(strings.TrimSpace(d))] = true
	}
	return &BlocklistReputationClient{
		domains: set,
		logger:  log.WithComponent("reputation-blocklist"),
	}
}

// Lookup checks the URL's hostname and its parent domains against the
// blocklist. Unparseable URLs are treated as no hit.
func (c *BlocklistReputationClient) Lookup(ctx context.Context, rawURL string) (models.ReputationResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ReputationResult{}, err
	}

	host := hostnameOf(rawURL)
	if host == "" {
		return models.ReputationResult{Hit: false, Reason: noHitReason}, nil
	}

	parts := strings.Split(host, ".")
	for i := 0; i < len(parts); i++ {
		candidate := strings.Join(parts[i:], ".")
		if c.domains[candidate] {
			c.logger.Info().Str("url", rawURL).Str("domain", candidate).Msg("blocklist hit")
			return models.ReputationResult{
				Hit:    true,
				Reason: fmt.Sprintf("Domain %s is on the local blocklist", candidate),
			}, nil
		}
	}

	return models.ReputationResult{Hit: false, Reason: noHitReason}, nil
}

// NewReputationClientFromConfig wires the configured reputation
// capability: the blocklist client when entries exist, the stub
// otherwise.
func NewReputationClientFromConfig(cfg config.ReputationConfig, log *logger.Logger) ReputationClient {
	if cfg.Enabled && len(cfg.Blocklist) > 0 {
		return NewBlocklistReputationClient(cfg.Blocklist, log)
	}
	return NewStubReputationClient(log)
}

// hostnameOf extracts the lower-cased hostname, synthesizing a scheme
// for parsing when absent. Empty on malformed input.
func hostnameOf(rawURL string) string {
	raw := strings.ToLower(strings.TrimSpace(rawURL))
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
