// Package validator decides whether a candidate URL is worth storing. The
// check is intentionally cheap: trusted hosts are accepted outright, anything
// else gets a single bounded existence probe.
package validator

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Prajwalb0208/Newsletter-automation/internal/models"
	"github.com/Prajwalb0208/Newsletter-automation/internal/requester"
)

// probeUserAgent identifies the collector's liveness probes.
const probeUserAgent = "Mozilla/5.0 (compatible; ClaudeCodeSDKCollector/1.0)"

// trustedDomains are hosts known to serve relevant, live content. URLs on
// these hosts skip the network probe entirely.
var trustedDomains = []string{
	"anthropic.com", "claude.ai", "docs.anthropic.com",
	"github.com", "medium.com", "dev.to", "hackernoon.com",
	"stackoverflow.com", "reddit.com", "twitter.com",
	"youtube.com", "producthunt.com", "news.ycombinator.com",
}

// Prober issues the existence probes. Satisfied by requester.HTTPClient;
// tests fake it to observe which calls are made.
type Prober interface {
	Head(ctx context.Context, urlStr string) (*http.Response, error)
	Get(ctx context.Context, urlStr string) (*http.Response, error)
}

// Validator performs the liveness/relevance check on candidate URLs.
type Validator struct {
	client Prober
	// strict rejects URLs whose probe fails with a non-timeout transport
	// error; the default lenient mode accepts them and defers the real
	// check to whoever eventually fetches the URL.
	strict bool
}

// New creates a Validator with the given probe timeout and strictness.
func New(timeout time.Duration, strict bool) *Validator {
	return NewWithProber(requester.NewHTTPClient(timeout, probeUserAgent), strict)
}

// NewWithProber creates a Validator over a caller-supplied prober.
func NewWithProber(client Prober, strict bool) *Validator {
	return &Validator{client: client, strict: strict}
}

// Validate reports whether the URL is acceptable to store. The returned
// OpError, when non-nil, describes a tolerated probe failure; it is recorded
// by the caller even when the URL is accepted.
func (v *Validator) Validate(ctx context.Context, rawURL string) (bool, *models.OpError) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false, nil
	}

	host := strings.ToLower(parsed.Hostname())
	for _, domain := range trustedDomains {
		if strings.Contains(host, domain) {
			return true, nil
		}
	}

	resp, err := v.client.Head(ctx, rawURL)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		resp, err = v.client.Get(ctx, rawURL)
	}
	if err != nil {
		return v.probeFailed(rawURL, err)
	}
	defer resp.Body.Close()

	return resp.StatusCode < 400, nil
}

// probeFailed maps a probe transport error onto the accept/reject decision.
// Timeouts always accept: a slow host may still be a valid source.
func (v *Validator) probeFailed(rawURL string, err error) (bool, *models.OpError) {
	if isTimeout(err) {
		log.Debug().Str("url", rawURL).Msg("Probe timed out, accepting optimistically")
		return true, &models.OpError{Kind: models.NetworkTimeout, Msg: err.Error()}
	}

	opErr := &models.OpError{Kind: models.NetworkError, Msg: err.Error()}
	if v.strict {
		return false, opErr
	}
	log.Debug().Str("url", rawURL).Err(err).Msg("Probe failed, accepting leniently")
	return true, opErr
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
