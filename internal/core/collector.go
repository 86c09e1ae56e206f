// Package core drives a collection cycle: it pulls candidates from the
// search source and pipes each one through normalize, duplicate check,
// validation and storage until the run's quota is met or the attempt budget
// runs out.
package core

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Prajwalb0208/Newsletter-automation/internal/config"
	"github.com/Prajwalb0208/Newsletter-automation/internal/models"
	"github.com/Prajwalb0208/Newsletter-automation/internal/search"
	"github.com/Prajwalb0208/Newsletter-automation/internal/urlutil"
)

// defaultQueries is the fixed query rotation for Claude Code SDK content.
var defaultQueries = []string{
	"Claude Code SDK documentation",
	"Claude Code SDK tutorial",
	"Claude Code SDK guide",
	"Claude Code SDK API",
	"Claude Code SDK examples",
	"Anthropic Claude Code SDK",
	"Claude Code SDK newsletter",
	"Claude Code SDK articles",
}

// URLValidator is the slice of the validator the driver depends on.
type URLValidator interface {
	Validate(ctx context.Context, rawURL string) (bool, *models.OpError)
}

// URLStore is the slice of the persistence layer the driver depends on.
type URLStore interface {
	IsDuplicate(ctx context.Context, rawURL string) (bool, error)
	Save(ctx context.Context, rawURL string, meta models.Metadata) error
	UpdateStats(ctx context.Context, added int) error
}

// Collector orchestrates one collection cycle. It holds no run state of its
// own; all counters live in the RunResult returned by Run.
type Collector struct {
	cfg       config.CollectorConfig
	source    search.Source
	validator URLValidator
	store     URLStore
	queries   []string
}

// NewCollector wires up a collector over the given collaborators.
func NewCollector(cfg config.CollectorConfig, source search.Source, validator URLValidator, store URLStore) *Collector {
	return &Collector{
		cfg:       cfg,
		source:    source,
		validator: validator,
		store:     store,
		queries:   defaultQueries,
	}
}

// WithQueries overrides the query rotation. Tests use it to keep the attempt
// budget small.
func (c *Collector) WithQueries(queries []string) *Collector {
	c.queries = queries
	return c
}

// Run executes one collection cycle and returns its counters. Candidate- and
// query-level failures are recorded in the result and never abort the cycle;
// the only returned error is context cancellation. The mode is informational.
func (c *Collector) Run(ctx context.Context, mode string) (*models.RunResult, error) {
	result := &models.RunResult{Target: c.cfg.TargetURLs}
	maxAttempts := c.cfg.AttemptsPerPass * len(c.queries)

	log.Info().
		Str("mode", mode).
		Int("target", result.Target).
		Int("max_attempts", maxAttempts).
		Msg("Starting collection cycle")

	queryIndex := 0
	for result.NewURLs < result.Target && result.Attempts < maxAttempts {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		query := c.queries[queryIndex%len(c.queries)]
		result.Attempts++
		result.SourcesQueried++

		log.Info().
			Int("attempt", result.Attempts).
			Int("needed", result.Target-result.NewURLs).
			Str("query", query).
			Msg("Querying source")

		candidates, err := c.source.Fetch(ctx, query, c.cfg.ResultsPerQuery)
		if err != nil {
			result.RecordError(models.SearchError, "search for %q: %v", query, err)
		}

		for _, candidate := range candidates {
			if candidate.URL == "" {
				continue
			}
			result.Discovered++

			if c.processCandidate(ctx, candidate, query, result) && result.TargetReached() {
				break
			}
		}

		queryIndex++
		if result.TargetReached() {
			log.Info().Int("count", result.NewURLs).Msg("Target reached")
			break
		}
		if result.Attempts < maxAttempts {
			c.pause(ctx)
		}
	}

	if err := c.store.UpdateStats(ctx, result.NewURLs); err != nil {
		log.Warn().Err(err).Msg("Failed to update collection stats")
	}

	return result, nil
}

// processCandidate runs one candidate through the pipeline and reports
// whether it was stored. Every failure mode skips the candidate; none of
// them stop the cycle.
func (c *Collector) processCandidate(ctx context.Context, candidate models.CandidateRecord, query string, result *models.RunResult) bool {
	normalized, err := urlutil.Normalize(candidate.URL)
	if err != nil {
		// Normalization fails soft: record and keep going with the raw URL.
		result.RecordError(models.ParseError, "normalizing %s: %v", candidate.URL, err)
	}

	duplicate, err := c.store.IsDuplicate(ctx, candidate.URL)
	if err != nil {
		// Fail open: a possible re-store is cheaper than a lost URL.
		result.RecordError(models.StoreError, "duplicate check for %s: %v", normalized, err)
	}
	if duplicate {
		log.Debug().Str("url", normalized).Msg("Skipping duplicate")
		result.Duplicates++
		return false
	}

	ok, opErr := c.validator.Validate(ctx, candidate.URL)
	if opErr != nil {
		result.Errors = append(result.Errors, *opErr)
	}
	if !ok {
		log.Debug().Str("url", normalized).Msg("Validation rejected candidate")
		return false
	}

	meta := models.Metadata{
		Title:       candidate.Title,
		Description: candidate.Description,
		Source:      candidate.Source,
		SearchQuery: query,
	}
	if err := c.store.Save(ctx, candidate.URL, meta); err != nil {
		result.RecordError(models.StoreError, "storing %s: %v", normalized, err)
		return false
	}

	result.NewURLs++
	result.Collected = append(result.Collected, normalized)
	log.Info().
		Str("url", normalized).
		Int("stored", result.NewURLs).
		Int("target", result.Target).
		Msg("Stored new URL")
	return true
}

// pause waits the configured inter-query delay, a politeness measure toward
// the search endpoint. Cancellation cuts it short.
func (c *Collector) pause(ctx context.Context) {
	delay := time.Duration(c.cfg.QueryDelaySecs) * time.Second
	if delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
