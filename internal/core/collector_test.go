package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prajwalb0208/Newsletter-automation/internal/config"
	"github.com/Prajwalb0208/Newsletter-automation/internal/models"
	"github.com/Prajwalb0208/Newsletter-automation/internal/urlutil"
)

// scriptedSource returns the same candidate batch on every call and records
// the queries it was asked.
type scriptedSource struct {
	batch   []models.CandidateRecord
	err     error
	queries []string
}

func (s *scriptedSource) Fetch(ctx context.Context, query string, limit int) ([]models.CandidateRecord, error) {
	s.queries = append(s.queries, query)
	if len(s.batch) > limit {
		return s.batch[:limit], s.err
	}
	return s.batch, s.err
}

// acceptAll is a validator that optionally rejects specific URLs.
type acceptAll struct {
	reject map[string]bool
}

func (v *acceptAll) Validate(ctx context.Context, rawURL string) (bool, *models.OpError) {
	if v.reject[rawURL] {
		return false, nil
	}
	return true, nil
}

// memStore is an in-memory URLStore keyed by fingerprint.
type memStore struct {
	known      map[string]bool
	saved      []string
	dupErr     error
	saveErr    error
	statsCalls int
	statsAdded int
}

func newMemStore() *memStore {
	return &memStore{known: make(map[string]bool)}
}

func (m *memStore) IsDuplicate(ctx context.Context, rawURL string) (bool, error) {
	if m.dupErr != nil {
		return false, m.dupErr
	}
	return m.known[urlutil.Fingerprint(rawURL)], nil
}

func (m *memStore) Save(ctx context.Context, rawURL string, meta models.Metadata) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.known[urlutil.Fingerprint(rawURL)] = true
	normalized, _ := urlutil.Normalize(rawURL)
	m.saved = append(m.saved, normalized)
	return nil
}

func (m *memStore) UpdateStats(ctx context.Context, added int) error {
	m.statsCalls++
	m.statsAdded = added
	return nil
}

func candidates(n int) []models.CandidateRecord {
	batch := make([]models.CandidateRecord, n)
	for i := range batch {
		batch[i] = models.CandidateRecord{
			URL:    fmt.Sprintf("https://example.dev/post-%d", i),
			Title:  fmt.Sprintf("Post %d", i),
			Source: "Web Search",
		}
	}
	return batch
}

func testConfig() config.CollectorConfig {
	return config.CollectorConfig{
		TargetURLs:      5,
		AttemptsPerPass: 2,
		ResultsPerQuery: 10,
		QueryDelaySecs:  0,
	}
}

func TestRunStopsAtTargetMidBatch(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{batch: candidates(8)}
	store := newMemStore()
	c := NewCollector(testConfig(), source, &acceptAll{}, store).
		WithQueries([]string{"q1", "q2"})

	result, err := c.Run(context.Background(), "both")
	require.NoError(t, err)

	assert.Equal(t, 5, result.NewURLs, "must store exactly the target count")
	assert.Equal(t, 1, result.Attempts, "target is reachable in the first batch")
	assert.Equal(t, 5, result.Discovered, "remaining candidates in the batch are not processed")
	assert.Len(t, store.saved, 5)
	assert.True(t, result.TargetReached())
}

func TestRunExhaustsAttemptsOnDuplicates(t *testing.T) {
	t.Parallel()

	batch := candidates(3)
	store := newMemStore()
	for _, cand := range batch {
		store.known[urlutil.Fingerprint(cand.URL)] = true
	}

	source := &scriptedSource{batch: batch}
	c := NewCollector(testConfig(), source, &acceptAll{}, store).
		WithQueries([]string{"q1", "q2"})

	result, err := c.Run(context.Background(), "both")
	require.NoError(t, err)

	// 2 passes over 2 queries = 4 attempts, then the budget is spent.
	assert.Equal(t, 4, result.Attempts)
	assert.Equal(t, 0, result.NewURLs)
	assert.Equal(t, 4*len(batch), result.Duplicates)
	assert.Empty(t, store.saved)
}

func TestRunRoundRobinsQueries(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{} // always empty, never errors
	c := NewCollector(testConfig(), source, &acceptAll{}, newMemStore()).
		WithQueries([]string{"q1", "q2", "q3"})

	result, err := c.Run(context.Background(), "both")
	require.NoError(t, err)

	assert.Equal(t, 6, result.Attempts)
	assert.Equal(t, []string{"q1", "q2", "q3", "q1", "q2", "q3"}, source.queries)
}

func TestRunRecordsSearchErrorsAndAdvances(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{err: errors.New("rate limited")}
	c := NewCollector(testConfig(), source, &acceptAll{}, newMemStore()).
		WithQueries([]string{"q1"})

	result, err := c.Run(context.Background(), "both")
	require.NoError(t, err, "query failures never abort the run")

	require.Len(t, result.Errors, 2)
	for _, opErr := range result.Errors {
		assert.Equal(t, models.SearchError, opErr.Kind)
	}
}

func TestRunSkipsRejectedCandidates(t *testing.T) {
	t.Parallel()

	batch := candidates(3)
	validator := &acceptAll{reject: map[string]bool{batch[1].URL: true}}
	store := newMemStore()

	cfg := testConfig()
	cfg.TargetURLs = 3
	cfg.AttemptsPerPass = 1
	c := NewCollector(cfg, &scriptedSource{batch: batch}, validator, store).
		WithQueries([]string{"q1"})

	result, err := c.Run(context.Background(), "both")
	require.NoError(t, err)

	assert.Equal(t, 2, result.NewURLs)
	for _, saved := range store.saved {
		assert.NotContains(t, saved, "post-1")
	}
}

func TestRunStoreFailureNotCounted(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.saveErr = errors.New("readonly replica")

	c := NewCollector(testConfig(), &scriptedSource{batch: candidates(2)}, &acceptAll{}, store).
		WithQueries([]string{"q1"})

	result, err := c.Run(context.Background(), "both")
	require.NoError(t, err)

	assert.Equal(t, 0, result.NewURLs)
	assert.Equal(t, 2, result.Attempts, "budget still bounds the run")
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, models.StoreError, result.Errors[0].Kind)
}

func TestRunDuplicateCheckFailsOpen(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.dupErr = errors.New("connection reset")

	cfg := testConfig()
	cfg.TargetURLs = 2
	c := NewCollector(cfg, &scriptedSource{batch: candidates(2)}, &acceptAll{}, store).
		WithQueries([]string{"q1"})

	result, err := c.Run(context.Background(), "both")
	require.NoError(t, err)

	assert.Equal(t, 2, result.NewURLs, "duplicate-check errors must not drop new URLs")
	var kinds []models.ErrorKind
	for _, opErr := range result.Errors {
		kinds = append(kinds, opErr.Kind)
	}
	assert.Contains(t, kinds, models.StoreError)
}

func TestRunUpdatesStatsOnce(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	c := NewCollector(testConfig(), &scriptedSource{batch: candidates(8)}, &acceptAll{}, store).
		WithQueries([]string{"q1"})

	result, err := c.Run(context.Background(), "both")
	require.NoError(t, err)

	assert.Equal(t, 1, store.statsCalls)
	assert.Equal(t, result.NewURLs, store.statsAdded)
}

func TestRunHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(testConfig(), &scriptedSource{batch: candidates(8)}, &acceptAll{}, newMemStore()).
		WithQueries([]string{"q1"})

	result, err := c.Run(ctx, "both")
	require.Error(t, err)
	assert.Equal(t, 0, result.NewURLs)
}
