// Package store owns every write to the persisted URL collection. URLs are
// kept in four coupled Redis structures so that existence checks, reverse
// lookup and chronological retrieval are all cheap:
//
//	claude-sdk:urls                  set of all normalized URLs
//	claude-sdk:url:{fp}              fingerprint -> normalized URL
//	claude-sdk:url:{fp}:metadata     hash of StoredEntry fields
//	claude-sdk:urls:timeline         sorted set, fingerprint -> epoch seconds
//
// A fifth key, claude-sdk:stats, carries process-lifetime counters.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Prajwalb0208/Newsletter-automation/internal/models"
	"github.com/Prajwalb0208/Newsletter-automation/internal/urlutil"
)

const (
	keyPrefix   = "claude-sdk:"
	keyURLSet   = keyPrefix + "urls"
	keyTimeline = keyPrefix + "urls:timeline"
	keyStats    = keyPrefix + "stats"
)

func urlKey(fingerprint string) string {
	return keyPrefix + "url:" + fingerprint
}

func metadataKey(fingerprint string) string {
	return urlKey(fingerprint) + ":metadata"
}

// Conn is the slice of the go-redis API the store needs. *redis.Client
// satisfies it; tests supply a fake.
type Conn interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	SCard(ctx context.Context, key string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	ZAdd(ctx context.Context, key string, members ...*redis.Z) *redis.IntCmd
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
}

// Store persists collected URLs and their metadata.
type Store struct {
	conn Conn
	now  func() time.Time
}

// New creates a Store backed by the given connection.
func New(conn Conn) *Store {
	return &Store{conn: conn, now: time.Now}
}

// WithClock overrides the store's clock. Tests use it to pin timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// IsDuplicate reports whether the URL is already represented in the store.
// Two independent signals are consulted: the fingerprint lookup key and
// membership of the normalized URL in the main set; either one counts. A
// divergence between them is tolerated, not treated as corruption. Storage
// errors fail open (false plus the error) so a reachable new URL is never
// dropped because of a flaky round-trip.
func (s *Store) IsDuplicate(ctx context.Context, rawURL string) (bool, error) {
	fingerprint := urlutil.Fingerprint(rawURL)

	n, err := s.conn.Exists(ctx, urlKey(fingerprint)).Result()
	if err != nil {
		return false, fmt.Errorf("checking fingerprint key: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	normalized, _ := urlutil.Normalize(rawURL)
	member, err := s.conn.SIsMember(ctx, keyURLSet, normalized).Result()
	if err != nil {
		return false, fmt.Errorf("checking url set membership: %w", err)
	}
	return member, nil
}

// Save writes one URL and its metadata into all four structures. The writes
// are a best-effort batch: the first failing step aborts and the error is
// returned so the caller can count the candidate as not stored. Every write
// is keyed and idempotent, so a retry or a concurrent duplicate run
// overwrites with equivalent data rather than corrupting state.
func (s *Store) Save(ctx context.Context, rawURL string, meta models.Metadata) error {
	normalized, _ := urlutil.Normalize(rawURL)
	fingerprint := urlutil.Fingerprint(rawURL)
	now := s.now().UTC()

	if err := s.conn.SAdd(ctx, keyURLSet, normalized).Err(); err != nil {
		return fmt.Errorf("adding %s to url set: %w", normalized, err)
	}

	fields := map[string]interface{}{
		"url":          normalized,
		"hash":         fingerprint,
		"title":        meta.Title,
		"description":  meta.Description,
		"source":       meta.Source,
		"search_query": meta.SearchQuery,
		"collected_at": now.Format(time.RFC3339),
	}
	if err := s.conn.HSet(ctx, metadataKey(fingerprint), fields).Err(); err != nil {
		return fmt.Errorf("writing metadata for %s: %w", fingerprint, err)
	}

	z := &redis.Z{Score: float64(now.Unix()), Member: fingerprint}
	if err := s.conn.ZAdd(ctx, keyTimeline, z).Err(); err != nil {
		return fmt.Errorf("adding %s to timeline: %w", fingerprint, err)
	}

	if err := s.conn.Set(ctx, urlKey(fingerprint), normalized, 0).Err(); err != nil {
		return fmt.Errorf("writing lookup key for %s: %w", fingerprint, err)
	}

	return nil
}

// UpdateStats bumps the process-lifetime counters after a collection cycle.
func (s *Store) UpdateStats(ctx context.Context, added int) error {
	if err := s.conn.HIncrBy(ctx, keyStats, "total_collections", 1).Err(); err != nil {
		return fmt.Errorf("incrementing collection counter: %w", err)
	}

	fields := map[string]interface{}{
		"last_collection":  s.now().UTC().Format(time.RFC3339),
		"last_added_count": added,
	}
	if err := s.conn.HSet(ctx, keyStats, fields).Err(); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// URLCount returns the cardinality of the main URL set.
func (s *Store) URLCount(ctx context.Context) (int64, error) {
	return s.conn.SCard(ctx, keyURLSet).Result()
}

// Members returns every normalized URL in the main set.
func (s *Store) Members(ctx context.Context) ([]string, error) {
	return s.conn.SMembers(ctx, keyURLSet).Result()
}

// Stats returns the raw stats hash. Absent fields are simply missing keys.
func (s *Store) Stats(ctx context.Context) (map[string]string, error) {
	return s.conn.HGetAll(ctx, keyStats).Result()
}

// TimelineEntry pairs a fingerprint with its collection time.
type TimelineEntry struct {
	Fingerprint string
	CollectedAt int64
}

// Timeline returns every stored fingerprint in chronological order.
func (s *Store) Timeline(ctx context.Context) ([]TimelineEntry, error) {
	zs, err := s.conn.ZRangeWithScores(ctx, keyTimeline, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading timeline: %w", err)
	}

	entries := make([]TimelineEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, TimelineEntry{Fingerprint: member, CollectedAt: int64(z.Score)})
	}
	return entries, nil
}

// Entry reads back the StoredEntry for a fingerprint: the reverse-lookup key
// plus the metadata hash.
func (s *Store) Entry(ctx context.Context, fingerprint string) (models.StoredEntry, error) {
	normalized, err := s.conn.Get(ctx, urlKey(fingerprint)).Result()
	if err != nil && err != redis.Nil {
		return models.StoredEntry{}, fmt.Errorf("looking up %s: %w", fingerprint, err)
	}

	fields, err := s.conn.HGetAll(ctx, metadataKey(fingerprint)).Result()
	if err != nil {
		return models.StoredEntry{}, fmt.Errorf("reading metadata for %s: %w", fingerprint, err)
	}

	return models.StoredEntry{
		URL:         normalized,
		Hash:        fingerprint,
		Title:       fields["title"],
		Description: fields["description"],
		Source:      fields["source"],
		SearchQuery: fields["search_query"],
		CollectedAt: fields["collected_at"],
	}, nil
}
