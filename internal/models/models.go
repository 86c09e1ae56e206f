// Package models contains the data structures used across the application.
package models

import "fmt"

// CandidateRecord is a URL plus metadata proposed by a search source.
// Candidates are ephemeral: only validated, non-duplicate ones are persisted.
type CandidateRecord struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Metadata is the bundle persisted alongside a stored URL.
type Metadata struct {
	Title       string
	Description string
	Source      string
	SearchQuery string
}

// StoredEntry is a fully persisted URL record, as read back from the store.
type StoredEntry struct {
	URL         string
	Hash        string
	Title       string
	Description string
	Source      string
	SearchQuery string
	CollectedAt string
}

// ErrorKind classifies a recoverable per-operation failure.
type ErrorKind int

const (
	ParseError ErrorKind = iota
	NetworkTimeout
	NetworkError
	StoreError
	SearchError
)

// String returns the human-readable name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ParseError:
		return "parse"
	case NetworkTimeout:
		return "network-timeout"
	case NetworkError:
		return "network"
	case StoreError:
		return "store"
	case SearchError:
		return "search"
	default:
		return "unknown"
	}
}

// OpError records a single recoverable failure encountered during a run.
type OpError struct {
	Kind ErrorKind
	Msg  string
}

// Error implements the error interface.
func (e OpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// RunResult accumulates the counters for one collection cycle. It is owned
// by the driver and returned to the caller; nothing in it is shared state.
type RunResult struct {
	Target         int
	Attempts       int
	SourcesQueried int
	Discovered     int
	Duplicates     int
	NewURLs        int
	Collected      []string
	Errors         []OpError
}

// RecordError appends a recoverable failure to the run's error list.
func (r *RunResult) RecordError(kind ErrorKind, format string, args ...interface{}) {
	r.Errors = append(r.Errors, OpError{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// TargetReached reports whether the run stored at least the target count.
func (r *RunResult) TargetReached() bool {
	return r.NewURLs >= r.Target
}
