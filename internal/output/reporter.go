// Package output renders the collector's console reporting: the end-of-run
// summary and the read-only verification listing.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Prajwalb0208/Newsletter-automation/internal/models"
)

// maxErrorLines caps how many recorded errors the summary prints.
const maxErrorLines = 5

// Reporter writes human-readable reports to a single destination.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to the given destination.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Reporter) rule(width int) {
	fmt.Fprintln(r.out, strings.Repeat("=", width))
}

// PrintSummary renders the collection cycle summary. totalStored is the
// store-wide URL count, or -1 when it could not be read.
func (r *Reporter) PrintSummary(result *models.RunResult, totalStored int64) {
	r.rule(60)
	r.printf("COLLECTION CYCLE SUMMARY")
	r.rule(60)
	r.printf("Timestamp:           %s", time.Now().UTC().Format(time.RFC3339))
	r.printf("Sources Queried:     %d", result.SourcesQueried)
	r.printf("URLs Discovered:     %d", result.Discovered)
	r.printf("Duplicates Filtered: %d", result.Duplicates)
	r.printf("New URLs Added:      %d", result.NewURLs)

	if totalStored >= 0 {
		r.printf("Total URLs in DB:    %d", totalStored)
	} else {
		r.printf("Total URLs in DB:    Unknown (store error)")
	}

	if len(result.Errors) > 0 {
		r.printf("")
		r.printf("Errors (%d):", len(result.Errors))
		for i, opErr := range result.Errors {
			if i >= maxErrorLines {
				r.printf("  ... and %d more", len(result.Errors)-maxErrorLines)
				break
			}
			r.printf("  - %s", opErr.Error())
		}
	} else {
		r.printf("Errors:              None")
	}
	r.rule(60)

	// A quota miss is reported prominently but is not a failure.
	if !result.TargetReached() {
		r.printf("")
		r.printf("[WARNING] Only collected %d URLs (target was %d)", result.NewURLs, result.Target)
		r.printf("[INFO] This may be normal if sources are exhausted or temporarily unavailable")
	}
}

// VerificationReport bundles everything the verify command reads. Entries
// arrive in timeline order.
type VerificationReport struct {
	Stats    map[string]string
	URLCount int64
	Entries  []models.StoredEntry
}

// PrintVerification renders the read-only verification listing in
// chronological order.
func (r *Reporter) PrintVerification(report VerificationReport) {
	r.rule(70)
	r.printf("CLAUDE CODE SDK COLLECTION - VERIFICATION")
	r.rule(70)

	if len(report.Stats) > 0 {
		r.printf("")
		r.printf("Collection Statistics:")
		r.printf("  Last Collection: %s", statOr(report.Stats, "last_collection"))
		r.printf("  Total Collections: %s", statOr(report.Stats, "total_collections"))
		r.printf("  Last Added Count: %s", statOr(report.Stats, "last_added_count"))
	}

	r.printf("")
	r.printf("Total Unique URLs: %d", report.URLCount)
	r.printf("")
	r.printf("Collected URLs:")
	fmt.Fprintln(r.out, strings.Repeat("-", 70))

	for i, entry := range report.Entries {
		r.printf("")
		r.printf("%d. URL: %s", i+1, entry.URL)
		r.printf("   Title: %s", orNA(entry.Title))
		r.printf("   Source: %s", orNA(entry.Source))
		r.printf("   Description: %s", orNA(entry.Description))
		r.printf("   Collected: %s", orNA(entry.CollectedAt))
		r.printf("   Search Query: %s", orNA(entry.SearchQuery))
	}

	r.printf("")
	r.rule(70)
	r.printf("[OK] Verification completed - %d URLs in database", report.URLCount)
	r.rule(70)
}

func statOr(stats map[string]string, field string) string {
	return orNA(stats[field])
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
