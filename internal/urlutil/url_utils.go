// Package urlutil provides URL canonicalization and fingerprinting used for
// duplicate detection across collection runs.
package urlutil

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// FingerprintLength is the number of hex characters kept from the digest.
const FingerprintLength = 16

// Normalize canonicalizes a raw URL string so that textual variants of the
// same resource compare equal: the host is lowercased with a leading "www."
// stripped, the scheme is forced to https, trailing slashes are removed from
// the path, the fragment is dropped and the query string is kept verbatim.
//
// Normalization never aborts the pipeline: on parse failure the input is
// returned unchanged together with the error so the caller can log it.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return raw, err
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := strings.TrimRight(u.Path, "/")

	normalized := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     path,
		RawQuery: u.RawQuery,
	}
	return normalized.String(), nil
}

// Fingerprint derives the storage key for a URL: the first 16 hex characters
// of the SHA-256 digest of its normalized form. It is the only hashing entry
// point, so two variants that normalize identically always share a key.
func Fingerprint(raw string) string {
	normalized, _ := Normalize(raw)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:FingerprintLength]
}
