package models

import "time"

// DigestKind identifies what a cached digest was generated for
type DigestKind string

const (
	DigestCoach   DigestKind = "coach"
	DigestInsight DigestKind = "insight"
	DigestQuote   DigestKind = "quote"
)

// DigestKinds lists every valid kind
var DigestKinds = []DigestKind{DigestCoach, DigestInsight, DigestQuote}

// Valid reports whether k is one of the known digest kinds
func (k DigestKind) Valid() bool {
	for _, kind := range DigestKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// CachedDigest memoizes generated text per (Date, Kind)
type CachedDigest struct {
	Date      string     `json:"date"`
	Kind      DigestKind `json:"kind"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}
