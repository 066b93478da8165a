package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DownloadTracker records that a (hashed) caller address recently downloaded
// a path. While a tracker row is live, repeat hits from the same caller do
// not count as new views.
type DownloadTracker struct {
	IPHash    string    `json:"ip_hash"    db:"ip_hash"`
	Path      string    `json:"path"       db:"path"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// Expired reports whether the tracking window has elapsed.
func (t *DownloadTracker) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// HashCallerAddress produces the salted one-way hash under which caller
// addresses are stored. Raw addresses must never reach the store.
func HashCallerAddress(addr, salt string) string {
	sum := sha256.Sum256([]byte(salt + addr))
	return hex.EncodeToString(sum[:])
}
