package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a stable hex digest of s.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// LogRef returns a short digest suitable for correlating secrets such as
// session IDs in logs without writing the raw value.
func LogRef(s string) string {
	if s == "" {
		return ""
	}
	return HashKey(s)[:12]
}
