package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores raw corpus-service payloads keyed by request URL, so repeated
// bulk fetches within the TTL window cost nothing.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a corpus request URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "papermatch:v1:" + hex.EncodeToString(sum[:])
}
