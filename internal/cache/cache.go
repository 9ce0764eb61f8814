// Package cache stores encoded directory lookups in memory, on disk, or both.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a namespace and a lookup description,
// e.g. Key("directory", filter.String())
func Key(namespace, lookup string) string {
	hash := sha256.Sum256([]byte(namespace + "\x00" + lookup))
	return "legisref:v1:" + namespace + ":" + hex.EncodeToString(hash[:16])
}
