package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// HashKey returns the hex-encoded SHA256 of key.
func HashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// TableKey returns the cache key of the compiled route table built from
// the routes file at sourcePath. Relative and absolute spellings of the
// same path map to the same key.
func TableKey(prefix, sourcePath string) string {
	if abs, err := filepath.Abs(sourcePath); err == nil {
		sourcePath = abs
	}
	return prefix + "table:" + HashKey(filepath.Clean(sourcePath))
}
