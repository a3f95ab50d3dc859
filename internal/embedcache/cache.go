// Package embedcache caches embedding vectors across runs. Pair count
// grows quadratically in group size while embedding count grows
// linearly, so every vector is computed once and reused.
package embedcache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache is the vector cache contract.
type Cache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vector []float32)
}

// Key derives a cache key from the embedding model and the exact text.
// Changing either invalidates the entry.
func Key(embeddingModel, text string) string {
	hash := sha256.Sum256([]byte(embeddingModel + "\x00" + text))
	return "contrafact:v1:" + hex.EncodeToString(hash[:])
}
