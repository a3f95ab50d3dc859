package embedcache

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Disk persists vectors as one JSON file per key so embeddings survive
// across runs of the same document.
type Disk struct {
	dir string
}

// NewDisk creates a disk cache rooted at dir.
func NewDisk(dir string) *Disk {
	return &Disk{dir: dir}
}

// Get retrieves a vector. Any read or decode problem is treated as a
// miss; the caller simply recomputes.
func (d *Disk) Get(key string) ([]float32, bool) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		return nil, false
	}

	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		_ = os.Remove(d.path(key))
		return nil, false
	}
	return vector, true
}

// Set stores a vector. Cache writes are best-effort; a full disk never
// fails a scan.
func (d *Disk) Set(key string, vector []float32) {
	data, err := json.Marshal(vector)
	if err != nil {
		return
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return
	}
	_ = os.WriteFile(d.path(key), data, 0644)
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key+".vec")
}
