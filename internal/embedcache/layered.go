package embedcache

import "time"

// Layered combines the memory and disk layers: memory first, disk
// behind it, with promotion on disk hits.
type Layered struct {
	memory Cache
	disk   Cache
}

// NewLayered creates the standard two-layer cache.
func NewLayered(dir string) *Layered {
	return &Layered{
		memory: NewMemory(1*time.Hour, 10*time.Minute),
		disk:   NewDisk(dir),
	}
}

// Get checks memory, then disk.
func (l *Layered) Get(key string) ([]float32, bool) {
	if vec, found := l.memory.Get(key); found {
		return vec, true
	}
	if vec, found := l.disk.Get(key); found {
		l.memory.Set(key, vec)
		return vec, true
	}
	return nil, false
}

// Set stores in both layers.
func (l *Layered) Set(key string, vector []float32) {
	l.memory.Set(key, vector)
	l.disk.Set(key, vector)
}
