package embedcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	base := Key("mock/", "Gregor was alive.")

	assert.Equal(t, base, Key("mock/", "Gregor was alive."), "key must be deterministic")
	assert.NotEqual(t, base, Key("mock/", "Gregor was dead."), "text change must change the key")
	assert.NotEqual(t, base, Key("openai/text-embedding-3-small", "Gregor was alive."), "model change must change the key")
}

func TestMemory(t *testing.T) {
	m := NewMemory(time.Hour, time.Minute)

	_, found := m.Get("missing")
	assert.False(t, found)

	m.Set("k", []float32{1, 2, 3})
	vec, found := m.Get("k")
	require.True(t, found)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}

func TestDisk_RoundtripAndCorruption(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir)

	key := Key("mock/", "some text")
	d.Set(key, []float32{0.5, -0.25})

	vec, found := d.Get(key)
	require.True(t, found)
	assert.Equal(t, []float32{0.5, -0.25}, vec)

	// A second Disk over the same dir sees the entry.
	vec, found = NewDisk(dir).Get(key)
	require.True(t, found)
	assert.Equal(t, []float32{0.5, -0.25}, vec)

	// Corrupt entries are a miss, not an error.
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+".vec"), []byte("not json"), 0o644))
	_, found = d.Get(key)
	assert.False(t, found)
}

func TestLayered_Promotion(t *testing.T) {
	dir := t.TempDir()

	// Seed only the disk layer.
	NewDisk(dir).Set("k", []float32{9})

	l := NewLayered(dir)
	vec, found := l.Get("k")
	require.True(t, found)
	assert.Equal(t, []float32{9}, vec)

	// After promotion the memory layer answers on its own.
	vec, found = l.memory.Get("k")
	require.True(t, found)
	assert.Equal(t, []float32{9}, vec)

	l.Set("m", []float32{7})
	_, found = NewDisk(dir).Get("m")
	assert.True(t, found, "Set must reach the disk layer")
}
