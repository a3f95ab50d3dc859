// Package store accumulates and persists claims keyed by entity. The
// on-disk format is one self-describing JSON record per line, so stores
// can be streamed, appended, and partially read without rewriting.
package store

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/ppiankov/contrafact/internal/model"
)

// Store holds claims grouped by normalized entity. Claims are immutable
// and append-only; a "changed" fact is a new claim, which is exactly
// what creates a contradiction candidate.
type Store struct {
	mu     sync.RWMutex
	claims map[string][]model.Claim
	total  int
}

// New creates an empty store.
func New() *Store {
	return &Store{claims: make(map[string][]model.Claim)}
}

// Add appends a claim to its entity group.
func (s *Store) Add(claim model.Claim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := claim.EntityKey()
	s.claims[key] = append(s.claims[key], claim)
	s.total++
}

// ByEntity returns the entity's claims ordered by chunk index. The
// returned slice is a copy; the store is never mutated through it.
func (s *Store) ByEntity(entity string) []model.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group := s.claims[model.Claim{Entity: entity}.EntityKey()]
	out := make([]model.Claim, len(group))
	copy(out, group)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChunkIndex < out[j].ChunkIndex
	})
	return out
}

// Entities returns all normalized entity keys, sorted for deterministic
// iteration.
func (s *Store) Entities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities := make([]string, 0, len(s.claims))
	for key := range s.claims {
		entities = append(entities, key)
	}
	sort.Strings(entities)
	return entities
}

// Len returns the total claim count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Save writes the store as JSONL, one claim per line, in deterministic
// entity-then-chunk order.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create claims dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create claims file: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w) // Encoder appends the newline per record

	for _, entity := range s.Entities() {
		for _, claim := range s.ByEntity(entity) {
			if err := enc.Encode(claim); err != nil {
				_ = f.Close()
				return fmt.Errorf("encode claim: %w", err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush claims file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close claims file: %w", err)
	}
	return nil
}

// Load reads a persisted store. A missing, unreadable, or corrupt file
// is surfaced as an error; the caller decides whether to fall back to
// re-extraction.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open claims file: %w", err)
	}
	defer func() { _ = f.Close() }()

	s := New()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var claim model.Claim
		if err := json.Unmarshal(raw, &claim); err != nil {
			return nil, fmt.Errorf("claims file %s line %d: %w", path, line, err)
		}
		s.Add(claim)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}
	return s, nil
}

// PathFor derives the persisted store path for a document from the
// blake3 hash of its content. Editing the document changes the key, so
// a stale store is never silently reused.
func PathFor(dir, documentPath string) (string, error) {
	f, err := os.Open(documentPath)
	if err != nil {
		return "", fmt.Errorf("open document for hashing: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return filepath.Join(dir, keyFromSum(h.Sum(nil))), nil
}

// PathForContent derives the store path for in-memory content (fetched
// documents).
func PathForContent(dir string, content []byte) string {
	h := blake3.New()
	_, _ = h.Write(content)
	return filepath.Join(dir, keyFromSum(h.Sum(nil)))
}

func keyFromSum(sum []byte) string {
	return hex.EncodeToString(sum)[:16] + ".jsonl"
}
