package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/contrafact/internal/model"
)

func sampleClaims() []model.Claim {
	return []model.Claim{
		{Entity: "Lord Edmund", Attribute: model.AttrVitalStatus, Value: "dead", TimeContext: "Chapter 5", SourceText: "Lord Edmund was dead.", ChunkIndex: 4, Confidence: 0.8},
		{Entity: "Lord Edmund", Attribute: model.AttrVitalStatus, Value: "alive", TimeContext: "Chapter 1", SourceText: "Lord Edmund was alive.", ChunkIndex: 0, Confidence: 0.8},
		{Entity: "Isabella", Attribute: model.AttrWealthStatus, Value: "rich", TimeContext: model.UnknownContext, SourceText: "Isabella was rich.", ChunkIndex: 2, Confidence: 0.75},
	}
}

func TestStore_GroupingAndOrder(t *testing.T) {
	s := New()
	for _, c := range sampleClaims() {
		s.Add(c)
	}

	if s.Len() != 3 {
		t.Errorf("expected 3 claims, got %d", s.Len())
	}

	entities := s.Entities()
	if len(entities) != 2 || entities[0] != "isabella" || entities[1] != "lord edmund" {
		t.Errorf("expected sorted normalized entities, got %v", entities)
	}

	// Lookup is case-insensitive and returns chunk order.
	group := s.ByEntity("LORD EDMUND")
	if len(group) != 2 {
		t.Fatalf("expected 2 claims for Lord Edmund, got %d", len(group))
	}
	if group[0].ChunkIndex != 0 || group[1].ChunkIndex != 4 {
		t.Errorf("expected claims ordered by chunk index, got %v", group)
	}
}

func TestStore_ByEntityReturnsCopy(t *testing.T) {
	s := New()
	s.Add(sampleClaims()[0])

	group := s.ByEntity("Lord Edmund")
	group[0].Value = "mutated"

	if s.ByEntity("Lord Edmund")[0].Value != "dead" {
		t.Error("ByEntity must not expose internal state")
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims", "doc.jsonl")

	s := New()
	for _, c := range sampleClaims() {
		s.Add(c)
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != s.Len() {
		t.Errorf("expected %d claims after reload, got %d", s.Len(), loaded.Len())
	}

	group := loaded.ByEntity("Lord Edmund")
	if len(group) != 2 || group[0].Value != "alive" || group[1].Value != "dead" {
		t.Errorf("claims corrupted by roundtrip: %v", group)
	}
	if group[0].TimeContext != "Chapter 1" || group[0].Confidence != 0.8 {
		t.Errorf("field loss in roundtrip: %+v", group[0])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.jsonl"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_CorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.jsonl")
	content := `{"entity":"Gregor","attribute":"vital-status","value":"alive","chunk_index":0}
{not json at all
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for corrupt line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the offending line, got %v", err)
	}
}

func TestPathFor_ContentKeyed(t *testing.T) {
	dir := t.TempDir()

	docA := filepath.Join(dir, "a.txt")
	docB := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(docA, []byte("Gregor was alive."), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(docB, []byte("Gregor was alive."), 0o644); err != nil {
		t.Fatal(err)
	}

	pathA, err := PathFor("store", docA)
	if err != nil {
		t.Fatalf("PathFor: %v", err)
	}
	pathB, err := PathFor("store", docB)
	if err != nil {
		t.Fatalf("PathFor: %v", err)
	}

	// Identical content, identical key, regardless of file name.
	if pathA != pathB {
		t.Errorf("same content should map to the same store path: %s vs %s", pathA, pathB)
	}
	if !strings.HasSuffix(pathA, ".jsonl") {
		t.Errorf("unexpected store path: %s", pathA)
	}

	// Editing the document must change the key.
	if err := os.WriteFile(docB, []byte("Gregor was dead."), 0o644); err != nil {
		t.Fatal(err)
	}
	pathC, err := PathFor("store", docB)
	if err != nil {
		t.Fatalf("PathFor: %v", err)
	}
	if pathC == pathA {
		t.Error("changed content should map to a different store path")
	}

	if got := PathForContent("store", []byte("Gregor was alive.")); got != pathA {
		t.Errorf("PathForContent should agree with PathFor: %s vs %s", got, pathA)
	}
}
