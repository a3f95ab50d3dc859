package stream

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func collectChunks(t *testing.T, r *Reader) []string {
	t.Helper()
	var chunks []string
	for {
		chunk, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestReader_SentenceAlignedChunks(t *testing.T) {
	text := "One is here. Two is here. Three is here. Four is here. " +
		"Five is here. Six is here. Seven is here."

	r := NewReaderFrom(strings.NewReader(text), 4096, 5)
	chunks := collectChunks(t, r)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	if !strings.HasSuffix(chunks[0], "Five is here.") {
		t.Errorf("first chunk should end at the fifth sentence, got %q", chunks[0])
	}
	if chunks[1] != "Six is here. Seven is here." {
		t.Errorf("unexpected second chunk: %q", chunks[1])
	}
}

// The same document must yield the same sentence sequence regardless of
// the read window size: claims depend on sentences, not byte offsets.
func TestReader_ChunkSizeIndependence(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("Lord Edmund was alive and well in the castle. ")
		sb.WriteString("Lady Isabella owned a large estate in the north. ")
	}
	text := sb.String()

	var baseline []string
	for _, chunkSize := range []int{7, 64, 512, 4096} {
		r := NewReaderFrom(strings.NewReader(text), chunkSize, 5)
		chunks := collectChunks(t, r)

		joined := strings.Join(chunks, " ")
		sentences, remainder := SplitSentences(joined)
		if strings.TrimSpace(remainder) != "" {
			t.Errorf("chunkSize=%d: unexpected remainder %q", chunkSize, remainder)
		}

		if baseline == nil {
			baseline = sentences
			continue
		}
		if len(sentences) != len(baseline) {
			t.Errorf("chunkSize=%d: got %d sentences, want %d", chunkSize, len(sentences), len(baseline))
			continue
		}
		for i := range sentences {
			if sentences[i] != baseline[i] {
				t.Errorf("chunkSize=%d: sentence %d = %q, want %q", chunkSize, i, sentences[i], baseline[i])
				break
			}
		}
	}
}

func TestReader_UnterminatedTail(t *testing.T) {
	r := NewReaderFrom(strings.NewReader("A complete sentence. And a trailing fragment"), 4096, 5)
	chunks := collectChunks(t, r)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0], "And a trailing fragment") {
		t.Errorf("trailing fragment should be promoted to a sentence, got %q", chunks[0])
	}
}

func TestReader_InvalidUTF8Skipped(t *testing.T) {
	data := []byte("Alice was alive.")
	data = append(data, 0xFF, 0xFE) // garbage bytes
	data = append(data, []byte(" Bob was dead.")...)

	r := NewReaderFrom(strings.NewReader(string(data)), 4096, 5)
	chunks := collectChunks(t, r)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0], "Alice was alive.") || !strings.Contains(chunks[0], "Bob was dead.") {
		t.Errorf("malformed bytes should be skipped, not fatal: %q", chunks[0])
	}
}

// A multi-byte rune cut by the window boundary must survive.
func TestReader_MultibyteAcrossWindows(t *testing.T) {
	text := "Zoë was alive. Zoë was dead."

	for chunkSize := 1; chunkSize <= 8; chunkSize++ {
		r := NewReaderFrom(strings.NewReader(text), chunkSize, 5)
		chunks := collectChunks(t, r)
		joined := strings.Join(chunks, " ")
		if strings.Count(joined, "Zoë") != 2 {
			t.Errorf("chunkSize=%d: multibyte rune corrupted: %q", chunkSize, joined)
		}
	}
}

func TestReader_EmptySource(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(""), 4096, 5)
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF for empty source, got %v", err)
	}
}

func TestReader_FileAndEstimate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	content := strings.Repeat("A sentence goes here. ", 500)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(path, 1024, 5)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer func() { _ = r.Close() }()

	if got := r.EstimatedChunks(); got < 1 {
		t.Errorf("expected a positive chunk estimate, got %d", got)
	}

	chunks := collectChunks(t, r)
	if len(chunks) != 100 {
		t.Errorf("expected 100 chunks of 5 sentences, got %d", len(chunks))
	}
}

func TestReader_MissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.txt"), 4096, 5); err == nil {
		t.Error("expected error for missing file")
	}
}
