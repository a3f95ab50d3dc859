// Package stream turns a byte source into a lazy sequence of
// sentence-aligned text chunks without ever holding more than one read
// window (plus a small carry-over) in memory.
package stream

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Reader streams a document in fixed-size byte windows and emits chunks
// aligned to sentence boundaries. Malformed UTF-8 is skipped, never fatal.
type Reader struct {
	src       io.Reader
	closer    io.Closer
	chunkSize int
	buffer    int // sentences per emitted chunk

	size int64 // total bytes, -1 if unknown

	carry     []byte   // incomplete trailing UTF-8 sequence
	partial   string   // incomplete trailing sentence
	sentences []string // complete sentences awaiting emission
	eof       bool
}

// NewReader opens a file for sentence-aligned streaming.
func NewReader(path string, chunkSize, sentenceBuffer int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	r := NewReaderFrom(f, chunkSize, sentenceBuffer)
	r.closer = f
	r.size = size
	return r, nil
}

// NewReaderFrom streams from an arbitrary reader (fetched bodies, tests).
// The chunk estimate is unavailable in this mode.
func NewReaderFrom(src io.Reader, chunkSize, sentenceBuffer int) *Reader {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	if sentenceBuffer <= 0 {
		sentenceBuffer = 5
	}
	return &Reader{
		src:       src,
		chunkSize: chunkSize,
		buffer:    sentenceBuffer,
		size:      -1,
	}
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// EstimatedChunks estimates the total chunk count from file size. The
// estimate is advisory, for progress reporting only; it returns 0 when
// the source size is unknown.
func (r *Reader) EstimatedChunks() int {
	if r.size < 0 {
		return 0
	}
	return int(r.size/int64(r.chunkSize)) + 1
}

// Next returns the next sentence-aligned chunk, or io.EOF when the
// source is exhausted.
func (r *Reader) Next() (string, error) {
	window := make([]byte, r.chunkSize)

	for len(r.sentences) < r.buffer && !r.eof {
		n, err := r.src.Read(window)
		if n > 0 {
			data := append(r.carry, window[:n]...)
			decoded, carry := decode(data, false)
			r.carry = carry
			r.absorb(decoded, false)
		}
		if err == io.EOF {
			r.eof = true
			decoded, _ := decode(r.carry, true)
			r.carry = nil
			r.absorb(decoded, true)
		} else if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
	}

	if len(r.sentences) == 0 {
		return "", io.EOF
	}

	n := r.buffer
	if n > len(r.sentences) {
		n = len(r.sentences)
	}
	chunk := strings.Join(r.sentences[:n], " ")
	r.sentences = r.sentences[n:]
	return chunk, nil
}

// absorb appends decoded text to the pending sentence state. At end of
// stream the trailing remainder is promoted to a final sentence even
// without a terminal character.
func (r *Reader) absorb(decoded string, final bool) {
	text := r.partial + decoded
	sentences, remainder := SplitSentences(text)
	r.sentences = append(r.sentences, sentences...)
	r.partial = remainder

	if final && strings.TrimSpace(r.partial) != "" {
		r.sentences = append(r.sentences, strings.TrimSpace(r.partial))
		r.partial = ""
	}
}

// decode converts bytes to a string, skipping invalid UTF-8 sequences.
// An incomplete multi-byte sequence at the tail is returned as carry so
// it can complete against the next window; at end of stream it is dropped.
func decode(data []byte, eof bool) (string, []byte) {
	var b strings.Builder
	i := 0
	for i < len(data) {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			if !eof && incompleteTail(data[i:]) {
				carry := make([]byte, len(data)-i)
				copy(carry, data[i:])
				return b.String(), carry
			}
			// Malformed byte mid-stream: skip it.
			i++
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String(), nil
}

// incompleteTail reports whether b is a prefix of a valid multi-byte
// UTF-8 sequence that was cut off by the window boundary.
func incompleteTail(b []byte) bool {
	if len(b) == 0 || len(b) >= utf8.UTFMax {
		return false
	}

	var want int
	switch {
	case b[0]&0xE0 == 0xC0:
		want = 2
	case b[0]&0xF0 == 0xE0:
		want = 3
	case b[0]&0xF8 == 0xF0:
		want = 4
	default:
		return false
	}
	if len(b) >= want {
		return false
	}
	for _, c := range b[1:] {
		if c&0xC0 != 0x80 {
			return false
		}
	}
	return true
}
