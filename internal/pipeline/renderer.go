package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/contrafact/internal/detect"
	"github.com/ppiankov/contrafact/internal/model"
)

// Renderer writes scan reports in one of three formats: machine JSON,
// a human-readable pretty listing, or a per-attribute summary.
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// Render writes the report to w in the given format.
func (r *Renderer) Render(report *model.Report, format string, w io.Writer) error {
	switch format {
	case "", "json":
		return r.RenderJSON(report, w)
	case "pretty":
		return r.RenderPretty(report, w)
	case "summary":
		return r.RenderSummary(report, w)
	default:
		return fmt.Errorf("unknown output format: %q (expected json, pretty, or summary)", format)
	}
}

// RenderJSON writes the full report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteJSON writes the report as JSON to a file, for batch output.
func (r *Renderer) WriteJSON(report *model.Report, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", closeErr)
		}
	}()
	return r.RenderJSON(report, f)
}

// RenderPretty writes a human-readable listing of every verdict.
func (r *Renderer) RenderPretty(report *model.Report, w io.Writer) error {
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Contrafact Report: %s\n", report.Document)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Chunks:          %d\n", report.Stats.Chunks)
	fmt.Fprintf(w, "  Claims:          %d\n", report.Stats.Claims)
	fmt.Fprintf(w, "  Entities:        %d\n", report.Stats.Entities)
	fmt.Fprintf(w, "  Candidate pairs: %d\n", report.Stats.CandidatePairs)
	fmt.Fprintf(w, "  Contradictions:  %d\n", report.Stats.Contradictions)
	if report.Stats.ReusedClaims {
		fmt.Fprintf(w, "  Claims reused from a previous scan\n")
	}
	fmt.Fprintf(w, "\n")

	contradictions := report.Contradictions()
	if len(contradictions) == 0 {
		fmt.Fprintf(w, "✓ Consistent: no strong contradictions found\n")
		fmt.Fprintf(w, "\n")
		return nil
	}

	for i, v := range contradictions {
		fmt.Fprintf(w, "✗ [%d] %s — %s (delta %.2f)\n", i+1, v.Entity, v.Attribute, v.Delta)
		fmt.Fprintf(w, "    %s: %q\n", v.Locations[0], v.Values[0])
		fmt.Fprintf(w, "    %s: %q\n", v.Locations[1], v.Values[1])
		if r.verbose {
			fmt.Fprintf(w, "    premise:    %s\n", truncate(v.SourceTexts[0], 120))
			fmt.Fprintf(w, "    hypothesis: %s\n", truncate(v.SourceTexts[1], 120))
		}
		fmt.Fprintf(w, "\n")
	}
	return nil
}

// RenderSummary writes one line per contradicted (entity, attribute),
// keeping only the strongest finding for each.
func (r *Renderer) RenderSummary(report *model.Report, w io.Writer) error {
	summary := detect.Summarize(report.Contradictions())
	if len(summary) == 0 {
		fmt.Fprintf(w, "✓ %s: consistent (%d claims, %d entities)\n",
			report.Document, report.Stats.Claims, report.Stats.Entities)
		return nil
	}

	fmt.Fprintf(w, "✗ %s: %d contradiction(s)\n", report.Document, len(summary))
	for _, v := range summary {
		fmt.Fprintf(w, "  %s/%s: %q vs %q (delta %.2f)\n",
			v.Entity, v.Attribute, v.Values[0], v.Values[1], v.Delta)
	}
	return nil
}

// truncate caps s at n bytes, backing off to a rune boundary so a
// multibyte character is never cut in half.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
