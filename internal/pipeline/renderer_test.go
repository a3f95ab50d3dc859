package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ppiankov/contrafact/internal/model"
)

func sampleReport() *model.Report {
	report := model.NewReport("novel.txt")
	report.Stats = model.Stats{Chunks: 2, Claims: 4, Entities: 2, CandidatePairs: 2, ScoredPairs: 2, Contradictions: 1}
	report.Thresholds = model.Thresholds{Similarity: 0.6, Delta: 0.5}
	report.Verdicts = []model.Verdict{{
		Entity:      "Lord Edmund",
		Attribute:   model.AttrVitalStatus,
		Values:      [2]string{"alive", "dead"},
		Locations:   [2]string{"Chapter 1", "Chapter 5"},
		Delta:       0.81,
		Label:       model.LabelContradiction,
		SourceTexts: [2]string{"Lord Edmund was alive.", "Lord Edmund was dead."},
	}}
	return report
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).Render(sampleReport(), "json", &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var decoded model.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Verdicts) != 1 || decoded.Verdicts[0].Label != model.LabelContradiction {
		t.Errorf("verdicts lost in rendering: %+v", decoded)
	}
}

func TestRenderer_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).Render(sampleReport(), "pretty", &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Lord Edmund", "vital-status", "Chapter 1", "Chapter 5", "0.81"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in pretty output:\n%s", want, out)
		}
	}
}

func TestRenderer_PrettyConsistent(t *testing.T) {
	report := sampleReport()
	report.Verdicts = nil
	report.Stats.Contradictions = 0

	var buf bytes.Buffer
	if err := NewRenderer(false).Render(report, "pretty", &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "Consistent: no strong contradictions found") {
		t.Errorf("expected consistent banner, got:\n%s", buf.String())
	}
}

func TestRenderer_Summary(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).Render(sampleReport(), "summary", &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "1 contradiction") {
		t.Errorf("expected contradiction count, got:\n%s", out)
	}
	if !strings.Contains(out, `"alive" vs "dead"`) {
		t.Errorf("expected value pair, got:\n%s", out)
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 80) // 2 bytes per rune

	got := truncate(long, 121)
	if !utf8.ValidString(got) {
		t.Errorf("truncation split a rune: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if want := strings.Repeat("é", 60) + "…"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := truncate("short", 120); got != "short" {
		t.Errorf("short input must pass through, got %q", got)
	}
}

func TestRenderer_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(false).Render(sampleReport(), "xml", &buf); err == nil {
		t.Error("expected error for unknown format")
	}
}
