package stream

import (
	"strings"
	"testing"
)

func TestVisibleText_SkipsNonNarrative(t *testing.T) {
	doc := `<html>
	<head><title>Ignored Title</title></head>
	<body>
		<nav>Ignored navigation</nav>
		<script>var ignored = true;</script>
		<style>.ignored { color: red; }</style>
		<p>Count Olaf was alive.</p>
		<p>Count Olaf was dead.</p>
	</body>
	</html>`

	text, err := VisibleText(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("VisibleText: %v", err)
	}

	for _, want := range []string{"Count Olaf was alive.", "Count Olaf was dead."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output, got %q", want, text)
		}
	}
	for _, skip := range []string{"Ignored Title", "Ignored navigation", "var ignored", ".ignored"} {
		if strings.Contains(text, skip) {
			t.Errorf("expected %q to be skipped, got %q", skip, text)
		}
	}
}
