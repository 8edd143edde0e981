package chunker

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSplitEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "whitespace only", input: "  \n\t  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.input, "cv.md", Config{ChunkSize: 400, ChunkOverlap: 80})
			var cerr *ChunkingError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ChunkingError, got %v", err)
			}
		})
	}
}

func TestSplitSectionLabels(t *testing.T) {
	doc := "Jane Doe, Senior Engineer.\n\n" +
		"## Skills\nGo, Postgres, Kubernetes, distributed systems.\n\n" +
		"## Certifications\nCKA (2023), AWS Solutions Architect Associate.\n"

	chunks, err := Split(doc, "cv.md", Config{ChunkSize: 400, ChunkOverlap: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"cv.md § preamble",
		"cv.md § Skills",
		"cv.md § Certifications",
	}
	var got []string
	for _, c := range chunks {
		got = append(got, c.SectionLabel)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
	}
	if !strings.Contains(chunks[2].Text, "CKA (2023)") {
		t.Errorf("certifications chunk lost its body: %q", chunks[2].Text)
	}
}

func TestSplitNoHeadings(t *testing.T) {
	chunks, err := Split("plain text resume with no markdown structure at all", "resume.txt", Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].SectionLabel != "resume.txt § document" {
		t.Errorf("label = %q", chunks[0].SectionLabel)
	}
}

func TestSplitDeterministic(t *testing.T) {
	doc := buildLongDoc(300)
	cfg := Config{ChunkSize: 50, ChunkOverlap: 10}

	a, err := Split(doc, "cv.md", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Split(doc, "cv.md", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two runs over identical input diverged")
	}
}

func TestSplitCoversEveryWord(t *testing.T) {
	doc := "# Experience\n" + buildLongDoc(500)
	chunks, err := Split(doc, "cv.md", Config{ChunkSize: 40, ChunkOverlap: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(chunks))
	}

	covered := make([]bool, len(doc))
	for _, c := range chunks {
		if c.StartOffset < 0 || c.EndOffset > len(doc) || c.StartOffset >= c.EndOffset {
			t.Fatalf("chunk %d has bad offsets [%d, %d)", c.Index, c.StartOffset, c.EndOffset)
		}
		for i := c.StartOffset; i < c.EndOffset; i++ {
			covered[i] = true
		}
	}

	body := len("# Experience\n") // the heading line belongs to no window
	for i, r := range doc {
		if i < body {
			continue
		}
		if r != ' ' && r != '\n' && r != '\t' && !covered[i] {
			t.Fatalf("offset %d (%q) not covered by any chunk", i, string(r))
		}
	}
}

func TestSplitOverlapRepeatsTrailingWords(t *testing.T) {
	doc := buildLongDoc(200)
	chunks, err := Split(doc, "cv.md", Config{ChunkSize: 30, ChunkOverlap: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartOffset >= chunks[i-1].EndOffset {
			t.Fatalf("chunks %d and %d do not overlap", i-1, i)
		}
		if chunks[i].StartOffset <= chunks[i-1].StartOffset {
			t.Fatalf("window %d did not advance", i)
		}
	}
}

func TestSplitDeduplicatesRepeatedText(t *testing.T) {
	para := "Led migration of the billing platform to Go microservices."
	doc := "## Role A\n" + para + "\n\n## Role B\n" + para + "\n"

	chunks, err := Split(doc, "cv.md", Config{ChunkSize: 400, ChunkOverlap: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected duplicate window to be dropped, got %d chunks", len(chunks))
	}
	if chunks[0].SectionLabel != "cv.md § Role A" {
		t.Errorf("surviving chunk label = %q", chunks[0].SectionLabel)
	}
}

func TestSplitFinalShortWindow(t *testing.T) {
	doc := buildLongDoc(105)
	chunks, err := Split(doc, "cv.md", Config{ChunkSize: 25, ChunkOverlap: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(last.Text, "word0104") {
		t.Fatalf("final window missing trailing words: %q", last.Text)
	}
}

func buildLongDoc(words int) string {
	var b strings.Builder
	for i := 0; i < words; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "word%04d", i)
	}
	return b.String()
}
