// Package chunker splits a profile document into overlapping, heading-aware
// chunks suitable for embedding. Splitting is pure and deterministic:
// identical input and config always produce the identical chunk sequence.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// One token is approximated as four characters. Good enough for sizing
// windows against embedding-model limits without pulling in a tokenizer.
const charsPerToken = 4

var headingRe = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// Chunk is one window of document text. Offsets address the raw input so a
// chunk can always be located in (and re-derived from) the source document.
type Chunk struct {
	Text         string
	DocumentName string
	SectionLabel string // "cv.md § Experience"
	Index        int    // ordinal within the document, after dedup
	StartOffset  int
	EndOffset    int
	ContentHash  string // sha256 of the case-folded text, used for dedup
}

// Config sizes the sliding window, in approximate tokens.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

// ChunkingError reports input the chunker cannot work with.
type ChunkingError struct {
	Reason string
}

func (e *ChunkingError) Error() string {
	return "chunking: " + e.Reason
}

type section struct {
	title string
	body  string
	start int // offset of body within the raw text
}

type word struct {
	text  string
	start int // offset within the raw text
}

// Split chunks text under documentName. Each chunk is labelled with the
// nearest preceding markdown heading; text before the first heading is
// labelled "preamble" and heading-free documents "document". Chunks whose
// normalized text repeats an already-emitted chunk are dropped.
func Split(text, documentName string, cfg Config) ([]Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ChunkingError{Reason: "document is empty"}
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 400
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = cfg.ChunkSize / 4
	}

	var chunks []Chunk
	seen := make(map[string]struct{})
	index := 0

	for _, sec := range sections(text) {
		label := fmt.Sprintf("%s § %s", documentName, sec.title)
		for _, w := range windows(sec, cfg) {
			sum := sha256.Sum256([]byte(strings.ToLower(w.text)))
			hash := hex.EncodeToString(sum[:])
			if _, dup := seen[hash]; dup {
				continue
			}
			seen[hash] = struct{}{}
			chunks = append(chunks, Chunk{
				Text:         w.text,
				DocumentName: documentName,
				SectionLabel: label,
				Index:        index,
				StartOffset:  w.start,
				EndOffset:    w.end,
				ContentHash:  hash,
			})
			index++
		}
	}

	if len(chunks) == 0 {
		return nil, &ChunkingError{Reason: "document produced no chunks"}
	}
	return chunks, nil
}

// sections splits the raw text at markdown headings. The heading line itself
// belongs to no section body.
func sections(text string) []section {
	matches := headingRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []section{{title: "document", body: text, start: 0}}
	}

	var out []section
	if pre := text[:matches[0][0]]; strings.TrimSpace(pre) != "" {
		out = append(out, section{title: "preamble", body: pre, start: 0})
	}
	for i, m := range matches {
		title := strings.TrimSpace(text[m[4]:m[5]])
		bodyStart := m[1]
		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		body := text[bodyStart:bodyEnd]
		if strings.TrimSpace(body) == "" {
			continue
		}
		out = append(out, section{title: title, body: body, start: bodyStart})
	}
	return out
}

type window struct {
	text  string
	start int
	end   int
}

// windows slides a token-sized window over the section's words. The final
// short window is always emitted; overlap walks back from the window end
// until roughly ChunkOverlap tokens are repeated.
func windows(sec section, cfg Config) []window {
	words := fields(sec.body, sec.start)
	if len(words) == 0 {
		return nil
	}

	maxChars := cfg.ChunkSize * charsPerToken
	overlapChars := cfg.ChunkOverlap * charsPerToken

	var out []window
	start := 0
	for start < len(words) {
		end := start
		size := 0
		for end < len(words) && size < maxChars {
			size += len(words[end].text) + 1
			end++
		}

		parts := make([]string, 0, end-start)
		for _, w := range words[start:end] {
			parts = append(parts, w.text)
		}
		out = append(out, window{
			text:  strings.Join(parts, " "),
			start: words[start].start,
			end:   words[end-1].start + len(words[end-1].text),
		})

		if end >= len(words) {
			break
		}

		back := end
		retained := 0
		for back > start && retained < overlapChars {
			back--
			retained += len(words[back].text) + 1
		}
		if back <= start {
			back = start + 1
		}
		start = back
	}
	return out
}

// fields is strings.Fields with source offsets, shifted by base into the
// raw document's coordinate space.
func fields(s string, base int) []word {
	var out []word
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}
		j := i
		for j < len(s) && !isSpace(s[j]) {
			j++
		}
		out = append(out, word{text: s[i:j], start: base + i})
		i = j
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
