// Package assembler turns gated evidence into the numbered context string
// the generation prompt embeds, plus the citation list that mirrors it.
package assembler

import (
	"fmt"
	"strings"

	"career-assistant-be/pkg/rag"
)

// ExcerptLimit caps citation excerpts, in runes.
const ExcerptLimit = 200

// Build renders evidence as source blocks. Block N reads
// "[Source N] (label)" followed by the chunk text, blocks separated by a
// "---" divider; citation N describes the same chunk. The function is pure,
// so the citation list always agrees with the markers in the context string.
func Build(items []rag.EvidenceItem) (string, []rag.Citation) {
	blocks := make([]string, 0, len(items))
	citations := make([]rag.Citation, 0, len(items))

	for i, item := range items {
		n := i + 1
		blocks = append(blocks, fmt.Sprintf("[Source %d] (%s)\n%s", n, item.SourceLabel, item.Text))
		citations = append(citations, rag.Citation{
			Index:       n,
			ChunkID:     item.ChunkID,
			SourceLabel: item.SourceLabel,
			Excerpt:     excerpt(item.Text),
		})
	}

	return strings.Join(blocks, "\n\n---\n\n"), citations
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= ExcerptLimit {
		return text
	}
	return string(runes[:ExcerptLimit])
}
