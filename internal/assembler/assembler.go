package assembler

import (
	"fmt"
	"strings"

	"ragkb/internal/domain"
)

// MaxSnippetLen caps the chunk text quoted in each context line, in runes.
const MaxSnippetLen = 800

// Build formats ranked chunks into the bounded context string handed to
// the chat model, one line per chunk. An empty input yields an empty
// string, which callers treat as "no context available", not as an error.
func Build(scored []domain.ScoredChunk) string {
	if len(scored) == 0 {
		return ""
	}
	lines := make([]string, 0, len(scored))
	for _, sc := range scored {
		snippet := sc.Chunk.ChunkText
		if runes := []rune(snippet); len(runes) > MaxSnippetLen {
			snippet = string(runes[:MaxSnippetLen]) + "..."
		}
		lines = append(lines, fmt.Sprintf("- Archivo: %s (fragmento %d): %s",
			sc.Chunk.FileName, sc.Chunk.ChunkIndex, snippet))
	}
	return strings.Join(lines, "\n")
}
