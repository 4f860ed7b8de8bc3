package chunker

import "strings"

// Defaults match the ingestion pipeline's window arithmetic; consecutive
// windows share DefaultOverlap runes so context survives a split boundary.
const (
	DefaultWindowSize = 800
	DefaultOverlap    = 120
)

// WindowChunker splits text into fixed-size overlapping windows measured in
// runes, so multi-byte text never splits mid-character.
type WindowChunker struct {
	windowSize int
	overlap    int
}

func NewWindowChunker(windowSize, overlap int) *WindowChunker {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &WindowChunker{windowSize: windowSize, overlap: overlap}
}

// Split cuts text into trimmed windows of up to windowSize runes. Windows
// that trim down to nothing are dropped, so the caller numbers the retained
// windows densely from zero. The final window may be shorter than
// windowSize; every other pair of consecutive windows overlaps by overlap
// runes.
func (c *WindowChunker) Split(text string) []string {
	runes := []rune(text)
	var out []string
	i := 0
	for i < len(runes) {
		end := i + c.windowSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[i:end]))
		if piece != "" {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
		next := end - c.overlap
		if next <= i {
			// overlap >= windowSize would stall the cursor
			next = end
		}
		i = next
	}
	return out
}
