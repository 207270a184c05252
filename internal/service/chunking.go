package service

// Chunking parameters for knowledge embeddings. Chunk boundaries do not
// track record boundaries, so a chunk may straddle two FAQ entries.
const (
	ChunkSize    = 1000
	ChunkOverlap = 150
)

// splitText splits text into fixed-size overlapping chunks. The split is
// rune-based and deterministic: the same input always yields the same
// chunk count and boundaries.
func splitText(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks
}
