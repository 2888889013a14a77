package rope

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the minimum runes per chunk when building (except the last).
	MinChunkSize = 128

	// MaxChunkSize is the maximum runes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk represents a bounded run of text stored in leaf nodes.
// Chunks are immutable once created; the rune slice is never written.
type Chunk struct {
	data    []rune
	summary TextSummary
}

// NewChunk creates a chunk from runes. The slice is owned by the chunk.
func NewChunk(text []rune) Chunk {
	return Chunk{
		data:    text,
		summary: ComputeSummary(text),
	}
}

// String returns the chunk's text.
func (c Chunk) String() string {
	return string(c.data)
}

// Len returns the rune length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// IsEmpty returns true if the chunk contains no text.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Split splits a chunk at a rune offset, returning two chunks.
// The halves share the immutable backing array.
func (c Chunk) Split(offset int) (Chunk, Chunk) {
	if offset <= 0 {
		return Chunk{}, c
	}
	if offset >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset:offset]), NewChunk(c.data[offset:])
}

// Append concatenates another chunk to this one. The result is a single
// chunk when it fits in MaxChunkSize.
func (c Chunk) Append(other Chunk) []Chunk {
	if c.IsEmpty() {
		if other.IsEmpty() {
			return nil
		}
		return []Chunk{other}
	}
	if other.IsEmpty() {
		return []Chunk{c}
	}

	combined := make([]rune, 0, len(c.data)+len(other.data))
	combined = append(combined, c.data...)
	combined = append(combined, other.data...)
	return splitIntoChunks(combined)
}

// splitIntoChunks splits text into chunks of appropriate size.
func splitIntoChunks(text []rune) []Chunk {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= MaxChunkSize {
		return []Chunk{NewChunk(text)}
	}

	var chunks []Chunk
	remaining := text
	for len(remaining) > 0 {
		if len(remaining) <= MaxChunkSize {
			chunks = append(chunks, NewChunk(remaining))
			break
		}
		split := findSplitPoint(remaining, TargetChunkSize)
		chunks = append(chunks, NewChunk(remaining[:split:split]))
		remaining = remaining[split:]
	}
	return chunks
}

// findSplitPoint picks a split near target, preferring just after a newline.
func findSplitPoint(text []rune, target int) int {
	if target >= len(text) {
		return len(text)
	}
	if target <= 0 {
		return 0
	}

	searchStart := max(target-MinChunkSize/4, 1)
	searchEnd := min(target+MinChunkSize/4, len(text))

	for i := target; i < searchEnd; i++ {
		if text[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if text[i] == '\n' {
			return i + 1
		}
	}
	return target
}
