package rope

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	return FromRunes([]rune(s))
}

// FromRunes creates a rope from runes. The slice is owned by the rope.
func FromRunes(text []rune) Rope {
	if len(text) == 0 {
		return New()
	}
	chunks := splitIntoChunks(text)

	leaves := make([]*Node, 0, len(chunks)/MaxChunksPerLeaf+1)
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		group := make([]Chunk, end-i)
		copy(group, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(group))
	}
	return Rope{root: buildNodeFromChildren(leaves)}
}

// Len returns the total rune length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	return r.Slice(0, r.Len())
}

// Runes returns the runes in [start, end).
func (r Rope) Runes(start, end int) []rune {
	if r.root == nil {
		return nil
	}
	start = max(start, 0)
	end = min(end, r.Len())
	if start >= end {
		return nil
	}
	return r.root.appendRange(make([]rune, 0, end-start), start, end)
}

// Slice returns the text in the rune range [start, end).
func (r Rope) Slice(start, end int) string {
	return string(r.Runes(start, end))
}

// Insert inserts text at the given rune offset.
// Returns a new rope; original is unchanged.
func (r Rope) Insert(offset int, text string) Rope {
	if text == "" {
		return r
	}
	ins := FromString(text)
	if r.IsEmpty() {
		return ins
	}
	if offset <= 0 {
		return ins.Concat(r)
	}
	if offset >= r.Len() {
		return r.Concat(ins)
	}
	left, right := r.Split(offset)
	return left.Concat(ins).Concat(right)
}

// Delete removes text in the rune range [start, end).
// Returns a new rope; original is unchanged.
func (r Rope) Delete(start, end int) Rope {
	start = max(start, 0)
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return r
	}
	if start == 0 && end == r.Len() {
		return New()
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Split splits the rope at offset, returning two ropes.
// Left contains [0, offset), right contains [offset, end).
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}
	left, right := r.root.split(offset)
	return Rope{root: left}, Rope{root: right}
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// LineStart returns the rune offset of the start of a line.
// Lines past the end map to Len().
func (r Rope) LineStart(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.root.offsetAfterNewline(line)
}

// LineEnd returns the rune offset of the end of a line, before its newline.
func (r Rope) LineEnd(line int) int {
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	return r.LineStart(line+1) - 1
}

// LineText returns the text of a line without its newline.
func (r Rope) LineText(line int) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// OffsetToPoint converts a rune offset to a line/column position.
// Offsets are clamped to [0, Len()].
func (r Rope) OffsetToPoint(offset int) Point {
	if r.root == nil || offset <= 0 {
		return Point{}
	}
	offset = min(offset, r.Len())
	line := r.root.newlinesBefore(offset)
	return Point{Line: line, Column: offset - r.LineStart(line)}
}

// Height returns the height of the rope tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}

// Equals returns true if two ropes contain the same text.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	return r.String() == other.String()
}
