package rope

// Tree structure constants
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node represents a node in the rope B+ tree.
// Leaf nodes (height == 0) contain text chunks.
// Internal nodes (height > 0) contain child node references.
type Node struct {
	height  uint8       // 0 for leaves, >0 for internal
	summary TextSummary // Aggregated metrics for entire subtree

	// Internal node fields (height > 0)
	children       []*Node       // Child nodes
	childSummaries []TextSummary // Per-child summaries for efficient seeking

	// Leaf node fields (height == 0)
	chunks []Chunk
}

// newLeafNode creates an empty leaf node.
func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

// newLeafNodeWithChunks creates a leaf node with the given chunks.
func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

// newInternalNode creates an internal node with the given children.
func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	var height uint8
	summaries := make([]TextSummary, len(children))
	var total TextSummary
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
		height = max(height, child.height)
	}

	return &Node{
		height:         height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the rune length of text in this subtree.
func (n *Node) Len() int {
	return n.summary.Runes
}

// appendRange appends the runes in [start, end) of this subtree to dst.
func (n *Node) appendRange(dst []rune, start, end int) []rune {
	if start >= end {
		return dst
	}

	if n.IsLeaf() {
		offset := 0
		for _, chunk := range n.chunks {
			chunkEnd := offset + chunk.Len()
			if chunkEnd > start && offset < end {
				from := max(start-offset, 0)
				to := min(end-offset, chunk.Len())
				dst = append(dst, chunk.data[from:to]...)
			}
			if chunkEnd >= end {
				break
			}
			offset = chunkEnd
		}
		return dst
	}

	offset := 0
	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Runes
		if childEnd > start && offset < end {
			dst = child.appendRange(dst, max(start-offset, 0), min(end-offset, n.childSummaries[i].Runes))
		}
		if childEnd >= end {
			break
		}
		offset = childEnd
	}
	return dst
}

// split splits the node at the given rune offset.
// Returns two nodes: left contains [0, offset), right contains [offset, end).
func (n *Node) split(offset int) (*Node, *Node) {
	if offset <= 0 {
		return newLeafNode(), n
	}
	if offset >= n.Len() {
		return n, newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

// splitLeaf splits a leaf node at the given offset.
func (n *Node) splitLeaf(offset int) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	current := 0

	for _, chunk := range n.chunks {
		chunkLen := chunk.Len()
		switch {
		case current+chunkLen <= offset:
			leftChunks = append(leftChunks, chunk)
		case current >= offset:
			rightChunks = append(rightChunks, chunk)
		default:
			left, right := chunk.Split(offset - current)
			if !left.IsEmpty() {
				leftChunks = append(leftChunks, left)
			}
			if !right.IsEmpty() {
				rightChunks = append(rightChunks, right)
			}
		}
		current += chunkLen
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

// splitInternal splits an internal node at the given offset.
func (n *Node) splitInternal(offset int) (*Node, *Node) {
	var leftChildren, rightChildren []*Node
	current := 0

	for i, child := range n.children {
		childLen := n.childSummaries[i].Runes
		switch {
		case current+childLen <= offset:
			leftChildren = append(leftChildren, child)
		case current >= offset:
			rightChildren = append(rightChildren, child)
		default:
			leftChild, rightChild := child.split(offset - current)
			if leftChild.Len() > 0 {
				leftChildren = append(leftChildren, leftChild)
			}
			if rightChild.Len() > 0 {
				rightChildren = append(rightChildren, rightChild)
			}
		}
		current += childLen
	}

	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// buildNodeFromChildren creates a tree from a list of child nodes.
func buildNodeFromChildren(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= MaxChildren {
		return newInternalNode(children)
	}

	var parents []*Node
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		group := make([]*Node, end-i)
		copy(group, children[i:end])
		parents = append(parents, newInternalNode(group))
	}
	return buildNodeFromChildren(parents)
}

// concat concatenates two nodes.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	if left.IsLeaf() && right.IsLeaf() {
		return concatLeaves(left, right)
	}

	// Bring to same height by wrapping the shorter one.
	for left.height < right.height {
		left = newInternalNode([]*Node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*Node{right})
	}
	return mergeNodes(left, right)
}

// concatLeaves concatenates two leaf nodes, coalescing the boundary chunks
// so that repeated single-rune inserts do not fragment the tree.
func concatLeaves(left, right *Node) *Node {
	chunks := make([]Chunk, 0, len(left.chunks)+len(right.chunks))
	chunks = append(chunks, left.chunks...)

	rest := right.chunks
	if len(chunks) > 0 && len(rest) > 0 {
		last := chunks[len(chunks)-1]
		if last.Len()+rest[0].Len() <= MaxChunkSize {
			chunks = append(chunks[:len(chunks)-1], last.Append(rest[0])...)
			rest = rest[1:]
		}
	}
	chunks = append(chunks, rest...)

	if len(chunks) <= MaxChunksPerLeaf {
		return newLeafNodeWithChunks(chunks)
	}

	var leaves []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		group := make([]Chunk, end-i)
		copy(group, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(group))
	}
	return buildNodeFromChildren(leaves)
}

// mergeNodes merges two nodes of the same height. The children meeting at
// the seam are concatenated recursively so their boundary chunks coalesce.
func mergeNodes(left, right *Node) *Node {
	if left.IsLeaf() {
		return concatLeaves(left, right)
	}

	lastLeft := left.children[len(left.children)-1]
	firstRight := right.children[0]
	seam := concat(lastLeft, firstRight)

	all := make([]*Node, 0, len(left.children)+len(right.children)+1)
	all = append(all, left.children[:len(left.children)-1]...)
	if seam.height > max(lastLeft.height, firstRight.height) {
		all = append(all, seam.children...)
	} else {
		all = append(all, seam)
	}
	all = append(all, right.children[1:]...)
	return buildNodeFromChildren(all)
}

// offsetAfterNewline returns the offset just past the k-th newline
// (1-indexed) in this subtree. k must be in [1, summary.Lines].
func (n *Node) offsetAfterNewline(k int) int {
	offset := 0
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			if chunk.summary.Lines >= k {
				return offset + offsetAfterNewline(chunk.data, k)
			}
			k -= chunk.summary.Lines
			offset += chunk.Len()
		}
		return offset
	}

	for i, s := range n.childSummaries {
		if s.Lines >= k {
			return offset + n.children[i].offsetAfterNewline(k)
		}
		k -= s.Lines
		offset += s.Runes
	}
	return offset
}

// newlinesBefore counts newlines in [0, offset) of this subtree.
func (n *Node) newlinesBefore(offset int) int {
	count := 0
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			if offset >= chunk.Len() {
				count += chunk.summary.Lines
				offset -= chunk.Len()
				continue
			}
			return count + countNewlines(chunk.data[:offset])
		}
		return count
	}

	for i, s := range n.childSummaries {
		if offset >= s.Runes {
			count += s.Lines
			offset -= s.Runes
			continue
		}
		return count + n.children[i].newlinesBefore(offset)
	}
	return count
}
