package entities

type NodeKind string

const (
	NodeKindBook      NodeKind = "book"
	NodeKindChapter   NodeKind = "chapter"
	NodeKindHighlight NodeKind = "highlight"
)

// Node is an element of a parsed outline. The root is always a book,
// interior nodes are chapters and highlights are leaves.
type Node struct {
	Kind     NodeKind `json:"type"`
	Text     string   `json:"text"`
	Children []*Node  `json:"children"`
}

func NewNode(kind NodeKind, text string) *Node {
	return &Node{Kind: kind, Text: text, Children: make([]*Node, 0)}
}

func (n *Node) IsChapter() bool {
	return n.Kind == NodeKindChapter
}

func (n *Node) IsHighlight() bool {
	return n.Kind == NodeKindHighlight
}

// Chapters returns the direct chapter children of n in document order.
func (n *Node) Chapters() []*Node {
	chapters := make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		if child.IsChapter() {
			chapters = append(chapters, child)
		}
	}
	return chapters
}

// ChaptersOnly returns a copy of the chapter structure below n with every
// highlight dropped. maxDepth limits how many levels below the first one are
// kept; -1 keeps all of them.
func (n *Node) ChaptersOnly(maxDepth int) []*Node {
	return chaptersOnly(n, maxDepth, 0)
}

func chaptersOnly(n *Node, maxDepth, depth int) []*Node {
	result := make([]*Node, 0)
	for _, chapter := range n.Chapters() {
		chapterCopy := NewNode(chapter.Kind, chapter.Text)
		if maxDepth == -1 || depth < maxDepth {
			chapterCopy.Children = chaptersOnly(chapter, maxDepth, depth+1)
		}
		result = append(result, chapterCopy)
	}
	return result
}

// CountHighlights returns the number of highlight leaves in the subtree rooted at n.
func (n *Node) CountHighlights() int {
	if n.IsHighlight() {
		return 1
	}
	count := 0
	for _, child := range n.Children {
		count += child.CountHighlights()
	}
	return count
}

// Walk visits n and its descendants depth-first in document order.
// depth is 0 for n itself.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(node *Node, depth int)) {
	fn(n, depth)
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}
