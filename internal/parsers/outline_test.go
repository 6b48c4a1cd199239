package parsers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrlokans/highlights-vault/internal/apperr"
	"github.com/mrlokans/highlights-vault/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutline = "My Book\n# Chapter One\nLine 1\nLine 2\n\nAnother highlight\n\n## Sub Chapter\nNested highlight\n# Chapter Two\nSecond highlight\n"

func node(kind entities.NodeKind, text string, children ...*entities.Node) *entities.Node {
	n := entities.NewNode(kind, text)
	n.Children = append(n.Children, children...)
	return n
}

func book(text string, children ...*entities.Node) *entities.Node {
	return node(entities.NodeKindBook, text, children...)
}

func chapter(text string, children ...*entities.Node) *entities.Node {
	return node(entities.NodeKindChapter, text, children...)
}

func highlight(text string) *entities.Node {
	return node(entities.NodeKindHighlight, text)
}

func TestOutlineParser(t *testing.T) {
	parser := NewOutlineParser()

	t.Run("parses nested chapters and highlights", func(t *testing.T) {
		root, err := parser.Parse(SplitLines(sampleOutline))
		require.NoError(t, err)

		expected := book("My Book",
			chapter("Chapter One",
				highlight("Line 1\nLine 2"),
				highlight("Another highlight"),
				chapter("Sub Chapter",
					highlight("Nested highlight"),
				),
			),
			chapter("Chapter Two",
				highlight("Second highlight"),
			),
		)
		assert.Equal(t, expected, root)
	})

	t.Run("fails on empty input", func(t *testing.T) {
		root, err := parser.Parse(nil)
		assert.Nil(t, root)
		assert.True(t, errors.Is(err, apperr.ErrEmptyOutline))
	})

	t.Run("title only", func(t *testing.T) {
		root, err := parser.Parse([]string{"Lonely Book"})
		require.NoError(t, err)
		assert.Equal(t, book("Lonely Book"), root)
	})

	t.Run("strips markers from the book title", func(t *testing.T) {
		root, err := parser.Parse([]string{"# The Title  "})
		require.NoError(t, err)
		assert.Equal(t, entities.NodeKindBook, root.Kind)
		assert.Equal(t, "The Title", root.Text)
	})

	t.Run("highlights directly under the book", func(t *testing.T) {
		root, err := parser.Parse([]string{"Book", "Preface text", "", "# One", "Inside"})
		require.NoError(t, err)
		assert.Equal(t, book("Book",
			highlight("Preface text"),
			chapter("One", highlight("Inside")),
		), root)
	})

	t.Run("text followed directly by a heading keeps document order", func(t *testing.T) {
		lines := []string{"Book", "# One", "first", "## Deep", "second", "# Two"}
		root, err := parser.Parse(lines)
		require.NoError(t, err)
		assert.Equal(t, book("Book",
			chapter("One",
				highlight("first"),
				chapter("Deep", highlight("second")),
			),
			chapter("Two"),
		), root)
	})

	t.Run("skipped levels nest under the nearest shallower chapter", func(t *testing.T) {
		lines := []string{"Book", "# A", "### C", "c text", "## B", "b text", "# D"}
		root, err := parser.Parse(lines)
		require.NoError(t, err)
		assert.Equal(t, book("Book",
			chapter("A",
				chapter("C", highlight("c text")),
				chapter("B", highlight("b text")),
			),
			chapter("D"),
		), root)
	})

	t.Run("markers anywhere in a heading count toward depth", func(t *testing.T) {
		lines := []string{"Book", "# Using C#", "inside", "# Next"}
		root, err := parser.Parse(lines)
		require.NoError(t, err)

		// "# Using C#" has depth 2 and loses every marker from its title.
		require.Len(t, root.Children, 2)
		assert.Equal(t, "Using C", root.Children[0].Text)
		assert.Equal(t, "Next", root.Children[1].Text)
	})

	t.Run("marker without trailing whitespace is plain text", func(t *testing.T) {
		lines := []string{"Book", "# One", "#hashtag in a highlight"}
		root, err := parser.Parse(lines)
		require.NoError(t, err)
		assert.Equal(t, book("Book",
			chapter("One", highlight("#hashtag in a highlight")),
		), root)
	})

	t.Run("multiple blank lines do not create empty highlights", func(t *testing.T) {
		lines := []string{"Book", "# One", "", "", "a", "", "", "b", ""}
		root, err := parser.Parse(lines)
		require.NoError(t, err)
		assert.Equal(t, book("Book",
			chapter("One", highlight("a"), highlight("b")),
		), root)
	})

	t.Run("whitespace-only lines count as blank", func(t *testing.T) {
		lines := []string{"Book", "# One", "a", "   \t", "b"}
		root, err := parser.Parse(lines)
		require.NoError(t, err)
		assert.Equal(t, book("Book",
			chapter("One", highlight("a"), highlight("b")),
		), root)
	})
}

func TestOutlineParserDepthInvariant(t *testing.T) {
	lines := []string{
		"Book",
		"# A", "a1",
		"## A.1", "a11",
		"### A.1.1", "a111",
		"## A.2", "a2",
		"# B",
		"### B.x", "bx",
		"## B.1",
	}
	root, err := NewOutlineParser().Parse(lines)
	require.NoError(t, err)

	depths := map[string]int{}
	root.Walk(func(n *entities.Node, depth int) {
		if n.IsChapter() {
			depths[n.Text] = depth
		}
	})

	assert.Equal(t, map[string]int{
		"A": 1, "A.1": 2, "A.1.1": 3, "A.2": 2,
		"B": 1, "B.x": 3, "B.1": 2,
	}, depths)
	// B.x has no depth-2 parent, so it hangs directly below B.
	assert.Equal(t, "B.x", root.Children[1].Children[0].Text)
}

func TestOutlineParserOrderPreservation(t *testing.T) {
	lines := []string{"Book", "# One", "h1", "", "## Two", "h2", "", "h3", "# Three", "h4"}
	root, err := NewOutlineParser().Parse(lines)
	require.NoError(t, err)

	var visited []string
	root.Walk(func(n *entities.Node, _ int) {
		visited = append(visited, n.Text)
	})
	assert.Equal(t, []string{"Book", "One", "h1", "Two", "h2", "h3", "Three", "h4"}, visited)
}

func TestLoadLines(t *testing.T) {
	t.Run("normalizes windows line endings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "highlights.txt")
		require.NoError(t, os.WriteFile(path, []byte("Book\r\n# One\r\ntext\r\n"), 0o644))

		lines, err := LoadLines(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Book", "# One", "text", ""}, lines)
	})

	t.Run("missing file is an io error", func(t *testing.T) {
		_, err := LoadLines(filepath.Join(t.TempDir(), "missing.txt"))
		assert.True(t, errors.Is(err, apperr.ErrIO))
	})

	t.Run("empty file fails to parse", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, err := NewOutlineParser().ParseFile(path)
		assert.True(t, errors.Is(err, apperr.ErrEmptyOutline))
	})
}

func TestDescribeTree(t *testing.T) {
	root, err := NewOutlineParser().Parse([]string{"Book", "# One", "a", "b"})
	require.NoError(t, err)

	assert.Equal(t, "book: Book\n  chapter: One\n    highlight: a b\n", DescribeTree(root))
}
