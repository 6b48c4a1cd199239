package parsers

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mrlokans/highlights-vault/internal/apperr"
	"github.com/mrlokans/highlights-vault/internal/entities"
)

// HeadingMarker is the character whose repetition encodes chapter depth.
const HeadingMarker = "#"

var headingPattern = regexp.MustCompile(`^#+\s`)

// OutlineParser turns a heading-annotated highlights export into a node tree.
//
// The first line is the book title. Lines starting with one or more '#'
// followed by whitespace open chapters whose depth is the number of '#' in the
// line. Every other non-blank line is highlight text; consecutive text lines
// form one highlight and a blank line ends it.
type OutlineParser struct{}

func NewOutlineParser() *OutlineParser {
	return &OutlineParser{}
}

// cursor is the scan position shared by every recursive parseScope call.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.lines)
}

func (c *cursor) current() string {
	return c.lines[c.pos]
}

func (c *cursor) advance() {
	c.pos++
}

// Parse builds the book tree from lines. It fails only when lines is empty.
func (parser *OutlineParser) Parse(lines []string) (*entities.Node, error) {
	if len(lines) == 0 {
		return nil, apperr.ErrEmptyOutline
	}
	c := &cursor{lines: lines}
	return parser.parseScope(c, 0), nil
}

// ParseFile reads the outline at path and parses it.
func (parser *OutlineParser) ParseFile(path string) (*entities.Node, error) {
	lines, err := LoadLines(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(lines)
}

// parseScope consumes lines until it meets a heading at or above layer, which
// it leaves unconsumed for the caller.
func (parser *OutlineParser) parseScope(c *cursor, layer int) *entities.Node {
	var node *entities.Node
	var pending []string

	flush := func() {
		if len(pending) > 0 && node != nil {
			node.Children = append(node.Children,
				entities.NewNode(entities.NodeKindHighlight, strings.Join(pending, "\n")))
		}
		pending = nil
	}

	for !c.done() {
		line := c.current()
		heading := IsHeading(line)

		if node == nil && (c.pos == 0 || heading) {
			kind := entities.NodeKindChapter
			if c.pos == 0 {
				kind = entities.NodeKindBook
			}
			node = entities.NewNode(kind, HeadingTitle(line))
			c.advance()
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush()
			c.advance()
			continue
		}

		if heading {
			flush()
			depth := HeadingDepth(line)
			if depth <= layer {
				return node
			}
			node.Children = append(node.Children, parser.parseScope(c, depth))
			continue
		}

		pending = append(pending, line)
		c.advance()
	}

	flush()
	return node
}

// IsHeading reports whether line opens a chapter.
func IsHeading(line string) bool {
	return headingPattern.MatchString(line)
}

// HeadingDepth counts every marker in line, not only the leading run.
func HeadingDepth(line string) int {
	return strings.Count(line, HeadingMarker)
}

// HeadingTitle strips all markers and surrounding whitespace from line.
func HeadingTitle(line string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, HeadingMarker, ""))
}

// LoadLines reads path and splits it into lines, dropping carriage returns
// left by Windows line endings.
func LoadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.NewIOError("read", path, err)
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits content on newlines. Empty content yields no lines.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// DescribeTree renders a one-line-per-node summary, used for verbose output.
func DescribeTree(root *entities.Node) string {
	var builder strings.Builder
	root.Walk(func(node *entities.Node, depth int) {
		text := strings.ReplaceAll(node.Text, "\n", " ")
		fmt.Fprintf(&builder, "%s%s: %s\n", strings.Repeat("  ", depth), node.Kind, text)
	})
	return builder.String()
}
