package exporters

import (
	"fmt"
	"strings"

	"github.com/mrlokans/highlights-vault/internal/apperr"
	"github.com/mrlokans/highlights-vault/internal/entities"
	"github.com/mrlokans/highlights-vault/internal/templating"
)

// VaultRenderer turns a parsed book tree into vault documents. Each pass
// keeps its own numbering state; the tree is never modified.
type VaultRenderer struct {
	layout Layout
	engine *templating.Engine
}

func NewVaultRenderer(layout Layout, engine *templating.Engine) *VaultRenderer {
	return &VaultRenderer{layout: layout, engine: engine}
}

// RenderBookIndex renders the book note linking every top-level chapter.
func (r *VaultRenderer) RenderBookIndex(root *entities.Node) (entities.Document, error) {
	path, err := r.engine.Resolve(r.layout.BookPath, templating.Context{})
	if err != nil {
		return entities.Document{}, fmt.Errorf("book path: %w", err)
	}
	frontMatter, err := r.engine.RenderFrontMatter(r.layout.Properties.Book, templating.Context{})
	if err != nil {
		return entities.Document{}, fmt.Errorf("book properties: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(frontMatter)
	builder.WriteString("\n# Chapters\n\n")
	for _, chapter := range root.Chapters() {
		fmt.Fprintf(&builder, "- [[%s]]\n", r.linkTarget(chapter.Text))
	}

	return entities.Document{
		Kind:    entities.DocumentKindBook,
		Path:    path,
		Content: builder.String(),
	}, nil
}

// numberedHighlight is a highlight leaf with the number it received during
// the chapter pass.
type numberedHighlight struct {
	text   string
	number int
}

// chapterPass numbers highlights per top-level chapter. A counter is shared
// by the whole subtree of its chapter, so sub-chapters continue the parent's
// sequence.
type chapterPass struct {
	renderer   *VaultRenderer
	counters   map[string]int
	chapter    string
	lines      []string
	highlights []numberedHighlight
}

// RenderChapters renders every top-level chapter of root, handing each
// chapter's highlight documents to emit before the chapter document itself.
// Rendering stops at the first error from the templates or from emit.
func (r *VaultRenderer) RenderChapters(root *entities.Node, emit func(entities.Document) error) error {
	pass := &chapterPass{renderer: r, counters: make(map[string]int)}

	for _, chapter := range root.Chapters() {
		pass.counters[chapter.Text] = 1
		pass.chapter = chapter.Text
		pass.lines = nil
		pass.highlights = nil

		if err := pass.renderBody(chapter, 1); err != nil {
			return fmt.Errorf("chapter %q: %w", chapter.Text, err)
		}

		for _, h := range pass.highlights {
			doc, err := r.renderHighlight(chapter.Text, h)
			if err != nil {
				return fmt.Errorf("chapter %q highlight %d: %w", chapter.Text, h.number, err)
			}
			if err := emit(doc); err != nil {
				return err
			}
		}

		doc, err := r.renderChapter(chapter.Text, pass.lines)
		if err != nil {
			return fmt.Errorf("chapter %q: %w", chapter.Text, err)
		}
		if err := emit(doc); err != nil {
			return err
		}
	}

	return nil
}

func (p *chapterPass) renderBody(node *entities.Node, level int) error {
	r := p.renderer
	for _, child := range node.Children {
		if child.IsHighlight() {
			number := p.counters[p.chapter]
			p.counters[p.chapter]++

			link, err := r.highlightLink(templating.Context{
				ChapterName:     p.chapter,
				HighlightText:   child.Text,
				HighlightNumber: number,
			})
			if err != nil {
				return err
			}
			p.lines = append(p.lines, r.listIndent(level)+link)
			p.highlights = append(p.highlights, numberedHighlight{text: child.Text, number: number})
			continue
		}

		p.lines = r.appendSection(p.lines, child.Text, level)
		if err := p.renderBody(child, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *VaultRenderer) renderChapter(chapterName string, lines []string) (entities.Document, error) {
	ctx := templating.Context{ChapterName: chapterName}
	path, err := r.engine.Resolve(r.layout.ChapterPath, ctx)
	if err != nil {
		return entities.Document{}, fmt.Errorf("chapter path: %w", err)
	}
	frontMatter, err := r.engine.RenderFrontMatter(r.layout.Properties.Chapter, ctx)
	if err != nil {
		return entities.Document{}, fmt.Errorf("chapter properties: %w", err)
	}

	return entities.Document{
		Kind:    entities.DocumentKindChapter,
		Path:    path,
		Content: frontMatter + "\n" + joinLines(lines),
	}, nil
}

func (r *VaultRenderer) renderHighlight(chapterName string, h numberedHighlight) (entities.Document, error) {
	ctx := templating.Context{
		ChapterName:     chapterName,
		HighlightText:   h.text,
		HighlightNumber: h.number,
	}
	path, err := r.engine.Resolve(r.layout.HighlightsPath, ctx)
	if err != nil {
		return entities.Document{}, fmt.Errorf("highlight path: %w", err)
	}
	frontMatter, err := r.engine.RenderFrontMatter(r.layout.Properties.Highlight, ctx)
	if err != nil {
		return entities.Document{}, fmt.Errorf("highlight properties: %w", err)
	}

	return entities.Document{
		Kind:    entities.DocumentKindHighlight,
		Path:    path,
		Content: frontMatter + "\n" + h.text + "\n",
	}, nil
}

// mindMapPass numbers highlights by the title of their immediate parent.
// The counter for a title starts at 1 the first time the title is met and is
// never reset, so equally named chapters share one sequence.
type mindMapPass struct {
	renderer *VaultRenderer
	counters map[string]int
	lines    []string
}

// RenderMindMap renders the whole tree into one document. It fails with a
// ConfigurationError when no mind map path is configured.
func (r *VaultRenderer) RenderMindMap(root *entities.Node) (entities.Document, error) {
	if r.layout.MindMapPath == "" {
		return entities.Document{}, apperr.NewConfigurationError("mindMapPath is required when generatedMindMap is enabled", nil)
	}

	path, err := r.engine.Resolve(r.layout.MindMapPath, templating.Context{})
	if err != nil {
		return entities.Document{}, fmt.Errorf("mind map path: %w", err)
	}
	frontMatter, err := r.engine.RenderFrontMatter(r.layout.Properties.MindMap, templating.Context{})
	if err != nil {
		return entities.Document{}, fmt.Errorf("mind map properties: %w", err)
	}

	pass := &mindMapPass{renderer: r, counters: make(map[string]int)}
	for _, chapter := range root.Chapters() {
		pass.lines = r.appendSection(pass.lines, chapter.Text, 1)
		if err := pass.render(chapter, 2, chapter.Text); err != nil {
			return entities.Document{}, fmt.Errorf("mind map: %w", err)
		}
	}

	return entities.Document{
		Kind:    entities.DocumentKindMindMap,
		Path:    path,
		Content: frontMatter + "\n" + joinLines(pass.lines),
	}, nil
}

func (p *mindMapPass) render(node *entities.Node, level int, topChapter string) error {
	r := p.renderer
	for _, child := range node.Children {
		if child.IsHighlight() {
			if _, seen := p.counters[node.Text]; !seen {
				p.counters[node.Text] = 1
			}
			number := p.counters[node.Text]
			p.counters[node.Text]++

			link, err := r.highlightLink(templating.Context{
				ChapterName:     topChapter,
				HighlightText:   child.Text,
				HighlightNumber: number,
			})
			if err != nil {
				return err
			}
			p.lines = append(p.lines, r.listIndent(level)+link)
			continue
		}

		p.lines = r.appendSection(p.lines, child.Text, level)
		if err := p.render(child, level+1, topChapter); err != nil {
			return err
		}
	}
	return nil
}

// highlightLink renders "- [[<highlight path>|<single line text>]]".
func (r *VaultRenderer) highlightLink(ctx templating.Context) (string, error) {
	target, err := r.engine.Resolve(r.layout.HighlightsPath, ctx)
	if err != nil {
		return "", fmt.Errorf("highlight path: %w", err)
	}
	return fmt.Sprintf("- [[%s|%s]]", r.linkTarget(target), templating.SingleLine(ctx.HighlightText)), nil
}

func (r *VaultRenderer) linkTarget(path string) string {
	if r.layout.LinkTarget == nil {
		return path
	}
	return r.layout.LinkTarget(path)
}

// appendSection adds a chapter title at level, as a heading in headings
// mode and as an indented bullet otherwise.
func (r *VaultRenderer) appendSection(lines []string, title string, level int) []string {
	if !r.layout.UsingHeadings {
		return append(lines, r.listIndent(level)+"- "+title)
	}
	if len(lines) > 0 && lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return append(lines, strings.Repeat("#", level)+" "+title, "")
}

func (r *VaultRenderer) listIndent(level int) string {
	if r.layout.UsingHeadings || level < 2 {
		return ""
	}
	return strings.Repeat("  ", level-1)
}

func joinLines(lines []string) string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
