package exporters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrlokans/highlights-vault/internal/entities"
	"github.com/mrlokans/highlights-vault/internal/templating"
)

// Generator runs the book index, chapter and mind map passes over a parsed
// book and writes every document as soon as it is rendered. Documents written
// before a failure are left in place.
type Generator struct {
	layout Layout
	writer DocumentWriter
	logger *slog.Logger
	now    func() time.Time
}

type GeneratorOption func(*Generator)

func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithClock sets the clock behind {today_date}.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(layout Layout, writer DocumentWriter, opts ...GeneratorOption) *Generator {
	g := &Generator{
		layout: layout,
		writer: writer,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Generate(ctx context.Context, root *entities.Node) (ExportResult, error) {
	result := ExportResult{BookTitle: root.Text}
	engine := templating.NewEngine(root.Text, templating.WithClock(g.now))
	renderer := NewVaultRenderer(g.layout, engine)

	write := func(doc entities.Document) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.writer.WriteDocument(doc); err != nil {
			return fmt.Errorf("failed to write %s document: %w", doc.Kind, err)
		}
		result.DocumentsWritten++
		result.Documents = append(result.Documents, entities.Document{Kind: doc.Kind, Path: doc.Path})
		if doc.Kind == entities.DocumentKindHighlight {
			result.HighlightsProcessed++
		}
		g.logger.Debug("document written", slog.String("kind", string(doc.Kind)), slog.String("path", doc.Path))
		return nil
	}

	for _, child := range root.Children {
		if child.IsHighlight() {
			result.HighlightsSkipped++
		}
	}
	if result.HighlightsSkipped > 0 {
		g.logger.Warn("highlights outside any chapter are not exported", slog.Int("count", result.HighlightsSkipped))
	}

	g.logger.Info("rendering book index", slog.String("book", root.Text))
	bookDoc, err := renderer.RenderBookIndex(root)
	if err != nil {
		return result, err
	}
	if err := write(bookDoc); err != nil {
		return result, err
	}

	chapters := root.Chapters()
	g.logger.Info("rendering chapters", slog.Int("chapters", len(chapters)))
	err = renderer.RenderChapters(root, func(doc entities.Document) error {
		if err := write(doc); err != nil {
			return err
		}
		if doc.Kind == entities.DocumentKindChapter {
			result.ChaptersProcessed++
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	if !g.layout.GenerateMindMap {
		return result, nil
	}

	g.logger.Info("rendering mind map")
	mindMapDoc, err := renderer.RenderMindMap(root)
	if err != nil {
		return result, err
	}
	if err := write(mindMapDoc); err != nil {
		return result, err
	}
	result.MindMapWritten = true

	return result, nil
}
