package exporters

import (
	"github.com/mrlokans/highlights-vault/internal/entities"
	"github.com/mrlokans/highlights-vault/internal/templating"
)

// DocumentWriter persists rendered documents. Implementations must replace
// any existing document at the same path.
type DocumentWriter interface {
	WriteDocument(doc entities.Document) error
}

// Layout holds the path templates, front matter properties and rendering
// switches used by every pass.
type Layout struct {
	BookPath        string
	ChapterPath     string
	HighlightsPath  string
	MindMapPath     string
	GenerateMindMap bool
	UsingHeadings   bool
	Properties      PropertySet

	// LinkTarget maps a resolved path or chapter title to the target used
	// inside [[...]] links. Nil leaves targets unchanged.
	LinkTarget func(path string) string
}

type PropertySet struct {
	Book      templating.Properties
	Chapter   templating.Properties
	Highlight templating.Properties
	MindMap   templating.Properties
}

type ExportResult struct {
	BookTitle           string              `json:"book_title"`
	DocumentsWritten    int                 `json:"documents_written"`
	ChaptersProcessed   int                 `json:"chapters_processed"`
	HighlightsProcessed int                 `json:"highlights_processed"`
	HighlightsSkipped   int                 `json:"highlights_skipped"`
	MindMapWritten      bool                `json:"mind_map_written"`
	Documents           []entities.Document `json:"documents"`
}
