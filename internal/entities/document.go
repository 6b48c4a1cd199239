package entities

type DocumentKind string

const (
	DocumentKindBook      DocumentKind = "book"
	DocumentKindChapter   DocumentKind = "chapter"
	DocumentKindHighlight DocumentKind = "highlight"
	DocumentKindMindMap   DocumentKind = "mind_map"
)

// Document is a rendered note ready to be written into the vault.
// Path is the resolved path template, relative to the vault root and
// without the file extension.
type Document struct {
	Kind    DocumentKind `json:"kind"`
	Path    string       `json:"path"`
	Content string       `json:"-"`
}
