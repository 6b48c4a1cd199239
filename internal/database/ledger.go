package database

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/mrlokans/highlights-vault/internal/entities"
)

// DocumentWriter is a vault writer that can report the file a document
// path ends up in.
type DocumentWriter interface {
	WriteDocument(doc entities.Document) error
	DocumentPath(docPath string) string
}

// LedgerWriter records every document successfully written by the wrapped
// writer against one generation run. Paths are recorded as written on disk,
// relative to the vault root.
type LedgerWriter struct {
	next DocumentWriter
	db   *Database
	run  *entities.GenerationRun
}

func NewLedgerWriter(next DocumentWriter, db *Database, run *entities.GenerationRun) *LedgerWriter {
	return &LedgerWriter{next: next, db: db, run: run}
}

func (w *LedgerWriter) WriteDocument(doc entities.Document) error {
	if err := w.next.WriteDocument(doc); err != nil {
		return err
	}

	sum := sha256.Sum256([]byte(doc.Content))
	record := &entities.GeneratedDocument{
		GenerationRunID: w.run.ID,
		Kind:            doc.Kind,
		Path:            filepath.ToSlash(w.next.DocumentPath(doc.Path)),
		Checksum:        hex.EncodeToString(sum[:]),
		Size:            len(doc.Content),
	}
	if err := w.db.AddDocument(record); err != nil {
		return err
	}

	w.run.DocumentsCount++
	if doc.Kind == entities.DocumentKindHighlight {
		w.run.HighlightCount++
	}
	return nil
}
