package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/highlights-vault/internal/entities"
)

// Report summarises one generation run.
type Report struct {
	RunID               string              `json:"run_id"`
	BookTitle           string              `json:"book_title"`
	SourceFile          string              `json:"source_file"`
	VaultPath           string              `json:"vault_path"`
	StartedAt           time.Time           `json:"started_at"`
	FinishedAt          time.Time           `json:"finished_at"`
	ChaptersProcessed   int                 `json:"chapters_processed"`
	HighlightsProcessed int                 `json:"highlights_processed"`
	HighlightsSkipped   int                 `json:"highlights_skipped"`
	MindMapWritten      bool                `json:"mind_map_written"`
	Documents           []entities.Document `json:"documents"`
	Error               string              `json:"error,omitempty"`
}

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveReport writes report as <run_id>.json, generating a run id when
// the report has none.
func (a *Auditor) SaveReport(report *Report) (string, error) {
	if report.RunID == "" {
		report.RunID = uuid.NewString()
	}
	return a.save(report.RunID, report)
}

func (a *Auditor) save(id string, data any) (string, error) {
	if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}

	filename := id + ".json"

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(filepath.Join(a.AuditDir, filename), jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}
