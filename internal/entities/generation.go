package entities

import "time"

type GenerationStatus string

const (
	GenerationStatusRunning   GenerationStatus = "running"
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GenerationRun records one full rebuild of the vault.
type GenerationRun struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	RunID          string              `gorm:"uniqueIndex;size:36" json:"run_id"`
	BookTitle      string              `gorm:"index;size:512" json:"book_title"`
	SourceFile     string              `gorm:"size:1024" json:"source_file"`
	VaultPath      string              `gorm:"size:1024" json:"vault_path"`
	Status         GenerationStatus    `gorm:"size:20;default:'running'" json:"status"`
	DocumentsCount int                 `json:"documents_count"`
	HighlightCount int                 `json:"highlight_count"`
	Error          string              `gorm:"type:text" json:"error,omitempty"`
	StartedAt      time.Time           `json:"started_at"`
	FinishedAt     *time.Time          `json:"finished_at,omitempty"`
	Documents      []GeneratedDocument `gorm:"foreignKey:GenerationRunID" json:"documents,omitempty"`
}

// GeneratedDocument is a single file written during a GenerationRun.
type GeneratedDocument struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	GenerationRunID uint         `gorm:"index" json:"generation_run_id"`
	Kind            DocumentKind `gorm:"size:20" json:"kind"`
	Path            string       `gorm:"size:1024" json:"path"`
	Checksum        string       `gorm:"size:64" json:"checksum"`
	Size            int          `json:"size"`
	CreatedAt       time.Time    `json:"created_at"`
}

func (GenerationRun) TableName() string {
	return "generation_runs"
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}
