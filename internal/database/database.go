package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/highlights-vault/internal/entities"
)

var ErrRunNotFound = errors.New("generation run not found")

// Database stores the generation ledger: one row per run and one per
// document written during that run.
type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.GenerationRun{},
		&entities.GeneratedDocument{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartRun inserts run with the running status.
func (d *Database) StartRun(run *entities.GenerationRun) error {
	run.Status = entities.GenerationStatusRunning
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if err := d.DB.Create(run).Error; err != nil {
		return fmt.Errorf("failed to start generation run: %w", err)
	}
	return nil
}

func (d *Database) AddDocument(doc *entities.GeneratedDocument) error {
	if err := d.DB.Create(doc).Error; err != nil {
		return fmt.Errorf("failed to record document %s: %w", doc.Path, err)
	}
	return nil
}

// FinishRun stores the outcome of run. A non-nil runErr marks it failed.
func (d *Database) FinishRun(run *entities.GenerationRun, runErr error) error {
	finishedAt := time.Now()
	run.FinishedAt = &finishedAt
	run.Status = entities.GenerationStatusCompleted
	if runErr != nil {
		run.Status = entities.GenerationStatusFailed
		run.Error = runErr.Error()
	}

	err := d.DB.Model(run).Select("BookTitle", "Status", "Error", "FinishedAt", "DocumentsCount", "HighlightCount").Updates(run).Error
	if err != nil {
		return fmt.Errorf("failed to finish generation run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first, without documents.
func (d *Database) RecentRuns(limit int) ([]entities.GenerationRun, error) {
	var runs []entities.GenerationRun
	err := d.DB.Order("started_at DESC").Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// GetRun returns the run with its documents in write order.
func (d *Database) GetRun(runID string) (*entities.GenerationRun, error) {
	var run entities.GenerationRun
	err := d.DB.Preload("Documents", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("run_id = ?", runID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
