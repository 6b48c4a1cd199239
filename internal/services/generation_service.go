package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/highlights-vault/internal/audit"
	"github.com/mrlokans/highlights-vault/internal/config"
	"github.com/mrlokans/highlights-vault/internal/database"
	"github.com/mrlokans/highlights-vault/internal/entities"
	"github.com/mrlokans/highlights-vault/internal/exporters"
	"github.com/mrlokans/highlights-vault/internal/parsers"
	"github.com/mrlokans/highlights-vault/internal/storage"
)

// GenerationSummary describes one completed or failed rebuild.
type GenerationSummary struct {
	RunID      string
	Result     exporters.ExportResult
	ReportFile string
	Duration   time.Duration
}

// GenerationService performs a full vault rebuild from the configured
// outline file. Every call regenerates every document.
type GenerationService struct {
	cfg    *config.Config
	parser OutlineParser
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*GenerationService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *GenerationService) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *GenerationService) {
		s.now = now
	}
}

func WithParser(parser OutlineParser) Option {
	return func(s *GenerationService) {
		s.parser = parser
	}
}

func NewGenerationService(cfg *config.Config, opts ...Option) *GenerationService {
	s := &GenerationService{
		cfg:    cfg,
		parser: parsers.NewOutlineParser(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GenerationService) Generate(ctx context.Context) (*GenerationSummary, error) {
	started := s.now()
	summary := &GenerationSummary{RunID: uuid.NewString()}
	logger := s.logger.With(slog.String("run_id", summary.RunID))

	vault, err := storage.NewVault(s.cfg.Vault.Path, storage.WithSanitizedNames(s.cfg.Vault.SanitizeFileNames))
	if err != nil {
		return summary, err
	}

	var writer exporters.DocumentWriter = vault
	var ledger *database.Database
	var run *entities.GenerationRun
	if s.cfg.Ledger.DatabasePath != "" {
		ledger, err = database.NewDatabase(s.cfg.Ledger.DatabasePath)
		if err != nil {
			return summary, err
		}
		defer ledger.Close()

		run = &entities.GenerationRun{
			RunID:      summary.RunID,
			SourceFile: s.cfg.Input.FileName,
			VaultPath:  vault.Root(),
			StartedAt:  started,
		}
		if err := ledger.StartRun(run); err != nil {
			return summary, err
		}
		writer = database.NewLedgerWriter(vault, ledger, run)
	}

	summary.Result, err = s.generate(ctx, vault, writer, logger)
	summary.Duration = s.now().Sub(started)

	if run != nil {
		run.BookTitle = summary.Result.BookTitle
		if finishErr := ledger.FinishRun(run, err); finishErr != nil {
			logger.Error("failed to record generation run", slog.Any("error", finishErr))
		}
	}

	if s.cfg.Audit.Dir != "" {
		report := &audit.Report{
			RunID:               summary.RunID,
			BookTitle:           summary.Result.BookTitle,
			SourceFile:          s.cfg.Input.FileName,
			VaultPath:           vault.Root(),
			StartedAt:           started,
			FinishedAt:          started.Add(summary.Duration),
			ChaptersProcessed:   summary.Result.ChaptersProcessed,
			HighlightsProcessed: summary.Result.HighlightsProcessed,
			HighlightsSkipped:   summary.Result.HighlightsSkipped,
			MindMapWritten:      summary.Result.MindMapWritten,
			Documents:           summary.Result.Documents,
		}
		if err != nil {
			report.Error = err.Error()
		}
		filename, saveErr := audit.NewAuditor(s.cfg.Audit.Dir).SaveReport(report)
		if saveErr != nil {
			logger.Error("failed to save run report", slog.Any("error", saveErr))
		}
		summary.ReportFile = filename
	}

	if err != nil {
		return summary, err
	}

	logger.Info("vault generated",
		slog.String("book", summary.Result.BookTitle),
		slog.Int("documents", summary.Result.DocumentsWritten),
		slog.Int("chapters", summary.Result.ChaptersProcessed),
		slog.Int("highlights", summary.Result.HighlightsProcessed),
		slog.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (s *GenerationService) generate(ctx context.Context, vault *storage.Vault, writer exporters.DocumentWriter, logger *slog.Logger) (exporters.ExportResult, error) {
	root, err := s.parser.ParseFile(s.cfg.Input.FileName)
	if err != nil {
		return exporters.ExportResult{}, fmt.Errorf("failed to parse %s: %w", s.cfg.Input.FileName, err)
	}
	logger.Debug("outline parsed",
		slog.String("book", root.Text),
		slog.Int("highlights", root.CountHighlights()),
	)

	layout := s.cfg.ExportLayout()
	layout.LinkTarget = vault.LinkTarget

	generator := exporters.NewGenerator(layout, writer,
		exporters.WithLogger(logger),
		exporters.WithClock(s.now),
	)
	return generator.Generate(ctx, root)
}
