package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mrlokans/highlights-vault/internal/services"
)

func newGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:   "generate",
		Usage:  "Rebuild every vault document from the outline file",
		Action: runGenerate,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	summary, err := services.NewGenerationService(cfg, services.WithLogger(logger)).Generate(ctx)
	if err != nil {
		return err
	}

	result := summary.Result
	out := cmd.Root().Writer
	fmt.Fprintf(out, "Generated %d documents for %q in %s\n", result.DocumentsWritten, result.BookTitle, cfg.Vault.Path)
	fmt.Fprintf(out, "  chapters:   %d\n", result.ChaptersProcessed)
	fmt.Fprintf(out, "  highlights: %d\n", result.HighlightsProcessed)
	if result.HighlightsSkipped > 0 {
		fmt.Fprintf(out, "  skipped:    %d (outside any chapter)\n", result.HighlightsSkipped)
	}
	if result.MindMapWritten {
		fmt.Fprintln(out, "  mind map:   written")
	}
	if summary.ReportFile != "" {
		fmt.Fprintf(out, "  report:     %s\n", summary.ReportFile)
	}
	return nil
}
