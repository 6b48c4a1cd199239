package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mrlokans/highlights-vault/internal/apperr"
	"github.com/mrlokans/highlights-vault/internal/database"
)

func newHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent generation runs from the ledger",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of runs to show",
				Value: 10,
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "Show the documents written by one run",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, _, err := setup(cmd)
			if err != nil {
				return err
			}
			if cfg.Ledger.DatabasePath == "" {
				return apperr.NewConfigurationError("databasePath is required for history", nil)
			}

			db, err := database.NewDatabase(cfg.Ledger.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if runID := cmd.String("run"); runID != "" {
				run, err := db.GetRun(runID)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "KIND\tPATH\tSIZE\tCHECKSUM\n")
				for _, doc := range run.Documents {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", doc.Kind, doc.Path, doc.Size, doc.Checksum[:12])
				}
				return nil
			}

			runs, err := db.RecentRuns(int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "RUN\tSTARTED\tSTATUS\tBOOK\tDOCUMENTS\tHIGHLIGHTS\n")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
					run.RunID, run.StartedAt.Format(time.DateTime), run.Status, run.BookTitle, run.DocumentsCount, run.HighlightCount)
			}
			return nil
		},
	}
}
