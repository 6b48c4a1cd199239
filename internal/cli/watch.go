package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/highlights-vault/internal/scheduler"
	"github.com/mrlokans/highlights-vault/internal/watcher"
)

func newWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Rebuild the vault whenever the outline or config file changes",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			configPath := cmd.String("config")
			job := rebuildJob(configPath, logger)
			w, err := watcher.New([]string{cfg.Input.FileName, configPath}, job, watcher.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := job(ctx); err != nil {
				logger.Error("initial rebuild failed", slog.String("error", err.Error()))
			}

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return w.Run(gCtx)
			})
			return g.Wait()
		},
	}
}

func newScheduleCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Rebuild the vault on the configured cron schedule",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "now",
				Usage: "Rebuild once before waiting for the first tick",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			s := scheduler.NewGenerationScheduler(cfg.Schedule.Spec, rebuildJob(cmd.String("config"), logger), logger)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cmd.Bool("now") {
				if err := s.RunNow(ctx); err != nil {
					logger.Error("initial rebuild failed", slog.String("error", err.Error()))
				}
			}

			g, gCtx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := s.Start(gCtx); err != nil {
					return err
				}
				<-gCtx.Done()
				s.Stop()
				return nil
			})
			return g.Wait()
		},
	}
}
