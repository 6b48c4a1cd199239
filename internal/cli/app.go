package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mrlokans/highlights-vault/internal/config"
	"github.com/mrlokans/highlights-vault/internal/services"
)

// NewApp builds the highlights-vault command tree. Running it without a
// subcommand generates the vault.
func NewApp(version string) *cli.Command {
	return &cli.Command{
		Name:    "highlights-vault",
		Usage:   "Turn an outline of book highlights into a linked Markdown vault",
		Version: version,
		Action:  runGenerate,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (JSON or YAML)",
				DefaultText: config.DefaultConfigPath,
				Value:       config.DefaultConfigPath,
				Sources:     cli.EnvVars("HV_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			newGenerateCommand(),
			newTreeCommand(),
			newChaptersCommand(),
			newWatchCommand(),
			newScheduleCommand(),
			newHistoryCommand(),
		},
	}
}

// setup loads the config named by --config and installs the process logger.
func setup(cmd *cli.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.SlogLevel()
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// rebuildJob reloads the config before every rebuild so edits take effect
// without a restart.
func rebuildJob(configPath string, logger *slog.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		_, err = services.NewGenerationService(cfg, services.WithLogger(logger)).Generate(ctx)
		return err
	}
}
