package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/mrlokans/highlights-vault/internal/entities"
	"github.com/mrlokans/highlights-vault/internal/parsers"
)

func newTreeCommand() *cli.Command {
	return &cli.Command{
		Name:  "tree",
		Usage: "Print the parsed outline tree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: json or text",
				Value: "json",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root, err := parseInput(cmd)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			switch cmd.String("format") {
			case "json":
				return writeJSON(out, root)
			case "text":
				_, err := io.WriteString(out, parsers.DescribeTree(root))
				return err
			default:
				return fmt.Errorf("unknown format %q", cmd.String("format"))
			}
		},
	}
}

func newChaptersCommand() *cli.Command {
	return &cli.Command{
		Name:  "chapters",
		Usage: "Print the chapter outline without highlights",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "Deepest chapter level to include, -1 for unlimited",
				Value: -1,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root, err := parseInput(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.Root().Writer, root.ChaptersOnly(int(cmd.Int("max-depth"))))
		},
	}
}

func parseInput(cmd *cli.Command) (*entities.Node, error) {
	cfg, _, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	root, err := parsers.NewOutlineParser().ParseFile(cfg.Input.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfg.Input.FileName, err)
	}
	return root, nil
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
