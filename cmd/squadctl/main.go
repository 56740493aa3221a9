// Command squadctl administers a squadup deployment: schema migrations and
// the batch operations of the squad pipeline.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		os.Stderr.WriteString("squadctl: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "squadctl",
		Usage:     "squadup admin tool",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config file",
				EnvVars: []string{"SQUADUP_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			aggregateCommand(),
			teamsCommand(),
			awardsCommand(),
			exportCommand(),
			seedCommand(),
		},
	}
}
