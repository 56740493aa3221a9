package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/okian/squadup/internal/adapters/repository/bunstore"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withDatabase(c, func(ctx context.Context, st *bunstore.Store) error {
						if err := st.Migrator().Init(ctx); err != nil {
							return err
						}
						fmt.Fprintln(c.App.Writer, "migration tables ready")
						return nil
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withDatabase(c, func(ctx context.Context, st *bunstore.Store) error {
						group, err := st.Migrate(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Fprintln(c.App.Writer, "no new migrations to run")
						} else {
							fmt.Fprintf(c.App.Writer, "migrated to %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withDatabase(c, func(ctx context.Context, st *bunstore.Store) error {
						group, err := st.Migrator().Rollback(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Fprintln(c.App.Writer, "no groups to roll back")
						} else {
							fmt.Fprintf(c.App.Writer, "rolled back %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withDatabase(c, func(ctx context.Context, st *bunstore.Store) error {
						ms, err := st.Migrator().MigrationsWithStatus(ctx)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "migrations: %s\n", ms)
						fmt.Fprintf(c.App.Writer, "applied: %s\n", ms.Applied())
						fmt.Fprintf(c.App.Writer, "unapplied: %s\n", ms.Unapplied())
						return nil
					})
				},
			},
		},
	}
}
