package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/okian/squadup/internal/adapters/export"
	service "github.com/okian/squadup/internal/app"
	"github.com/okian/squadup/internal/seed"
)

var gameFlag = &cli.StringFlag{Name: "game", Usage: "game id", Required: true}

func gameID(c *cli.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.String("game"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --game: %w", err)
	}
	return id, nil
}

func aggregateCommand() *cli.Command {
	return &cli.Command{
		Name:  "aggregate",
		Usage: "recompute every skill profile from ratings",
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc *service.Service) error {
				profiles, err := svc.AggregateSkillProfiles(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "aggregated %d profiles\n", len(profiles))
				return nil
			})
		},
	}
}

func teamsCommand() *cli.Command {
	flag := func(name, usage string, fn func(ctx context.Context, svc *service.Service, id uuid.UUID) error) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: usage,
			Flags: []cli.Flag{gameFlag},
			Action: func(c *cli.Context) error {
				id, err := gameID(c)
				if err != nil {
					return err
				}
				return withService(c, func(ctx context.Context, svc *service.Service) error {
					if err := fn(ctx, svc, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "teams %sed\n", name)
					return nil
				})
			},
		}
	}

	return &cli.Command{
		Name:  "teams",
		Usage: "team assignment",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "split the confirmed players into balanced teams",
				Flags: []cli.Flag{gameFlag},
				Action: func(c *cli.Context) error {
					id, err := gameID(c)
					if err != nil {
						return err
					}
					return withService(c, func(ctx context.Context, svc *service.Service) error {
						if _, err := svc.GenerateTeams(ctx, id); err != nil {
							return err
						}
						view, err := svc.Teams(ctx, id)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "cost %.3f\n", view.Cost)
						for i := range view.TeamA {
							fmt.Fprintf(c.App.Writer, "%-24s %s\n", view.TeamA[i].Name, view.TeamB[i].Name)
						}
						return nil
					})
				},
			},
			flag("lock", "lock the teams", func(ctx context.Context, svc *service.Service, id uuid.UUID) error {
				return svc.LockTeams(ctx, id)
			}),
			flag("unlock", "unlock the teams", func(ctx context.Context, svc *service.Service, id uuid.UUID) error {
				return svc.UnlockTeams(ctx, id)
			}),
			flag("publish", "publish the teams", func(ctx context.Context, svc *service.Service, id uuid.UUID) error {
				return svc.PublishTeams(ctx, id, true)
			}),
		},
	}
}

func awardsCommand() *cli.Command {
	return &cli.Command{
		Name:  "awards",
		Usage: "tabulate award votes and update performance modifiers",
		Flags: []cli.Flag{gameFlag},
		Action: func(c *cli.Context) error {
			id, err := gameID(c)
			if err != nil {
				return err
			}
			return withService(c, func(ctx context.Context, svc *service.Service) error {
				results, err := svc.TabulateAwards(ctx, id)
				if err != nil {
					return err
				}
				for _, r := range results {
					fmt.Fprintf(c.App.Writer, "%-14s %s (%d)\n", r.CategoryID, r.WinnerID, r.WinnerVotes)
				}
				return nil
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write skill profiles (and a game's awards) to an XLSX file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "output file", Value: "squadup.xlsx"},
			&cli.StringFlag{Name: "game", Usage: "include this game's award results"},
			&cli.IntFlag{Name: "limit", Usage: "maximum profiles", Value: 100},
		},
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc *service.Service) error {
				report, err := buildReport(ctx, c, svc)
				if err != nil {
					return err
				}
				f, err := os.Create(c.String("out"))
				if err != nil {
					return fmt.Errorf("create %s: %w", c.String("out"), err)
				}
				if err := export.Write(f, report); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %d profiles to %s\n", len(report.Profiles), c.String("out"))
				return nil
			})
		},
	}
}

func buildReport(ctx context.Context, c *cli.Context, svc *service.Service) (export.Report, error) {
	profiles, err := svc.Standings(ctx, c.Int("limit"))
	if err != nil {
		return export.Report{}, err
	}
	report := export.Report{Profiles: profiles}
	if c.String("game") == "" {
		return report, nil
	}

	id, err := gameID(c)
	if err != nil {
		return export.Report{}, err
	}
	if report.Awards, err = svc.AwardResults(ctx, id); err != nil {
		return export.Report{}, err
	}
	players, err := svc.ListPlayers(ctx)
	if err != nil {
		return export.Report{}, err
	}
	report.IncludeAwards = true
	report.Names = make(map[uuid.UUID]string, len(players))
	for _, p := range players {
		report.Names[p.ID] = p.Name
	}
	return report, nil
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "create demo players, ratings and a game",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "players", Value: 12},
			&cli.IntFlag{Name: "ratings", Usage: "ratings per player", Value: 4},
			&cli.IntFlag{Name: "joiners", Usage: "sign-ups for the game", Value: 10},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed"},
		},
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc *service.Service) error {
				sum, err := seed.New(
					seed.WithSeed(c.Uint64("seed")),
					seed.WithPlayers(c.Int("players")),
					seed.WithRatingsPerPlayer(c.Int("ratings")),
					seed.WithJoiners(c.Int("joiners")),
				).Run(ctx, svc)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "created %d players, %d ratings, game %s with %d sign-ups\n",
					len(sum.Players), sum.Ratings, sum.GameID, sum.Joined)
				return nil
			})
		},
	}
}
