package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ourlog/ourlog/internal/database/types/enum"
	"github.com/ourlog/ourlog/internal/setup"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "trust",
		Usage: "Trust enforcement tool for reports and bans",
		Commands: []*cli.Command{
			{
				Name:  "report",
				Usage: "File a report against a user",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "reporter",
						Usage:    "ID of the reporting user",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "target",
						Usage:    "ID of the reported user",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "reason",
						Usage:    "Report reason (SPAM, INAPPROPRIATE, HARASSMENT, HATE_SPEECH, OTHER)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Free-form report details",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, func(ctx context.Context, app *setup.App) error {
						err := app.Service.Report().FileReport(
							ctx,
							c.Int("reporter"),
							c.Int("target"),
							enum.ReportReason(c.String("reason")),
							c.String("description"),
						)
						if err != nil {
							return err
						}

						fmt.Println("Report filed.")

						return nil
					})
				},
			},
			{
				Name:  "ban",
				Usage: "Ban a user by administrative decision",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "user",
						Usage:    "ID of the user to ban",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "reason",
						Usage:    "Reason recorded on the ban",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "duration",
						Usage: "Ban length (0 for permanent)",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, func(ctx context.Context, app *setup.App) error {
						userID := c.Int("user")
						duration := c.Duration("duration")

						err := app.Service.Ban().BanUserWithKind(
							ctx, userID, enum.BanKindAdminDecision, c.String("reason"), duration,
						)
						if err != nil {
							return err
						}

						if duration == 0 {
							fmt.Printf("User %d banned permanently.\n", userID)
						} else {
							fmt.Printf("User %d banned for %s.\n", userID, duration)
						}

						return nil
					})
				},
			},
			{
				Name:  "unban",
				Usage: "Lift a user's ban",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "user",
						Usage:    "ID of the user to unban",
						Required: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, func(ctx context.Context, app *setup.App) error {
						userID := c.Int("user")
						if err := app.Service.Ban().UnbanUser(ctx, userID); err != nil {
							return err
						}

						fmt.Printf("User %d unbanned.\n", userID)

						return nil
					})
				},
			},
			{
				Name:  "check",
				Usage: "Check whether a user is currently banned",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "user",
						Usage:    "ID of the user to check",
						Required: true,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withApp(ctx, func(ctx context.Context, app *setup.App) error {
						userID := c.Int("user")

						banned, err := app.Service.Ban().IsUserBanned(ctx, userID)
						if err != nil {
							return err
						}

						if banned {
							fmt.Printf("User %d is banned.\n", userID)
						} else {
							fmt.Printf("User %d is not banned.\n", userID)
						}

						return nil
					})
				},
			},
			{
				Name:  "warm",
				Usage: "Refill the ban status cache from active ban records",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return withApp(ctx, func(ctx context.Context, app *setup.App) error {
						start := time.Now()

						count, err := app.Service.Ban().WarmCache(ctx)
						if err != nil {
							return err
						}

						fmt.Printf("Warmed %d ban status entries in %s.\n", count, time.Since(start))

						return nil
					})
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// withApp initializes the application, runs fn, and cleans up afterwards.
func withApp(ctx context.Context, fn func(context.Context, *setup.App) error) error {
	app, err := setup.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	return fn(ctx, app)
}
