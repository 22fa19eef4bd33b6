package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/licensegate/cmd/app/commands"
	"github.com/allisson/licensegate/internal/app"
	"github.com/allisson/licensegate/internal/config"
)

func getSessionCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "check-session",
			Usage: "Acquire a merchant portal session and report its expiry",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCheckSession(
					ctx,
					container.SessionUseCase(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
