package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/licensegate/cmd/app/commands"
	"github.com/allisson/licensegate/internal/app"
	"github.com/allisson/licensegate/internal/config"
)

func getLicenseCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-license",
			Usage: "Provision a new license",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Value:   "",
					Usage:   "License key (omit to generate one)",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   1,
					Usage:   "Maximum number of concurrently activated domains",
				},
				&cli.IntFlag{
					Name:    "expires-in-days",
					Aliases: []string{"e"},
					Value:   0,
					Usage:   "Days until the license expires (0 for perpetual)",
				},
				&cli.BoolFlag{
					Name:    "allow-courier",
					Aliases: []string{"c"},
					Value:   false,
					Usage:   "Grant access to the courier lookup endpoint",
				},
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

				provisioningUseCase, err := container.ProvisioningUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateLicense(
					ctx,
					provisioningUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key"),
					int(cmd.Int("limit")),
					int(cmd.Int("expires-in-days")),
					cmd.Bool("allow-courier"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "update-license",
			Usage: "Update an existing license's provisioning fields",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "License ID (UUID)",
				},
				&cli.StringFlag{
					Name:    "status",
					Aliases: []string{"s"},
					Value:   "active",
					Usage:   "License status: 'active', 'inactive' or 'expired'",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   1,
					Usage:   "Maximum number of concurrently activated domains",
				},
				&cli.IntFlag{
					Name:    "expires-in-days",
					Aliases: []string{"e"},
					Value:   0,
					Usage:   "Days until the license expires (0 for perpetual)",
				},
				&cli.BoolFlag{
					Name:    "allow-courier",
					Aliases: []string{"c"},
					Value:   false,
					Usage:   "Grant access to the courier lookup endpoint",
				},
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

				provisioningUseCase, err := container.ProvisioningUseCase()
				if err != nil {
					return err
				}

				return commands.RunUpdateLicense(
					ctx,
					provisioningUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("status"),
					int(cmd.Int("limit")),
					int(cmd.Int("expires-in-days")),
					cmd.Bool("allow-courier"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "get-license",
			Usage: "Show a license by its key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "License key",
				},
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

				provisioningUseCase, err := container.ProvisioningUseCase()
				if err != nil {
					return err
				}

				return commands.RunGetLicense(
					ctx,
					provisioningUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("key"),
					cmd.String("format"),
				)
			},
		},
	}
}
