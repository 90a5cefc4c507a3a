package main

import (
	"context"
	"os"

	"cardpay/internal/config"
	"cardpay/internal/services/cardform"
	"cardpay/internal/services/messages"

	"github.com/urfave/cli/v3"
)

func getCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "format",
			Usage:     "Print raw input the way the form displays it",
			ArgsUsage: "<number|expiry|cvc|name> <raw>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.NArg() != 2 {
					return cli.Exit("format takes a field name and a value", 2)
				}
				return runFormat(os.Stdout, cmd.Args().Get(0), cmd.Args().Get(1))
			},
		},
		{
			Name:  "validate",
			Usage: "Validate a full set of card fields",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "number", Aliases: []string{"n"}, Usage: "Card number"},
				&cli.StringFlag{Name: "expiry", Aliases: []string{"e"}, Usage: "Expiry, MMYY or MM/YY"},
				&cli.StringFlag{Name: "cvc", Aliases: []string{"c"}, Usage: "Security code"},
				&cli.StringFlag{Name: "name", Usage: "Cardholder name"},
				&cli.IntFlag{
					Name:    "min-year",
					Value:   cardform.DefaultMinExpiryYear,
					Usage:   "Earliest accepted expiry year",
					Sources: cli.EnvVars("CARD_MIN_EXPIRY_YEAR"),
				},
				&cli.StringFlag{Name: "locale", Aliases: []string{"l"}, Value: "en", Usage: "Locale of error messages"},
				&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format: 'text' or 'json'"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				report := validateCard(cardInput{
					Number: cmd.String("number"),
					Expiry: cmd.String("expiry"),
					Cvc:    cmd.String("cvc"),
					Name:   cmd.String("name"),
				}, int(cmd.Int("min-year")), messages.ForLocale(cmd.String("locale")))

				if err := writeReport(os.Stdout, report, cmd.String("format")); err != nil {
					return err
				}
				if !report.Valid {
					return cli.Exit("", 1)
				}
				return nil
			},
		},
		{
			Name:  "seed-admin",
			Usage: "Create the admin account if it does not exist",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true, Sources: cli.EnvVars("ADMIN_EMAIL")},
				&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("ADMIN_PASSWORD")},
				&cli.StringFlag{Name: "name", Value: "Administrator", Sources: cli.EnvVars("ADMIN_NAME")},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runSeedAdmin(ctx, config.Load(), cmd.String("name"), cmd.String("email"), cmd.String("password"))
			},
		},
	}
}
