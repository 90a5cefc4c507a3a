// Package main is cardctl, an operator CLI for offline card input checks and
// account bootstrap.
package main

import (
	"context"
	"fmt"
	"os"

	"cardpay/internal/config"

	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	config.LoadEnv()

	cmd := &cli.Command{
		Name:     "cardctl",
		Usage:    "Card form tooling",
		Version:  version,
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
