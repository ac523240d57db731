package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/msgboard/cmd/msgboard/migrate"
	"github.com/andrebq/msgboard/cmd/msgboard/serve"
	"github.com/andrebq/msgboard/cmd/msgboard/users"
	"github.com/andrebq/msgboard/internal/logutil"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	logLevel := "info"
	logFormat := "console"
	app := &cli.App{
		Name:  "msgboard",
		Usage: "A small message board where registered users share short messages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Minimum level to log (trace, debug, info, warn, error)",
				EnvVars:     []string{"MSGBOARD_LOG_LEVEL"},
				Value:       logLevel,
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Either console or json",
				EnvVars:     []string{"MSGBOARD_LOG_FORMAT"},
				Value:       logFormat,
				Destination: &logFormat,
			},
		},
		Before: func(ctx *cli.Context) error {
			return logutil.Setup(os.Stderr, logLevel, logFormat)
		},
		Commands: []*cli.Command{
			serve.Cmd(),
			migrate.Cmd(),
			users.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
		os.Exit(1)
	}
}
