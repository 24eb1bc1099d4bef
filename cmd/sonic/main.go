// Command sonic encodes and decodes WAV files using the Sonic codec.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx := context.Background()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	app := &cli.Command{
		Name:  "sonic",
		Usage: "encode and decode audio with the Sonic codec",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Before: func(_ context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				log = log.Level(zerolog.DebugLevel)
			} else {
				log = log.Level(zerolog.InfoLevel)
			}
			return withLogger(ctx, log), nil
		},
		Commands: []*cli.Command{
			encodeCommand(),
			decodeCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, log zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

func loggerFrom(ctx context.Context) zerolog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return log
	}
	return zerolog.Nop()
}
