package logutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type (
	key byte

	gooseLogger struct {
		log zerolog.Logger
	}
)

var (
	loggerKey = key(1)
)

func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func GetOrDefault(ctx context.Context) zerolog.Logger {
	v := ctx.Value(loggerKey)
	if v == nil {
		return log.Logger
	}
	return v.(zerolog.Logger)
}

// Setup replaces the global logger using the given level and format,
// format can be either console or json
func Setup(out io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q, cause %w", level, err)
	}
	if out == nil {
		out = os.Stderr
	}
	switch format {
	case "json":
	case "console", "":
		out = zerolog.ConsoleWriter{Out: out}
	default:
		return fmt.Errorf("invalid log format %q, use console or json", format)
	}
	log.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return nil
}

// GooseLogger routes migration output to the given logger
func GooseLogger(l zerolog.Logger) *gooseLogger {
	return &gooseLogger{log: l.With().Str("component", "migrations").Logger()}
}

func (g *gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
