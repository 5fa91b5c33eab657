package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Production writes JSON lines, anything else
// writes human readable console output.
func New(env string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339

	if env != "production" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	level := zerolog.InfoLevel
	if env == "development" {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "kungfu-delivery").Logger()
}

// From returns the request scoped logger stored in ctx, or a disabled logger.
func From(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// With stores l in ctx.
func With(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}
