package observability

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to stdout.
// APP_ENV=dev (or development), or an interactive terminal, gets the console writer.
func NewLogger(env string) zerolog.Logger {
	return newLogger(os.Stdout, env, isTerminal(os.Stdout))
}

func newLogger(out io.Writer, env string, tty bool) zerolog.Logger {
	if env == "dev" || env == "development" || tty {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
