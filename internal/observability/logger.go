package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger: human-readable console output in dev,
// JSON otherwise. Interactive menu output goes to stdout, so logs go to
// stderr to keep the two streams separable.
func NewLogger(env string) zerolog.Logger {
	var out io.Writer = os.Stderr
	if env == "dev" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().
		Timestamp().
		Str("service", "clinic-records").
		Logger()
}
