// Package cli implements the msaview command-line interface.
//
// This package provides commands for inspecting FASTA alignments, exporting
// their tiles, browsing them in a terminal viewer and serving them over
// HTTP. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - info: Summarise an alignment and list its sequences
//   - consensus: Print the consensus sequence and per-column scores
//   - tiles: Export residue tiles and consensus chunks to a directory
//   - view: Interactive terminal viewer with pan, zoom and deep links
//   - serve: HTTP API over alignment sessions
//   - cache: Manage the tile cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and --quiet (-q)
// to log only warnings. Loggers are passed through context.Context to allow
// structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/msaview/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes to w at level, stamping each line with a
// centisecond wall clock.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a single step. Not for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the step's key/value pairs and an
// "elapsed" field rounded to the millisecond:
//
//	14:32:01.45 INFO Loaded sequences=120 columns=4096 elapsed=1.234s
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
