// Package cli implements the marquee command-line interface.
//
// Commands:
//   - render: compose a poster from artwork, an optional logo and metadata
//   - config: print the effective configuration as TOML
//   - cache: inspect or clear the render cache
//
// Every command accepts --config and --verbose (-v). The logger travels in
// the command's context.Context so helpers deep in a command can log
// without a CLI reference.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// progress times a multi-stage command. step logs each stage at debug
// level with the time since the previous stage; done logs the total at info.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// step logs the end of a stage, e.g. "assets loaded".
func (p *progress) step(stage string) {
	now := time.Now()
	p.logger.Debug(stage, "took", now.Sub(p.last).Round(time.Millisecond))
	p.last = now
}

// done logs msg with the total elapsed time, e.g. "Rendered Interstellar_2014.jpg (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger stored by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
