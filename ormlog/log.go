// Package ormlog provides the structured logger every goorm package
// writes through, with a colored console handler so a trace of
// executed statements stays readable during development.
package ormlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config configures a Logger.
type Config struct {
	Level     slog.Level
	Format    string // "json", "text", or "console" (default)
	Writer    io.Writer
	AddSource bool
}

type Option func(*Config)

func WithLevel(l slog.Level) Option { return func(c *Config) { c.Level = l } }
func WithFormat(f string) Option    { return func(c *Config) { c.Format = f } }
func WithWriter(w io.Writer) Option { return func(c *Config) { c.Writer = w } }
func WithAddSource(b bool) Option   { return func(c *Config) { c.AddSource = b } }

// Logger wraps *slog.Logger with query-tracing helpers.
type Logger struct {
	*slog.Logger
}

var defaultLogger = New()

// New builds a Logger; the zero-value Config renders to stdout at
// info level in the console format.
func New(opts ...Option) *Logger {
	cfg := &Config{Level: slog.LevelInfo, Format: "console"}
	for _, opt := range opts {
		opt(cfg)
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	hOpts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, hOpts)
	case "text":
		handler = slog.NewTextHandler(w, hOpts)
	default:
		handler = newConsoleHandler(w, hOpts)
	}
	return &Logger{slog.New(handler)}
}

// Default returns the package-level logger every goorm component logs
// through unless given one explicitly.
func Default() *Logger { return defaultLogger }

// SetDefault replaces the package-level logger.
func SetDefault(l *Logger) { defaultLogger = l }

// Query logs one executed statement: its rendered SQL, its argument
// list, and either its row count or its error.
func (l *Logger) Query(sql string, args []any, rows int, err error) {
	if err != nil {
		l.LogAttrs(context.Background(), slog.LevelError, "query failed",
			slog.String("sql", sql), slog.Any("args", args), slog.Any("err", err))
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, "query",
		slog.String("sql", sql), slog.Any("args", args), slog.Int("rows", rows))
}

// consoleHandler renders one line per record with a colored level tag.
type consoleHandler struct {
	w    io.Writer
	opts slog.HandlerOptions
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	h := &consoleHandler{w: w}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format("2006-01-02 15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(colorLevel(r.Level))
	b.WriteString(" ")
	b.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
		return true
	})
	b.WriteString("\n")
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *consoleHandler) WithGroup(string) slog.Handler      { return h }

func colorLevel(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "\033[31m" + l.String() + "\033[0m"
	case l >= slog.LevelWarn:
		return "\033[33m" + l.String() + "\033[0m"
	case l >= slog.LevelInfo:
		return "\033[32m" + l.String() + "\033[0m"
	default:
		return "\033[36m" + l.String() + "\033[0m"
	}
}
