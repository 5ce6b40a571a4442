// Package klog builds the kernel's structured logger on top of the platform's line
// logger.
package klog

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"ember/hal"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

type Options struct {
	Level   string
	Console bool
	// Timestamp adds a time field; leave it off where there is no wall clock.
	Timestamp bool
}

// New returns a zerolog logger writing to w.
func New(w io.Writer, opts Options) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}
	zerolog.ErrorFieldName = "err"
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: consoleTimeFormat}
	}
	ctx := zerolog.New(w).Level(ParseLevel(opts.Level, zerolog.InfoLevel)).With()
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// ParseLevel maps a level name to a zerolog level, falling back to def.
func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return def
	}
}

// LineWriter is an io.Writer that forwards complete lines to a hal.Logger. A
// trailing partial line is held until its newline arrives.
type LineWriter struct {
	mu      sync.Mutex
	log     hal.Logger
	pending []byte
}

func NewLineWriter(log hal.Logger) *LineWriter {
	return &LineWriter{log: log}
}

// Write implements io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.pending = append(w.pending, p...)
			break
		}
		line := p[:i]
		if len(w.pending) > 0 {
			line = append(w.pending, line...)
		}
		w.log.WriteLineBytes(bytes.TrimSuffix(line, []byte{'\r'}))
		w.pending = w.pending[:0]
		p = p[i+1:]
	}
	return n, nil
}
