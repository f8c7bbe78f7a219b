// Package logging defines the logger used for the diagnostic stream.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/buildpacks/meta-buildpack/internal/style"
)

const (
	timeFmt = "2006/01/02 15:04:05.000000"

	// DefaultPrefix tags every diagnostic line so it can be told apart from the
	// output of wrapped buildpacks.
	DefaultPrefix = "meta-buildpack"
)

// Logger defines behavior required by the orchestrator and the commands
type Logger interface {
	Debug(msg string)
	Debugf(fmt string, v ...interface{})

	Info(msg string)
	Infof(fmt string, v ...interface{})

	Warn(msg string)
	Warnf(fmt string, v ...interface{})

	Error(msg string)
	Errorf(fmt string, v ...interface{})

	Writer() io.Writer

	IsVerbose() bool
}

// Handler formats apex log entries for the diagnostic stream.
type Handler struct {
	sync.Mutex
	Writer   io.Writer
	Prefix   string
	WantTime bool
	clock    func() time.Time
}

// HandleLog implements log.Handler
func (h *Handler) HandleLog(e *log.Entry) error {
	h.Lock()
	defer h.Unlock()

	var sb strings.Builder
	if h.WantTime {
		sb.WriteString(style.Timestamp(h.clock().Format(timeFmt)))
		sb.WriteString(" ")
	}
	if h.Prefix != "" {
		sb.WriteString(fmt.Sprintf("[%s] ", style.Prefix(h.Prefix)))
	}
	sb.WriteString(formatLevel(e.Level))
	sb.WriteString(e.Message)

	_, err := fmt.Fprintln(h.Writer, sb.String())
	return err
}

func formatLevel(level log.Level) string {
	switch level {
	case log.DebugLevel:
		return "DEBUG: "
	case log.WarnLevel:
		return style.Warn("Warning: ")
	case log.ErrorLevel, log.FatalLevel:
		return style.Error("ERROR: ")
	default:
		return ""
	}
}

// LogWithWriter is a Logger backed by apex/log which also exposes its writer
type LogWithWriter struct {
	log.Logger
	handler *Handler
}

// WithClock replaces the clock used for timestamps
func WithClock(clock func() time.Time) func(*LogWithWriter) {
	return func(lw *LogWithWriter) {
		lw.handler.clock = clock
	}
}

// NewLogWithWriter creates a logger writing every level to w
func NewLogWithWriter(w io.Writer, opts ...func(*LogWithWriter)) *LogWithWriter {
	lw := &LogWithWriter{
		handler: &Handler{
			Writer: w,
			Prefix: DefaultPrefix,
			clock:  time.Now,
		},
	}
	lw.Logger.Handler = lw.handler
	lw.Logger.Level = log.InfoLevel

	for _, opt := range opts {
		opt(lw)
	}

	return lw
}

// WantTime turns timestamps on or off
func (lw *LogWithWriter) WantTime(f bool) {
	lw.handler.WantTime = f
}

// WantQuiet restricts output to warnings and errors
func (lw *LogWithWriter) WantQuiet(f bool) {
	if f {
		lw.Level = log.WarnLevel
	}
}

// WantVerbose enables debug output
func (lw *LogWithWriter) WantVerbose(f bool) {
	if f {
		lw.Level = log.DebugLevel
	}
}

// WantLevel sets the level from its name (debug, info, warn, error)
func (lw *LogWithWriter) WantLevel(level string) error {
	l, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "parsing log level %s", style.Symbol(level))
	}
	lw.Level = l
	return nil
}

// Writer returns the underlying diagnostic writer
func (lw *LogWithWriter) Writer() io.Writer {
	return lw.handler.Writer
}

// IsVerbose returns whether debug output is enabled
func (lw *LogWithWriter) IsVerbose() bool {
	return lw.Level == log.DebugLevel
}

// IsTerminal reports whether w is a terminal, and its file descriptor if so
func IsTerminal(w io.Writer) (uintptr, bool) {
	type descriptor interface {
		Fd() uintptr
	}

	if f, ok := w.(descriptor); ok {
		fd := f.Fd()
		return fd, term.IsTerminal(int(fd))
	}
	return 0, false
}
