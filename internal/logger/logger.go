// Package logger provides the leveled console logger used by the CLI and the
// search engine. Output is prefixed with [HH:MM:SS] timestamps and level tags,
// which are colourised when writing to a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is the logging surface consumed by the engine and commands.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ConsoleLogger writes leveled messages to a writer. It is safe for
// concurrent use.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger writing to writer. A nil writer
// discards everything. Unknown or empty levels fall back to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    NormalizeLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// SetColor forces colour output on or off.
func (cl *ConsoleLogger) SetColor(enabled bool) {
	cl.mutex.Lock()
	cl.colorOutput = enabled
	cl.mutex.Unlock()
}

// Level returns the normalized minimum level.
func (cl *ConsoleLogger) Level() string { return cl.logLevel }

// isTerminal reports whether w is stdout/stderr and colour is not disabled
// (color.NoColor covers NO_COLOR and non-TTY output).
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// NormalizeLevel lowercases level and maps unknown values to "info".
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	case "warning":
		return "warn"
	}
	return "info"
}

func levelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return levelToInt(messageLevel) >= levelToInt(cl.logLevel)
}

// Tracef logs at trace level.
func (cl *ConsoleLogger) Tracef(format string, args ...any) { cl.logf("TRACE", format, args...) }

// Debugf logs at debug level.
func (cl *ConsoleLogger) Debugf(format string, args ...any) { cl.logf("DEBUG", format, args...) }

// Infof logs at info level.
func (cl *ConsoleLogger) Infof(format string, args ...any) { cl.logf("INFO", format, args...) }

// Warnf logs at warn level.
func (cl *ConsoleLogger) Warnf(format string, args ...any) { cl.logf("WARN", format, args...) }

// Errorf logs at error level.
func (cl *ConsoleLogger) Errorf(format string, args ...any) { cl.logf("ERROR", format, args...) }

func (cl *ConsoleLogger) logf(level, format string, args ...any) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}
	message := fmt.Sprintf(format, args...)

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	tag := level
	if cl.colorOutput {
		tag = colorLevel(level)
	}
	_, _ = fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", timestamp(), tag, message)
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	}
	return level
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// Nop returns a Logger that discards all messages.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
