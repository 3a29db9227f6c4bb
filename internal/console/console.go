// Package console provides the shared leveled logger used across services.
// Services that need injectable logging accept a Debugger instead; the
// package-level Logger is the default sink for both.
package console

import (
	"fmt"
	"io"
	"os"
)

// Logger is the process-wide console logger.
var Logger = New(os.Stderr)

// ConsoleLogger writes leveled messages to Output. Debug output is
// suppressed until DebugLevel is raised above zero.
type ConsoleLogger struct {
	Output     io.Writer
	DebugLevel int
}

// New creates a ConsoleLogger writing to w.
func New(w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{Output: w}
}

// Debug logs a formatted message when debug output is enabled.
func (l *ConsoleLogger) Debug(format string, v ...interface{}) {
	if l.DebugLevel <= 0 {
		return
	}
	fmt.Fprintf(l.Output, "[debug] "+format+"\n", v...)
}

// Info logs a formatted informational message.
func (l *ConsoleLogger) Info(format string, v ...interface{}) {
	fmt.Fprintf(l.Output, format+"\n", v...)
}

// Error logs a formatted error message.
func (l *ConsoleLogger) Error(format string, v ...interface{}) {
	fmt.Fprintf(l.Output, "[error] "+format+"\n", v...)
}

// Printf implements the Debugger interface used by services, routing to
// Debug so injected console loggers stay quiet unless debug is on.
func (l *ConsoleLogger) Printf(format string, v ...interface{}) {
	l.Debug(format, v...)
}
