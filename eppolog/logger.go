// Package eppolog provides the SDK's own leveled, operational logger — the
// ambient concern spec.md's component table never names but every component
// emits through (fetch failures, poller backoff transitions, persistence
// errors). It is grounded on logging/logging.go and go-sdk-common.v2/ldlog's
// leveled-logger idiom: a small interface plus a minimum-level filter, rather
// than a third-party structured-logging library — the vendored SDKs this
// module descends from make the same choice.
package eppolog

import (
	"fmt"
	"log"
	"os"
)

// Level is a logging severity, ordered from most to least verbose.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
	// None disables all output.
	None
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "NONE"
	}
}

// Logger is the interface the SDK uses for its own operational log lines.
// Host applications may supply their own implementation; if none is given
// the SDK uses a Default logger writing to os.Stderr at Warn and above.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	GetLevel() Level
}

type stdLogger struct {
	level Level
	out   *log.Logger
}

// Default returns a Logger that writes to os.Stderr, filtered at minLevel.
func Default(minLevel Level) Logger {
	return &stdLogger{
		level: minLevel,
		out:   log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
}

func (l *stdLogger) GetLevel() Level { return l.level }

func (l *stdLogger) Debugf(format string, args ...interface{}) { l.logf(Debug, format, args...) }
func (l *stdLogger) Infof(format string, args ...interface{})  { l.logf(Info, format, args...) }
func (l *stdLogger) Warnf(format string, args ...interface{})  { l.logf(Warn, format, args...) }
func (l *stdLogger) Errorf(format string, args ...interface{}) { l.logf(Error, format, args...) }

func (l *stdLogger) logf(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Print(level.String() + ": " + fmt.Sprintf(format, args...))
}

// Noop returns a Logger that discards everything, for tests and hosts that
// want silence.
func Noop() Logger { return noopLogger{} }

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}
func (noopLogger) GetLevel() Level                { return None }
