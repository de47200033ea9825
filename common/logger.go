// The common package holds types that are shared by multiple parts of
// Courier, most notably the Logger used to report publish outcomes.
package common

import (
	"fmt"
	"io/ioutil"
	"log"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is used by all Courier packages for logging. Arguments
// following the message are alternating keys and values, the same
// convention as log/slog, so a *slog.Logger can be used directly.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NopLogger discards everything. It is the default Logger, which will
// keep Courier blissfully quiet.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// StdLogger adapts a *log.Logger. Each line carries the level, the
// message and the fields in key=value form.
type StdLogger struct {
	logger *log.Logger
}

// NewStdLogger returns a Logger writing to l. A nil l is bound to
// ioutil.Discard with the "[Courier] " prefix.
func NewStdLogger(l *log.Logger) *StdLogger {
	if l == nil {
		l = log.New(ioutil.Discard, "[Courier] ", log.LstdFlags)
	}
	return &StdLogger{logger: l}
}

func (l *StdLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l *StdLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l *StdLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l *StdLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }

func (l *StdLogger) print(level, msg string, args []interface{}) {
	if len(args) == 0 {
		l.logger.Printf("%s %s", level, msg)
		return
	}
	l.logger.Printf("%s %s %s", level, msg, formatArgs(args))
}

func formatArgs(args []interface{}) string {
	pairs := make([]string, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		val := interface{}("<missing>")
		if i+1 < len(args) {
			val = args[i+1]
		}
		pairs = append(pairs, fmt.Sprintf("%v=%+v", args[i], val))
	}
	return strings.Join(pairs, " ")
}

// ZerologLogger adapts a zerolog.Logger.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a Logger writing structured events to zl.
func NewZerologLogger(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

func (l *ZerologLogger) Debug(msg string, args ...interface{}) { l.zl.Debug().Fields(args).Msg(msg) }
func (l *ZerologLogger) Info(msg string, args ...interface{})  { l.zl.Info().Fields(args).Msg(msg) }
func (l *ZerologLogger) Warn(msg string, args ...interface{})  { l.zl.Warn().Fields(args).Msg(msg) }
func (l *ZerologLogger) Error(msg string, args ...interface{}) { l.zl.Error().Fields(args).Msg(msg) }
