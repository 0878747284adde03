package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger wraps zerolog.Logger to implement the Logger interface.
// Credential-bearing fields are masked by the attached filter before they
// reach the output.
type ZeroLogger struct {
	zlog   *zerolog.Logger
	filter *CredentialFilter
}

// Ensure ZeroLogger implements the interface
var _ Logger = (*ZeroLogger)(nil)

// New creates a ZeroLogger with the specified log level and formatting.
// If pretty is true, output is formatted for human readability.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithFilter(level, pretty, DefaultFilterConfig())
}

// NewWithFilter creates a ZeroLogger with a custom redaction configuration
func NewWithFilter(level string, pretty bool, filterConfig *FilterConfig) *ZeroLogger {
	var l zerolog.Logger
	if pretty {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	zLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zLevel = zerolog.InfoLevel
	}
	l = l.Level(zLevel)

	return &ZeroLogger{zlog: &l, filter: NewCredentialFilter(filterConfig)}
}

// WithContext returns a logger bound to the zerolog instance carried by the
// context, when one is present
func (l *ZeroLogger) WithContext(ctx any) Logger {
	if c, ok := ctx.(context.Context); ok {
		zl := zerolog.Ctx(c)
		if zl == nil || zl.GetLevel() == zerolog.Disabled {
			return l
		}
		return &ZeroLogger{zlog: zl, filter: l.filter}
	}
	return l
}

// WithFields returns a logger with additional fields attached to all log
// entries. Sensitive fields are masked before attachment.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	if l.filter != nil {
		fields = l.filter.FilterFields(fields)
	}
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log, filter: l.filter}
}

// Info creates an info-level log event
func (l *ZeroLogger) Info() LogEvent {
	return &logEventAdapter{event: l.zlog.Info(), filter: l.filter}
}

// Error creates an error-level log event
func (l *ZeroLogger) Error() LogEvent {
	return &logEventAdapter{event: l.zlog.Error(), filter: l.filter}
}

// Debug creates a debug-level log event
func (l *ZeroLogger) Debug() LogEvent {
	return &logEventAdapter{event: l.zlog.Debug(), filter: l.filter}
}

// Warn creates a warning-level log event
func (l *ZeroLogger) Warn() LogEvent {
	return &logEventAdapter{event: l.zlog.Warn(), filter: l.filter}
}

// logEventAdapter adapts zerolog events to the LogEvent interface
type logEventAdapter struct {
	event  *zerolog.Event
	filter *CredentialFilter
}

func (a *logEventAdapter) Msg(msg string) {
	a.event.Msg(msg)
}

func (a *logEventAdapter) Msgf(format string, args ...any) {
	a.event.Msgf(format, args...)
}

func (a *logEventAdapter) Err(err error) LogEvent {
	return &logEventAdapter{event: a.event.Err(err), filter: a.filter}
}

func (a *logEventAdapter) Str(key, value string) LogEvent {
	if a.filter != nil {
		value = a.filter.FilterString(key, value)
	}
	return &logEventAdapter{event: a.event.Str(key, value), filter: a.filter}
}

func (a *logEventAdapter) Int(key string, value int) LogEvent {
	return &logEventAdapter{event: a.event.Int(key, value), filter: a.filter}
}

func (a *logEventAdapter) Int64(key string, value int64) LogEvent {
	return &logEventAdapter{event: a.event.Int64(key, value), filter: a.filter}
}

func (a *logEventAdapter) Dur(key string, d time.Duration) LogEvent {
	return &logEventAdapter{event: a.event.Dur(key, d), filter: a.filter}
}

func (a *logEventAdapter) Interface(key string, i any) LogEvent {
	if a.filter != nil {
		i = a.filter.FilterValue(key, i)
	}
	return &logEventAdapter{event: a.event.Interface(key, i), filter: a.filter}
}

func (a *logEventAdapter) Bytes(key string, val []byte) LogEvent {
	return &logEventAdapter{event: a.event.Bytes(key, val), filter: a.filter}
}
