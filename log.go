package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

func NewLogger(level string, pretty bool) *Logger {
	return newLoggerTo(os.Stdout, level, pretty)
}

func newLoggerTo(w io.Writer, level string, pretty bool) *Logger {
	lv, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lv == zerolog.NoLevel {
		lv = zerolog.InfoLevel
	}
	if strings.EqualFold(strings.TrimSpace(level), "warning") {
		lv = zerolog.WarnLevel
	}

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05.000"}
	}
	zl := zerolog.New(out).Level(lv).With().Timestamp().Str("service", "flippening").Logger()
	return &Logger{zl: zl}
}

// With returns a child logger carrying an extra string field.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l *Logger) Debugf(format string, args ...any) { l.zl.Debug().Msg(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.zl.Info().Msg(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.zl.Warn().Msg(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.zl.Error().Msg(fmt.Sprintf(format, args...)) }

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
