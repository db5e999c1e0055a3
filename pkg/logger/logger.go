// Package logger provides a custom logger with trace id support and more.
package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// TraceIDFn knows how to extract trace id from the context passed to it.
// client of this package need to implement that logic.
type TraceIDFn func(ctx context.Context) string

// Level represent the logging levels used by logger, we define this so client
// is abstracted from slog.Level.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// Environment selects the output format, text for humans and json for machines.
type Environment int

const (
	EnvironmentDev  Environment = 1
	EnvironmentProd Environment = 2
)

// Logger represents a logger with a custom handler to log information.
type Logger struct {
	handler   slog.Handler
	discard   bool
	traceIDFn TraceIDFn
}

// New creates a logger and returns it.
func New(w io.Writer, minLevel Level, env Environment, serviceName string, traceIDFn TraceIDFn) *Logger {
	return &Logger{
		handler:   createHandler(w, serviceName, minLevel, env),
		discard:   w == io.Discard,
		traceIDFn: traceIDFn,
	}
}

// Debug logs at the LevelDebug.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	//frame 0: runtime.Callers, frame 1: write, frame 2: Debug, frame 3: the caller.
	l.write(ctx, LevelDebug, 3, msg, args...)
}

// Info logs at the LevelInfo.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, 3, msg, args...)
}

// Warn logs at the LevelWarn.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, 3, msg, args...)
}

// Error logs at the LevelError.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, 3, msg, args...)
}

// StdLogger returns a standard logger writing through this logger, http.Server
// uses it for its own error messages.
func (l *Logger) StdLogger(level Level) *log.Logger {
	return slog.NewLogLogger(l.handler, slog.Level(level))
}

func (l *Logger) write(ctx context.Context, level Level, skipStack int, msg string, args ...any) {
	if l.discard {
		return
	}

	slogLevel := slog.Level(level)
	if !l.handler.Enabled(ctx, slogLevel) {
		return
	}

	//only the immediate caller is needed for the source attribute.
	var pcs [1]uintptr
	runtime.Callers(skipStack, pcs[:])

	record := slog.NewRecord(time.Now(), slogLevel, msg, pcs[0])

	if l.traceIDFn != nil {
		args = append(args, "traceID", l.traceIDFn(ctx))
	}

	record.Add(args...)

	_ = l.handler.Handle(ctx, record)
}

//==============================================================================

func createHandler(w io.Writer, service string, minLevel Level, env Environment) slog.Handler {
	//"file.go:42" instead of the full source struct
	fn := func(groups []string, attr slog.Attr) slog.Attr {
		if attr.Key == slog.SourceKey {
			source, ok := attr.Value.Any().(*slog.Source)
			if !ok {
				return attr
			}

			filename := fmt.Sprintf("%s:%d", filepath.Base(source.File), source.Line)
			return slog.Attr{Key: "file", Value: slog.StringValue(filename)}
		}

		return attr
	}

	opts := &slog.HandlerOptions{AddSource: true, Level: slog.Level(minLevel), ReplaceAttr: fn}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if env == EnvironmentProd {
		handler = slog.NewJSONHandler(w, opts)
	}

	return handler.WithAttrs([]slog.Attr{
		{Key: "service", Value: slog.StringValue(service)},
	})
}
