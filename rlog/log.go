// rlog/log.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"slices"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger with callstack-annotated Debug/Info and
// nil-receiver-safe Warn/Error, and fans out to a rotating JSON file
// plus a text handler on stderr for warnings and above.
type Logger struct {
	*slog.Logger
	LogFile string
	LogDir  string
	Start   time.Time
}

// New creates a Logger that writes rotating JSON records to dir and
// mirrors warnings and errors as text to stderr.
func New(level string, dir string) *Logger {
	if dir == "" {
		dir = "routecast-logs"
	}

	w := &lumberjack.Logger{
		Filename: filepath.Join(dir, "routecast.log"),
		MaxSize:  64, // MB
		MaxAge:   14,
		Compress: true,
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		if level != "" {
			fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
		}
	}

	h := newHandler(w, &slog.HandlerOptions{Level: lvl})
	l := &Logger{
		Logger:  slog.New(h),
		LogFile: w.Filename,
		LogDir:  dir,
		Start:   time.Now(),
	}

	l.Info("routecastd starting", slog.Time("start", l.Start))
	l.Info("system information",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))

	if bi, ok := debug.ReadBuildInfo(); ok {
		var deps []any
		for _, dep := range bi.Deps {
			deps = append(deps, slog.String(dep.Path, dep.Version))
		}
		l.Info("build", slog.String("go version", bi.GoVersion), slog.Group("dependencies", deps...))
	}

	return l
}

// Debug wraps slog.Debug to attach call stack information. As with the
// rest of the Logger methods below, a nil *Logger is safe to call on
// (Debug/Info are silently dropped; Warn/Error still reach the default
// slog logger).
func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		args = append([]any{slog.Any("callstack", Callstack().Strings())}, args...)
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Debugf(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		l.Logger.Debug(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack().Strings()))
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		args = append([]any{slog.Any("callstack", Callstack().Strings())}, args...)
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		l.Logger.Info(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack().Strings()))
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	args = append([]any{slog.Any("callstack", Callstack().Strings())}, args...)
	if l == nil {
		slog.Warn(msg, args...)
	} else {
		l.Logger.Warn(msg, args...)
	}
}

func (l *Logger) Warnf(msg string, args ...any) {
	if l == nil {
		slog.Warn(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack().Strings()))
	} else {
		l.Logger.Warn(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack().Strings()))
	}
}

func (l *Logger) Error(msg string, args ...any) {
	args = append([]any{slog.Any("callstack", Callstack().Strings())}, args...)
	if l == nil {
		slog.Error(msg, args...)
	} else {
		l.Logger.Error(msg, args...)
	}
}

func (l *Logger) Errorf(msg string, args ...any) {
	if l == nil {
		slog.Error(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack().Strings()))
	} else {
		l.Logger.Error(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack().Strings()))
	}
}

// With returns a Logger scoped with the given slog attribute args, e.g.
// for attaching a per-request correlation id to every subsequent line.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:  l.Logger.With(args...),
		LogFile: l.LogFile,
		LogDir:  l.LogDir,
		Start:   l.Start,
	}
}

// CatchAndReportPanic recovers a panic in the calling goroutine, logs it
// with a stack trace, and returns the recovered value (nil if there was
// none). It recovers only when it is itself the deferred call
// (defer l.CatchAndReportPanic()), in which case the return value is
// discarded; called from inside another deferred function, its recover
// returns nil and it does nothing.
func (l *Logger) CatchAndReportPanic() any {
	err := recover()
	if err != nil {
		l.Errorf("panic recovered: %v\n%s", err, debug.Stack())
	}
	return err
}

///////////////////////////////////////////////////////////////////////////

// handler is an implementation of slog.Handler that sends log entries
// both to a JSON handler (logging to disk) and a text handler that
// prints warnings and errors to stderr.
type handler struct {
	json slog.Handler
	txt  slog.Handler
}

func newHandler(w *lumberjack.Logger, opts *slog.HandlerOptions) *handler {
	return &handler{
		json: slog.NewJSONHandler(w, opts),
		txt:  slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.json.Enabled(ctx, level) || h.txt.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, rec slog.Record) error {
	if h.txt.Enabled(ctx, rec.Level) {
		_ = h.txt.Handle(ctx, rec)
	}
	if h.json.Enabled(ctx, rec.Level) {
		return h.json.Handle(ctx, rec)
	}
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		json: h.json.WithAttrs(slices.Clone(attrs)),
		txt:  h.txt.WithAttrs(slices.Clone(attrs)),
	}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{
		json: h.json.WithGroup(name),
		txt:  h.txt.WithGroup(name),
	}
}

///////////////////////////////////////////////////////////////////////////

// AnyPointerSlice is like slog.Any but takes a slice of pointers; rather
// than logging the pointer values themselves, it logs the pointed-to
// values (going through LogValuer if the pointee implements it).
func AnyPointerSlice[T any](name string, ptrs []*T) slog.Attr {
	values := make([]any, len(ptrs))
	for i, ptr := range ptrs {
		if ptr == nil {
			values[i] = nil
			continue
		}
		if lv, ok := any(ptr).(slog.LogValuer); ok {
			v := lv.LogValue()
			if v.Kind() == slog.KindGroup {
				m := make(map[string]any)
				for _, attr := range v.Group() {
					m[attr.Key] = attr.Value.Any()
				}
				values[i] = m
			} else {
				values[i] = v.Any()
			}
		} else {
			values[i] = *ptr
		}
	}
	return slog.Any(name, values)
}
