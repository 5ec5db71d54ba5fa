// Package logger provides the process-wide structured logger. Calls made
// before InitLogger are dropped, so packages can log unconditionally.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/m3rciful/subbot/core/buildinfo"
	coreconfig "github.com/m3rciful/subbot/core/config"
)

var (
	initOnce sync.Once
	closeMu  sync.Mutex
	closed   bool

	sink    *asyncWriter
	files   []io.Closer
	level   slog.LevelVar
	sampler = newRatioSampler(1, 50)
	trace   bool

	// L is the base logger. It stays nil until InitLogger runs.
	L *slog.Logger
)

// settings is the logging part of the config after defaults are applied.
type settings struct {
	level    slog.Level
	format   logFormat
	keyOrder []string
	profile  string
	num, den int
	file     string
}

func settingsFrom(cfg *coreconfig.Config) settings {
	s := settings{
		level:    slog.LevelInfo,
		format:   formatJSON,
		keyOrder: append([]string(nil), defaultKeyOrder...),
		num:      1,
		den:      50,
	}
	if cfg == nil {
		return s
	}
	lc := cfg.Logging

	switch strings.ToLower(strings.TrimSpace(lc.Level)) {
	case "debug":
		s.level = slog.LevelDebug
	case "warn", "warning":
		s.level = slog.LevelWarn
	case "error":
		s.level = slog.LevelError
	}

	s.profile = strings.ToLower(cmpOr(strings.TrimSpace(lc.Profile), "prod"))
	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		s.format = formatKV
	case "json":
	default:
		if s.profile == "debug" || s.profile == "dev" {
			s.format = formatKV
		}
	}

	if order := splitList(lc.KeysOrder); len(order) > 0 && lc.KeysOrder != "default" {
		s.keyOrder = order
	}

	if ratio := strings.TrimSpace(lc.DebugSample); ratio != "" {
		num, den := parseRatio(ratio)
		switch {
		case num == 0 && den == 0:
			s.num, s.den = 0, 0
		case num > 0 && den > 0:
			s.num, s.den = num, den
		}
	}

	dir, name := strings.TrimSpace(lc.Dir), strings.TrimSpace(lc.BotFile)
	if dir != "" && name != "" {
		s.file = filepath.Join(dir, name)
	}
	return s
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cmpOr(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// InitLogger builds the global logger from cfg. Only the first call has effect.
func InitLogger(cfg *coreconfig.Config) error {
	var err error
	initOnce.Do(func() {
		s := settingsFrom(cfg)
		level.Set(s.level)
		sampler.Set(s.num, s.den)
		trace = truthy(os.Getenv("TRACE")) || truthy(os.Getenv("LOG_TRACE"))

		outputs := []io.Writer{os.Stdout}
		if s.file != "" {
			f, ferr := openLogFile(s.file)
			if ferr != nil {
				err = ferr
				return
			}
			outputs = append(outputs, f)
			files = append(files, f)
		}
		sink = newAsyncWriter(outputs, 64*1024)

		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &level,
			writer:   sink,
			format:   s.format,
			keyOrder: s.keyOrder,
		}))
		slog.SetDefault(L)

		Info(context.Background(), "app", "startup",
			slog.String("go_version", runtime.Version()),
			slog.String("build_version", buildinfo.Version),
			slog.String("build_commit", buildinfo.Commit),
			slog.String("build_time", buildinfo.Date),
			slog.String("cfg_profile", s.profile),
		)
	})
	return err
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: open log file: %w", err)
	}
	return f, nil
}

// Shutdown flushes pending lines and closes log files. Later calls are no-ops.
func Shutdown() error {
	closeMu.Lock()
	defer closeMu.Unlock()
	if closed {
		return nil
	}
	closed = true

	var errs []error
	if sink != nil {
		errs = append(errs, sink.Flush(), sink.Close())
	}
	for _, c := range files {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Background returns context.Background().
func Background() context.Context {
	return context.Background()
}

// LogEvent writes one record with event set. A nil logg falls back to the
// context logger and then to L.
func LogEvent(ctx context.Context, logg *slog.Logger, lvl slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, lvl, "", attrs...)
}

// Component returns L scoped to name, or nil before InitLogger.
func Component(name string) *slog.Logger {
	if L == nil {
		return nil
	}
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// Event logs at lvl under component.
func Event(ctx context.Context, component string, lvl slog.Level, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), lvl, event, attrs...)
}

func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// ShouldSampleDebug reports whether a high-volume debug event should be logged.
// TRACE=1 disables sampling.
func ShouldSampleDebug() bool {
	return trace || sampler.Allow()
}
