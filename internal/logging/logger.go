package logging

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"job-research/internal/logging/types"
)

// sink holds the state shared by a root logger and every child derived from it
type sink struct {
	mu       sync.RWMutex
	level    LogLevel
	adapters map[string]types.LogAdapter
	order    []string
}

// MultiLogger fans each entry out to all registered adapters
type MultiLogger struct {
	sink   *sink
	fields map[string]interface{}
}

// NewMultiLogger returns a logger at info level with no adapters
func NewMultiLogger() *MultiLogger {
	return &MultiLogger{
		sink: &sink{
			level:    InfoLevel,
			adapters: make(map[string]types.LogAdapter),
		},
	}
}

// NewNopLogger returns a logger without adapters. Entries are dropped.
func NewNopLogger() *MultiLogger {
	return NewMultiLogger()
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.emit(DebugLevel, message, fields)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.emit(InfoLevel, message, fields)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.emit(WarnLevel, message, fields)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.emit(ErrorLevel, message, fields)
}

// Fatal writes the entry, flushes adapters and exits the process
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.emit(FatalLevel, message, fields)
	_ = l.Close()
	os.Exit(1)
}

func (l *MultiLogger) emit(level LogLevel, message string, extra []map[string]interface{}) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	if level < l.sink.level || len(l.sink.adapters) == 0 {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Fields:    l.merged(extra...),
	}
	for _, name := range l.sink.order {
		if err := l.sink.adapters[name].Write(entry); err != nil {
			// stderr, not the logger itself, or a broken adapter would recurse
			fmt.Fprintf(os.Stderr, "logging adapter %s: %v\n", name, err)
		}
	}
}

// WithField returns a child logger that adds key=value to every entry
func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child logger that adds fields to every entry.
// The child shares level and adapters with its parent.
func (l *MultiLogger) WithFields(fields map[string]interface{}) Logger {
	return &MultiLogger{sink: l.sink, fields: l.merged(fields)}
}

func (l *MultiLogger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	l.sink.level = level
	l.sink.mu.Unlock()
}

func (l *MultiLogger) GetLevel() LogLevel {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	return l.sink.level
}

// AddAdapter registers adapter under its name. Names must be unique.
func (l *MultiLogger) AddAdapter(adapter types.LogAdapter) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	name := adapter.Name()
	if _, dup := l.sink.adapters[name]; dup {
		return fmt.Errorf("adapter %s already exists", name)
	}
	l.sink.adapters[name] = adapter
	l.sink.order = append(l.sink.order, name)
	return nil
}

// Close closes every adapter and detaches them, so later entries are dropped
func (l *MultiLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	var errs []error
	for _, name := range l.sink.order {
		if err := l.sink.adapters[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("adapter %s: %w", name, err))
		}
	}
	l.sink.adapters = make(map[string]types.LogAdapter)
	l.sink.order = nil

	if len(errs) > 0 {
		return fmt.Errorf("failed to close adapters: %w", errors.Join(errs...))
	}
	return nil
}

// merged layers the extra maps over the bound fields without touching either
func (l *MultiLogger) merged(extra ...map[string]interface{}) map[string]interface{} {
	size := len(l.fields)
	for _, m := range extra {
		size += len(m)
	}
	out := make(map[string]interface{}, size)
	for k, v := range l.fields {
		out[k] = v
	}
	for _, m := range extra {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// ParseLogLevel maps a config level name to a LogLevel, defaulting to info
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
