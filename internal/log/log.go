// Package log provides structured application logging backed by slog.
// Records are queued and written by a single goroutine to a rotating log file.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"learnmap/local-app/internal/model"
)

// Fields carries structured attributes attached to a log record
type Fields map[string]interface{}

// logMessage represents a message waiting to be written
type logMessage struct {
	level   LogLevel
	content string
	fields  Fields
	ctx     context.Context
}

// Logger writes JSON log records asynchronously
type Logger struct {
	slogger *slog.Logger
	closer  io.Closer
	level   LogLevel
	logChan chan logMessage
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewLogger creates a Logger writing to the rotating file configured in cfg
func NewLogger(cfg *model.Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(cfg.Log.Folder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	writer := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Log.Folder, cfg.Log.File),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	}

	return newLogger(writer, writer, level), nil
}

// NewWriterLogger creates a Logger writing to w. The caller owns w.
func NewWriterLogger(w io.Writer, level LogLevel) *Logger {
	return newLogger(w, nil, level)
}

// Discard returns a Logger that drops every record
func Discard() *Logger {
	return newLogger(io.Discard, nil, LevelError)
}

func newLogger(w io.Writer, closer io.Closer, level LogLevel) *Logger {
	l := &Logger{
		slogger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level.toSlogLevel(),
		})),
		closer:  closer,
		level:   level,
		logChan: make(chan logMessage, 100),
	}

	l.wg.Add(1)
	go l.processLogs()

	return l
}

// processLogs writes queued messages until the channel is closed
func (l *Logger) processLogs() {
	defer l.wg.Done()
	for msg := range l.logChan {
		l.slogger.Log(msg.ctx, msg.level.toSlogLevel(), msg.content, attrs(msg.fields)...)
	}
}

func attrs(fields Fields) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(fields))
	for _, k := range keys {
		v := fields[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out = append(out, slog.Any(k, v))
	}
	return out
}

func (l *Logger) log(ctx context.Context, level LogLevel, msg string, fields Fields) {
	if l == nil || level < l.level {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	l.logChan <- logMessage{level: level, content: msg, fields: fields, ctx: ctx}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(ctx, LevelDebug, msg, fields)
}

func (l *Logger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(ctx, LevelInfo, msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(ctx, LevelWarn, msg, fields)
}

func (l *Logger) Error(ctx context.Context, msg string, fields Fields) {
	l.log(ctx, LevelError, msg, fields)
}

// Command records a command entered in the shell
func (l *Logger) Command(ctx context.Context, command string) {
	l.log(ctx, LevelInfo, "Command", Fields{"command": command})
}

// Close stops the logging goroutine after draining queued records and closes the output
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.logChan)
	l.mu.Unlock()

	l.wg.Wait()

	if l.closer != nil {
		if err := l.closer.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
	}
	return nil
}
