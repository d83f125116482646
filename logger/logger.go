package logger

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger is the minimal logging interface used across the application.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields carries structured log fields.
type Fields map[string]any

// Log is the global logger instance. It works at info level even when
// InitFromEnv is never called.
var Log Logger = NewLogger("info")

// runID correlates every log line of one batch run.
var runID = uuid.NewString()

// RunID returns the correlation id of the current run.
func RunID() string {
	return runID
}

// InitFromEnv reads the log level from the given environment variable and
// reinitializes the global logger. Empty or unknown values fall back to info.
func InitFromEnv(envKey string) {
	level := strings.ToLower(os.Getenv(envKey))
	if level == "" {
		level = "info"
	}
	Init(level)
}

// Init reinitializes the global logger at the given level.
func Init(level string) {
	Log = NewLogger(level)
}

// NewLogger builds a gookit/slog console logger at the given level.
func NewLogger(level string) Logger {
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	formatter := slog.NewTextFormatter()
	formatter.TimeFormat = "2006-01-02T15:04:05"
	h.SetFormatter(formatter)

	logger := slog.NewWithHandlers(h)
	return logger
}

func withRunID(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["run_id"]; !ok {
		fields["run_id"] = runID
	}
	return fields
}

// InfoWithFields logs msg with structured fields plus the run_id.
func InfoWithFields(msg string, fields Fields) {
	fields = withRunID(fields)
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(fields)).Info(msg)
		return
	}
	Log.Info(msg)
}

func DebugWithFields(msg string, fields Fields) {
	fields = withRunID(fields)
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(fields)).Debug(msg)
		return
	}
	Log.Debug(msg)
}

func WarnWithFields(msg string, fields Fields) {
	fields = withRunID(fields)
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(fields)).Warn(msg)
		return
	}
	Log.Warn(msg)
}

func ErrorWithFields(msg string, fields Fields) {
	fields = withRunID(fields)
	if lg, ok := Log.(*slog.Logger); ok {
		lg.WithFields(slog.M(fields)).Error(msg)
		return
	}
	Log.Error(msg)
}
