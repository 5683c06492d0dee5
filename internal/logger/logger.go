// Package logger provides process-wide logging for reportdraft.
// Debug and info messages are printed only in verbose mode; warnings and
// errors are always printed. An optional rotated JSON log file receives
// every message at info level and above, or debug when verbose.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	rotator *lumberjack.Logger
	base    = build()
)

// build assembles the zap logger from the current settings. Caller holds mu.
func build() *zap.Logger {
	consoleLevel := zap.WarnLevel
	fileLevel := zap.InfoLevel
	if verbose {
		consoleLevel = zap.DebugLevel
		fileLevel = zap.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(output)),
			consoleLevel,
		),
	}

	if rotator != nil {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.MessageKey = "message"
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(rotator),
			fileLevel,
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// consoleEncoderConfig prints "[LEVEL] message" with no timestamp or caller.
func consoleEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "message",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + l.CapitalString() + "]")
		},
	}
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the console writer.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build()
}

// SetLogFile mirrors every message to a rotated JSON log file.
// An empty path stops file logging.
func SetLogFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if rotator != nil {
		if err := rotator.Close(); err != nil {
			return fmt.Errorf("close log file: %w", err)
		}
		rotator = nil
	}
	if path != "" {
		rotator = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // Megabytes
			MaxBackups: 5,
			MaxAge:     30, // Days
			Compress:   true,
		}
	}
	base = build()
	return nil
}

// Sync flushes buffered file output.
func Sync() error {
	return current().Sync()
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	current().Debug(fmt.Sprintf(format, args...))
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	current().Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	current().Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func Error(format string, args ...any) {
	current().Error(fmt.Sprintf(format, args...))
}
