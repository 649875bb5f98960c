// Package logger holds the process-wide structured logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger. It is a no-op until Initialize is called, so
// library packages can log unconditionally.
var Logger = zap.NewNop().Sugar()

// Verbosity levels counted from -v flags.
const (
	VerbosityQuiet = 0 // warnings and errors
	VerbosityInfo  = 1 // -v: + per-package progress
	VerbosityDebug = 2 // -vv: + per-declaration details
)

// VerbosityToLevel maps a -v count to a zap level.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityQuiet:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Initialize replaces the global logger. Console output goes to stderr so
// generated source written to stdout stays clean.
func Initialize(verbosity int, jsonOutput bool) error {
	level := zap.NewAtomicLevelAt(VerbosityToLevel(verbosity))

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = level
		config.OutputPaths = []string{"stderr"}

		zapLogger, err := config.Build()
		if err != nil {
			return err
		}

		Logger = zapLogger.Sugar()

		return nil
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	Logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)).Sugar()

	return nil
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	_ = Logger.Sync()
}
