// internal/logger/logger.go
//
// Structured logger (Zap + Lumberjack).
//
// Context
// -------
// stdout carries the generated mappings, so operator messages go to stderr
// through a console core.  The console shows warnings and errors only,
// unless Verbose lowers it to debug.  When a log file is configured, events
// at or above Level are also written there as JSON, rotated and compressed
// by Lumberjack.  Silent mode drops the console core entirely; the file
// core, if any, keeps recording.
//
// Usage
// -----
//
//	log, err := logger.New(logger.Options{Level: "info", File: path})
//	if err != nil { ... }
//	log.Infow("mappings generated", "count", n)
//
// Notes
// -----
// - ISO-8601 timestamps and lowercase levels in both encoders.
// - The logger is installed globally via zap.ReplaceGlobals so packages
//   that log through zap.S() share it.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	Level   string    // file level: debug, info, warn, error; empty means info
	File    string    // optional JSON log file
	Verbose bool      // console at debug instead of warn
	Silent  bool      // suppress console output
	Stderr  io.Writer // console sink; nil means os.Stderr
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// New returns a *zap.SugaredLogger built from opts and installs it as the
// process-wide default.
func New(opts Options) (*zap.SugaredLogger, error) {
	level := ParseLevel(opts.Level)
	consoleLevel := zapcore.WarnLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}
	encCfg := encoderConfig()

	var cores []zapcore.Core

	if !opts.Silent {
		sink := opts.Stderr
		if sink == nil {
			sink = os.Stderr
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(sink),
			consoleLevel,
		))
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, err
		}
		fileSink := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(fileSink),
			level,
		))
	}

	z := zap.New(zapcore.NewTee(cores...)).Sugar()
	zap.ReplaceGlobals(z.Desugar())

	z.Debugw("logger online", "level", level.String(), "file", opts.File, "verbose", opts.Verbose)
	return z, nil
}
