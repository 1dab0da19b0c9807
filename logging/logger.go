package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New. Without File or Output, logs go to stderr.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Output overrides the destination; used by tests.
	Output io.Writer
}

// Logger pairs a zap logger with the level it can be adjusted through.
type Logger struct {
	*zap.Logger
	level  zap.AtomicLevel
	closer io.Closer
}

// New builds a JSON logger writing to a rotating file when File is set, and a
// console logger on stderr otherwise.
func New(opts Options) *Logger {
	level := zap.NewAtomicLevelAt(ParseLevel(opts.Level))

	var (
		sink    zapcore.WriteSyncer
		encoder zapcore.Encoder
		closer  io.Closer
	)
	switch {
	case opts.Output != nil:
		sink = zapcore.AddSync(opts.Output)
		encoder = zapcore.NewJSONEncoder(encoderConfig())
	case opts.File != "":
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 100),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Compress:   true,
		}
		sink = zapcore.AddSync(rotator)
		encoder = zapcore.NewJSONEncoder(encoderConfig())
		closer = rotator
	default:
		sink = zapcore.Lock(os.Stderr)
		cfg := encoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return &Logger{
		Logger: zap.New(core, zap.AddCaller()),
		level:  level,
		closer: closer,
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// SetLevel changes the level of every logger derived from l.
func (l *Logger) SetLevel(level string) {
	l.level.SetLevel(ParseLevel(level))
}

func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// ParseLevel converts a string level to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
