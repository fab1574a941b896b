package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

var (
	String     = zap.String
	Int        = zap.Int
	Int32      = zap.Int32
	Float64    = zap.Float64
	Bool       = zap.Bool
	Duration   = zap.Duration
	Any        = zap.Any
	Strings    = zap.Strings
	ErrorField = zap.Error

	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
)

type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

var (
	std   = New(os.Stderr, InfoLevel)
	stdMu sync.RWMutex
)

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

// New creates a logger producing JSON output
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	return newLogger(zapcore.NewJSONEncoder(cfg), writer, level, opts...)
}

// DevLogger creates a logger producing human readable console output
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return newLogger(zapcore.NewConsoleEncoder(cfg), writer, level, opts...)
}

func newLogger(enc zapcore.Encoder, writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	al := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(enc, zapcore.AddSync(writer), al)
	return &Logger{l: zap.New(core, opts...), level: al}
}

// WithFilter restricts output by logger name using zapfilter rules,
// e.g. "info+:* debug+:optimize".
// The current logger is returned unchanged if rules cannot be parsed.
func (l *Logger) WithFilter(rules string) (*Logger, error) {
	if rules == "" {
		return l, nil
	}
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return l, err
	}
	filtered := l.l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapfilter.NewFilteringCore(c, filter)
	}))
	return &Logger{l: filtered, level: l.level}, nil
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

func (l *Logger) Level() Level {
	return l.level.Level()
}

func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.l.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.l.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.l.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.l.Error(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.l.Fatal(msg, fields...)
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

// Default returns the process wide logger
func Default() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// ResetDefault replaces the process wide logger.
// Loggers obtained by Named before this call keep their old configuration.
func ResetDefault(l *Logger) {
	stdMu.Lock()
	defer stdMu.Unlock()
	std = l
}

func Debug(msg string, fields ...Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { Default().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { Default().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { Default().Fatal(msg, fields...) }

func Sync() error {
	return Default().Sync()
}
