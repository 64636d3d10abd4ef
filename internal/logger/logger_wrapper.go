package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/leandrodaf/cs9236/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is an implementation of contracts.Logger backed by Uber's zap.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
	config zap.Config
}

// NewZapLogger creates a production zap logger writing to standard error.
func NewZapLogger() contracts.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCallerSkip(2))
	if err != nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger, level: config.Level, config: config}
}

// NewFromZap wraps an existing zap logger. Level filtering is applied on top
// of whatever the core of l already enforces.
func NewFromZap(l *zap.Logger) contracts.Logger {
	return &ZapLogger{
		logger: l,
		level:  zap.NewAtomicLevelAt(zapcore.DebugLevel),
		config: zap.NewProductionConfig(),
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() contracts.Logger {
	return NewFromZap(zap.NewNop())
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.log(zapcore.InfoLevel, msg, fields...)
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.log(zapcore.ErrorLevel, msg, fields...)
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.log(zapcore.DebugLevel, msg, fields...)
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.log(zapcore.WarnLevel, msg, fields...)
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.log(zapcore.FatalLevel, msg, fields...)
	os.Exit(1)
}

// Field returns a new field builder.
func (z *ZapLogger) Field() contracts.Field {
	return zapField{}
}

// SetLevel sets the logging level
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(toZapLevel(level))
}

// SetDestination rebuilds the underlying logger so it writes to dest.
// FileLog requires a file path. On failure the current destination is kept.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) {
	config := z.config
	config.Level = z.level

	switch dest {
	case contracts.FileLog:
		if len(filePath) == 0 || filePath[0] == "" {
			z.Warn("file log destination requested without a path")
			return
		}
		config.OutputPaths = []string{filePath[0]}
	default:
		config.OutputPaths = []string{"stderr"}
	}

	logger, err := config.Build(zap.AddCallerSkip(2))
	if err != nil {
		z.Error("failed to change log destination", z.Field().Error("error", err))
		return
	}
	_ = z.logger.Sync()
	z.logger = logger
	z.config = config
}

func (z *ZapLogger) log(level zapcore.Level, msg string, fields ...contracts.Field) {
	if !z.level.Enabled(level) {
		return
	}
	if ce := z.logger.Check(level, msg); ce != nil {
		ce.Write(toZapFields(fields)...)
	}
}

func toZapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	case contracts.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(zapField); ok {
			out = append(out, f.field)
		}
	}
	return out
}

// hexBytes defers formatting until zap encodes the entry.
type hexBytes []byte

func (h hexBytes) String() string {
	return fmt.Sprintf("% X", []byte(h))
}

// zapField implements contracts.Field
type zapField struct {
	field zap.Field
}

func (f zapField) Bool(key string, val bool) contracts.Field {
	return zapField{zap.Bool(key, val)}
}

func (f zapField) Int(key string, val int) contracts.Field {
	return zapField{zap.Int(key, val)}
}

func (f zapField) String(key string, val string) contracts.Field {
	return zapField{zap.String(key, val)}
}

func (f zapField) Duration(key string, val time.Duration) contracts.Field {
	return zapField{zap.Duration(key, val)}
}

func (f zapField) Error(key string, val error) contracts.Field {
	return zapField{zap.NamedError(key, val)}
}

func (f zapField) Uint8(key string, val uint8) contracts.Field {
	return zapField{zap.Uint8(key, val)}
}

func (f zapField) Uint16(key string, val uint16) contracts.Field {
	return zapField{zap.Uint16(key, val)}
}

func (f zapField) Hex(key string, val []byte) contracts.Field {
	return zapField{zap.Stringer(key, hexBytes(val))}
}
