package logger

import (
	"fmt"

	"github.com/kevin07696/billing-service/internal/domain/ports"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts *zap.Logger to the ports.Logger interface
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger builds a production or development zap logger
func NewZapLogger(level string, development bool) (*ZapLogger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &ZapLogger{logger: z}, nil
}

// Wrap adapts an existing zap logger (used in tests)
func Wrap(z *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: z}
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// Zap exposes the underlying zap logger for components that take it directly
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

func (l *ZapLogger) Info(msg string, fields ...ports.Field) {
	l.logger.Info(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Error(msg string, fields ...ports.Field) {
	l.logger.Error(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields ...ports.Field) {
	l.logger.Warn(msg, toZapFields(fields)...)
}

func (l *ZapLogger) Debug(msg string, fields ...ports.Field) {
	l.logger.Debug(msg, toZapFields(fields)...)
}

func toZapFields(fields []ports.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}
