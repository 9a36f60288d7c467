package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface used across the service.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

type logger struct {
	zap *zap.Logger
}

func (l logger) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }
func (l logger) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l logger) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l logger) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }
func (l logger) Sync() error                       { return l.zap.Sync() }

func (l logger) With(fields ...Field) Logger {
	return logger{zap: l.zap.With(fields...)}
}

// New builds a zap-backed logger tagged with the given namespace.
// Production mode switches to JSON output.
func New(namespace, level string, production bool) Logger {
	cfg := zap.NewDevelopmentConfig()
	if production {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.InitialFields = map[string]interface{}{
		"namespace": namespace,
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	z, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger{zap: z}
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() Logger {
	return logger{zap: zap.NewNop()}
}
