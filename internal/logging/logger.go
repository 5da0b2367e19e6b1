package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger. Request-scoped code should
// derive from it with WithRequestID rather than logging through it directly.
var Logger *zap.Logger

// Init builds the production JSON logger at the given level ("debug",
// "info", "warn", "error"). Falls back to info on an unknown level.
func Init(level string) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}

// WithRequestID returns a child logger carrying the request's correlation ID.
func WithRequestID(requestID string) *zap.Logger {
	return Logger.With(zap.String("requestId", requestID))
}
