package logger

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new structured logger
func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Always log to stdout for container compatibility
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	if env == "production" {
		config.Encoding = "json"
	}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// NewWithDefaults creates a logger with default settings
func NewWithDefaults() *zap.Logger {
	env := os.Getenv("SERVER_ENV")
	if env == "" {
		env = "development"
	}

	logger, err := New(env)
	if err != nil {
		// Fallback to basic logger
		logger, _ = zap.NewProduction()
	}

	return logger
}

// PgxTraceLogger routes pgx query tracing into the given zap logger
func PgxTraceLogger(logger *zap.Logger) tracelog.Logger {
	sqlLogger := logger.Named("sql").WithOptions(zap.AddCallerSkip(1))

	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		fields := make([]zap.Field, 0, len(data))
		for k, v := range data {
			fields = append(fields, zap.Any(k, v))
		}

		switch level {
		case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
			sqlLogger.Debug(msg, fields...)
		case tracelog.LogLevelInfo:
			sqlLogger.Info(msg, fields...)
		case tracelog.LogLevelWarn:
			sqlLogger.Warn(msg, fields...)
		case tracelog.LogLevelError:
			sqlLogger.Error(msg, fields...)
		default:
			sqlLogger.Info(msg, append(fields, zap.Stringer("pgx_level", level))...)
		}
	})
}

// PgxTraceLevel maps the service environment onto how chatty pgx tracing is
func PgxTraceLevel(env string) tracelog.LogLevel {
	if env == "production" {
		return tracelog.LogLevelWarn
	}
	return tracelog.LogLevelDebug
}
