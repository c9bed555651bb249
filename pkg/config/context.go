package config

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

// DefaultLogger can be set to whichever log factory function you want to use.
// This is the logger used by LoggerFrom() when no logger is found in the given
// context. This defaults to ProductionLogger.
var DefaultLogger = ProductionLogger

// encoderConfig is shared by the logger factories.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		NameKey:        "logger",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.EpochTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// ProductionLogger works like zap.NewProduction(), but should always return a
// configured logger and no error. It writes JSON to stderr.
func ProductionLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
	return zap.New(core, zap.AddCaller())
}

// DevelopmentLogger writes human readable lines to stdout. This is the logger
// used for verbose runs, where the log is the progress report.
func DevelopmentLogger() *zap.Logger {
	encoderCfg := encoderConfig()
	encoderCfg.TimeKey = zapcore.OmitKey
	encoderCfg.CallerKey = zapcore.OmitKey
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// LoggerFor picks the logger for a run. Verbose runs report each step on
// stdout. Otherwise, only warnings and errors are logged, to stderr.
func LoggerFor(verbose bool) *zap.Logger {
	if verbose {
		return DevelopmentLogger().WithOptions(
			zap.IncreaseLevel(zapcore.InfoLevel),
		)
	}

	return DefaultLogger().WithOptions(
		zap.IncreaseLevel(zapcore.WarnLevel),
	)
}

// WithLogger puts the given logger into the given context and returns the
// modified context.
func WithLogger(p context.Context, log *zap.Logger) context.Context {
	return context.WithValue(p, loggerKey{}, log)
}

// LoggerFrom returns the *zap.Logger for the given context. If no logger has
// been attached to that context, it will return the DefaultLogger(). So long as
// DefaultLogger() is guaranteed to return a non-nil result, this function is
// also guaranteed to return a result.
func LoggerFrom(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*zap.Logger)
	if !ok {
		logger = DefaultLogger()
	}
	return logger
}
