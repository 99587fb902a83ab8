package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NOOPLogger discards everything. Used as the default when no logger is wired.
var NOOPLogger = zap.NewNop()

type Options struct {
	AppEnv string
	Level  string
}

// New builds a JSON production logger, or a console logger when running
// locally. An unknown level falls back to info.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(opts.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	local := isLocal(opts.AppEnv)
	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      local,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if local {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return zc.Build()
}

func isLocal(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "" || env == "local" || env == "dev" || env == "development"
}
