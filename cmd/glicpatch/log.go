package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/glicpatch/internal/config"
)

// newLogger writes human-readable logs to w and, when a log file is
// configured, JSON lines to that file as well.
func newLogger(cfg *config.Config, w io.Writer) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(cfg.Level())

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleConfig := encoderConfig
	consoleConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(zapcore.AddSync(w)), level),
	}

	if cfg.LogFile != "" {
		sink, _, err := zap.Open(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), sink, level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
