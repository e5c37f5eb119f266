// Package logging builds the service logger. Structured log records flow
// through a zap sink so the output format matches the rest of the
// platform.
package logging

import (
	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the service logger backed by zap.
func New(level string, pretty bool) (ectologger.Logger, func(), error) {
	var zcfg zap.Config
	if pretty {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	zlog, err := zcfg.Build(zap.WithCaller(false))
	if err != nil {
		return nil, nil, err
	}

	logger := ectologger.NewEctoLogger(func(m ectologger.EctoLogMessage) {
		zlog.Info("log", zap.Any("record", m))
	})

	flush := func() {
		_ = zlog.Sync()
	}
	return logger, flush, nil
}
