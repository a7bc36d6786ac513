// Package logging sets up the zap logger shared by the gameindex tools.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a human-readable console logger writing to ws at level and above, installs it as zap's global logger,
// and sends the standard library's log package through it too.
// The returned logger should be Sync()ed before exit.
func New(ws zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), ws, level))
	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(logger)
	return logger
}
