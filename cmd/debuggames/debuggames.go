// debuggames prints what buildindex sees in the games directory: every directory, whether its name has the
// separator, whether it's hidden, and so whether it makes it onto the index.
//
//	usage:
//	   debuggames
//
// the table goes to stdout; logs go to stderr.
package main

import (
	"os"

	"gitlab.com/efronlicht/gameindex/config"
	"gitlab.com/efronlicht/gameindex/gameindex"
	"gitlab.com/efronlicht/gameindex/observability/logging"
	"gitlab.com/efronlicht/gameindex/observability/meta"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(zapcore.Lock(os.Stderr), cfg.LogLevel)
	defer logger.Sync()
	m := meta.New("gameindex/debuggames")
	logger = logger.With(zap.String("run_id", m.RunID))
	logger.Debug("metadata dump", zap.Reflect("meta", m))

	rep, err := gameindex.Diagnose(cfg.Dir, cfg.Rules)
	if err != nil {
		logger.Fatal("diagnose", zap.String("dir", cfg.Dir), zap.Error(err))
	}
	if err := rep.Print(os.Stdout); err != nil {
		logger.Fatal("print report", zap.Error(err))
	}
	logger.Debug("done", zap.Int("entries", rep.Entries), zap.Int("dirs", len(rep.Dirs)), zap.Int("qualified", rep.Qualified()))
}
