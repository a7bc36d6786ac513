// buildindex writes index.html into the games directory, linking to every game in it.
//
//	usage:
//	   buildindex
//
// the games directory is the working directory unless GAMEINDEX_DIR says otherwise: see package config.
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
	m := meta.New("gameindex/buildindex")
	logger = logger.With(zap.String("run_id", m.RunID))
	logger.Debug("metadata dump", zap.Reflect("meta", m))

	res, err := gameindex.Generate(cfg.Dir, cfg.Rules, cfg.Page)
	if err != nil {
		logger.Fatal("generate index", zap.String("dir", cfg.Dir), zap.Error(err))
	}
	for _, g := range res.Games {
		logger.Debug("linked game", zap.String("slug", g.Slug), zap.String("label", g.DisplayName()))
	}
	logger.Info("wrote index", zap.String("path", res.Path), zap.Int("games", len(res.Games)), zap.Int("bytes", res.Size))
}
