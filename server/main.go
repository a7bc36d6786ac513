// server previews the games directory in a browser: it rebuilds the index, then serves the directory over HTTP.
//
//	usage:
//	   server
//
// configured by the environment: see package config.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gitlab.com/efronlicht/gameindex/config"
	"gitlab.com/efronlicht/gameindex/gameindex"
	"gitlab.com/efronlicht/gameindex/observability/http/tracemw"
	"gitlab.com/efronlicht/gameindex/observability/logging"
	"gitlab.com/efronlicht/gameindex/observability/meta"
	"gitlab.com/efronlicht/gameindex/server/middleware"
	"gitlab.com/efronlicht/gameindex/server/static"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var start = time.Now()

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := Run(ctx, config.FromEnv()); err != nil {
		// Run has already stopped the logger.
		fmt.Fprintln(os.Stderr, "server:", err)
		cancel()
		os.Exit(1)
	}
}

// Run the server until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	ws := &zapcore.BufferedWriteSyncer{WS: os.Stderr, FlushInterval: time.Second}
	defer ws.Stop()
	logger := logging.New(ws, cfg.LogLevel)
	defer logger.Sync()

	m := meta.New("gameindex/server")
	logger = logger.With(zap.String("run_id", m.RunID))
	logger.Info("metadata dump", zap.Reflect("meta", m))

	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return fmt.Errorf("resolve base dir: %w", err)
	}
	if cfg.Preview.Regenerate {
		res, err := gameindex.Generate(dir, cfg.Rules, cfg.Page)
		if err != nil {
			return fmt.Errorf("regenerate index: %w", err)
		}
		logger.Info("wrote index", zap.String("path", res.Path), zap.Int("games", len(res.Games)))
	}
	metaJSON, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	server := http.Server{
		Addr:         fmt.Sprintf(":%04d", cfg.Preview.Port),
		Handler:      NewRouter(os.DirFS(dir), cfg.Rules.HiddenPrefix, metaJSON, logger),
		ReadTimeout:  cfg.Preview.ReadTimeout,
		WriteTimeout: cfg.Preview.WriteTimeout,
		IdleTimeout:  cfg.Preview.IdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
		ErrorLog:     zap.NewStdLog(logger),
	}
	logger.Sugar().Infof("took %s to start", time.Since(start))
	logger.Info("serving http", zap.String("addr", server.Addr), zap.String("dir", dir))

	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe() }()
	select {
	case err := <-errc: // couldn't listen: port in use, etc.
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done(): // ctrl+c
	}
	logger.Debug("shutting down server", zap.NamedError("cause", ctx.Err()), zap.Duration("timeout", 2*time.Second))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("successful shutdown")
	return nil
}

// NewRouter serves the games in fsys, plus a couple of debug routes.
// Paths under hiddenPrefix are 404s, same as the index leaves them out.
// There are only a handful of routes, so we match them ourselves.
func NewRouter(fsys fs.FS, hiddenPrefix string, metaJSON []byte, logger *zap.Logger) http.Handler {
	files := middleware.WriteGzip(static.Handler(fsys, hiddenPrefix, logger))
	var router http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimSuffix(r.URL.Path, "/")
		switch {
		case r.Method != http.MethodGet && r.Method != http.MethodHead:
			w.Header().Set("Allow", "GET, HEAD")
			w.WriteHeader(http.StatusMethodNotAllowed)
		case p == "/debug/uptime":
			elapsed := time.Since(start)
			_, _ = fmt.Fprintf(w, "%3vh %02vm %02vs", math.Floor(elapsed.Hours()), math.Floor(math.Mod(elapsed.Minutes(), 60)), math.Floor(math.Mod(elapsed.Seconds(), 60)))
		case p == "/debug/meta":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(metaJSON)
		case p == "":
			http.Redirect(w, r, "./"+gameindex.IndexName, http.StatusTemporaryRedirect)
		default:
			// the whole point of a preview is to see changes as they're made.
			w.Header().Set("Cache-Control", "no-cache")
			files.ServeHTTP(w, r)
		}
	})
	// middleware executes Last-In, First-Out.
	router = tracemw.Server(router, logger)
	return router
}
