// Package static serves the games directory: the generated index, the shared stylesheet, and each game's files.
package static

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"gitlab.com/efronlicht/gameindex/observability/trace"
	"go.uber.org/zap"
)

// Handler serves files from fsys.
//   - "dir/" serves dir/index.html; "dir" redirects to "dir/"
//   - "page" redirects to "page.html" when only the latter exists: they forgot to add .html
//   - anything with a path element starting with "." or hiddenPrefix is a 404, matching what the index leaves out
//
// Directory listings are never served.
func Handler(fsys fs.FS, hiddenPrefix string, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ServeFile(w, r, fsys, hiddenPrefix, logger) })
}

func ServeFile(w http.ResponseWriter, r *http.Request, fsys fs.FS, hiddenPrefix string, logger *zap.Logger) {
	name := strings.Trim(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "."
	}
	if hidden(name, hiddenPrefix) || !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}
	fi, err := fs.Stat(fsys, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if fi, err := fs.Stat(fsys, name+".html"); err == nil && !fi.IsDir() {
			http.Redirect(w, r, "./"+path.Base(name)+".html", http.StatusPermanentRedirect)
			return
		}
		http.NotFound(w, r)
		return
	case err != nil:
		withTrace(logger, r).Error("stat failed", zap.Error(err), zap.String("file", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	case fi.IsDir() && name != "." && !strings.HasSuffix(r.URL.Path, "/"):
		// relative links on the game's page only resolve against "dir/".
		http.Redirect(w, r, "./"+path.Base(name)+"/", http.StatusMovedPermanently)
		return
	case fi.IsDir():
		name = path.Join(name, "index.html")
	}
	f, err := fsys.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	fi, err = f.Stat()
	if err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		withTrace(logger, r).Error("file is not seekable", zap.String("file", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), rs)
}

// withTrace tags logger with the request's trace, if it has one.
func withTrace(logger *zap.Logger, r *http.Request) *zap.Logger {
	t, ok := trace.FromCtx(r.Context())
	if !ok {
		return logger
	}
	return logger.With(zap.Stringer("trace_id", t.TraceID), zap.Stringers("request_id", t.RequestIDs))
}

// hidden reports whether any element of the slash-separated name starts with a dot or prefix.
func hidden(name, prefix string) bool {
	for _, elem := range strings.Split(name, "/") {
		if elem == "." {
			continue
		}
		if strings.HasPrefix(elem, ".") || (prefix != "" && strings.HasPrefix(elem, prefix)) {
			return true
		}
	}
	return false
}
