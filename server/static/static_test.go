package static_test

import (
	"io/fs"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"gitlab.com/efronlicht/gameindex/observability/trace"
	"gitlab.com/efronlicht/gameindex/server/static"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var games = fstest.MapFS{
	"index.html":          {Data: []byte("<h1>index</h1>")},
	"styles.css":          {Data: []byte("body{}")},
	"about.html":          {Data: []byte("about")},
	"snake-GG/index.html": {Data: []byte("snake")},
	"snake-GG/script.js":  {Data: []byte("class Snake {}")},
	"empty-GG/README.md":  {Data: []byte("wip")},
	".git/config":         {Data: []byte("[core]")},
	".env":                {Data: []byte("SECRET=1")},
}

func TestServeFile(t *testing.T) {
	t.Parallel()
	h := static.Handler(games, ".", zap.NewNop())
	for _, tt := range []struct {
		path     string
		status   int
		body     string
		location string
	}{
		{path: "/index.html", status: 200, body: "<h1>index</h1>"},
		{path: "/styles.css", status: 200, body: "body{}"},
		{path: "/snake-GG/", status: 200, body: "snake"},
		{path: "/snake-GG/index.html", status: 200, body: "snake"},
		{path: "/snake-GG/script.js", status: 200, body: "class Snake {}"},
		{path: "/snake-GG", status: 301, location: "/snake-GG/"},
		{path: "/about", status: 308, location: "/about.html"},
		{path: "/empty-GG/", status: 404},
		{path: "/missing-GG/", status: 404},
		{path: "/.git/config", status: 404},
		{path: "/.env", status: 404},
		{path: "/snake-GG/../.env", status: 404},
	} {
		t.Run(tt.path, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			if w.Code != tt.status {
				t.Fatalf("GET %s: status %d, want %d", tt.path, w.Code, tt.status)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("GET %s: body %q, want %q", tt.path, w.Body.String(), tt.body)
			}
			if tt.location != "" {
				if got := w.Header().Get("Location"); got != tt.location {
					t.Errorf("GET %s: Location %q, want %q", tt.path, got, tt.location)
				}
			}
		})
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	static.Handler(games, ".", zap.NewNop()).ServeHTTP(w, httptest.NewRequest("GET", "/styles.css", nil))
	if got := w.Header().Get("Content-Type"); got != "text/css; charset=utf-8" {
		t.Fatalf("Content-Type = %q", got)
	}
}

func TestCustomHiddenPrefix(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"_drafts-GG/index.html": {Data: []byte("draft")},
		"snake-GG/index.html":   {Data: []byte("snake")},
		".env":                  {Data: []byte("SECRET=1")},
	}
	h := static.Handler(fsys, "_", zap.NewNop())
	for path, want := range map[string]int{
		"/_drafts-GG/": 404, // left off the index, so not served either
		"/.env":        404, // dotfiles stay hidden whatever the prefix
		"/snake-GG/":   200,
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != want {
			t.Errorf("GET %s: status %d, want %d", path, w.Code, want)
		}
	}
}

// unseekableFS serves files that can only be read front to back.
type unseekableFS struct{ fstest.MapFS }

func (u unseekableFS) Open(name string) (fs.File, error) {
	f, err := u.MapFS.Open(name)
	if err != nil {
		return nil, err
	}
	return struct{ fs.File }{f}, nil
}

func TestErrorsLogTrace(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	h := static.Handler(unseekableFS{games}, ".", zap.New(core))
	trc := trace.New().Next()
	r := httptest.NewRequest("GET", "/styles.css", nil)
	r = r.WithContext(trace.SaveCtx(r.Context(), trc))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != 500 {
		t.Fatalf("status %d, want 500", w.Code)
	}
	entries := logs.FilterMessage("file is not seekable").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["trace_id"]; got != trc.TraceID.String() {
		t.Fatalf("trace_id = %v, want %s", got, trc.TraceID)
	}
}
