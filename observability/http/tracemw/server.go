// Package tracemw logs and traces requests to the preview server.
package tracemw

import (
	"bytes"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"gitlab.com/efronlicht/gameindex/observability/trace"
	"go.uber.org/zap"
)

var bufpool = sync.Pool{New: func() any { return bytes.NewBuffer(make([]byte, 0, 256)) }}

// headers we never log.
var excludeHeaders = map[string]bool{
	http.CanonicalHeaderKey("Authorization"): true,
	http.CanonicalHeaderKey("Cookie"):        true,
}

// Server wraps h so that every request
//   - continues the trace in its headers, or starts a new one if it's missing or invalid
//   - gets a fresh RequestID, echoed back in the response headers
//   - has the trace saved in its context
//   - is logged at Debug on the way in and Info (ok) or Error (status >= 400 or panic) on the way out
func Server(h http.Handler, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		t, err := trace.FromHTTPHeader(r.Header)
		if err != nil {
			t = trace.New()
		}
		t = t.Next()
		trace.PopulateHTTPHeader(w.Header(), t)
		logger := logger.With(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Stringer("trace_id", t.TraceID),
		)
		if ce := logger.Check(zap.DebugLevel, "begin"); ce != nil {
			ce.Write(
				zap.String("user-agent", r.UserAgent()),
				zap.Stringers("request_id", t.RequestIDs),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("headers", headerString(r.Header)),
			)
		}

		lw := &writer{ResponseWriter: w}
		defer func() {
			elapsed := time.Since(start)
			if p := recover(); p != nil {
				if lw.statusCode == 0 {
					lw.WriteHeader(http.StatusInternalServerError)
				}
				logger.Error("end: panic", zap.Any("panic", p), zap.ByteString("stack", debug.Stack()), zap.Int("status_code", lw.statusCode))
				return
			}
			if lw.statusCode == 0 { // handler never wrote anything: net/http sends a 200.
				lw.statusCode = http.StatusOK
			}
			if lw.statusCode >= 400 {
				logger.Error("end: error", zap.Int("status_code", lw.statusCode), zap.Duration("elapsed", elapsed))
				return
			}
			logger.Info("end: ok", zap.Int("status_code", lw.statusCode), zap.Int("content_length", lw.contentLength), zap.Duration("elapsed", elapsed))
		}()
		h.ServeHTTP(lw, r.WithContext(trace.SaveCtx(r.Context(), t)))
	}
}

func headerString(h http.Header) string {
	buf := bufpool.Get().(*bytes.Buffer)
	defer bufpool.Put(buf)
	buf.Reset()
	_ = h.WriteSubset(buf, excludeHeaders) // a bytes.Buffer never fails
	return buf.String()
}

// writer records the status code and the number of bytes written to the response body.
type writer struct {
	http.ResponseWriter
	statusCode, contentLength int
}

func (w *writer) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.contentLength += n
	return n, err
}

func (w *writer) WriteHeader(statusCode int) {
	if w.statusCode == 0 {
		w.statusCode = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}
