package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
)

// WriteGzip compresses the response body with GZip when it encounters an Accept-Encoding: gzip header.
// Only full 200 responses are compressed: range requests pass straight through, since Content-Range counts
// uncompressed bytes, and bodyless responses like 304 are left alone.
func WriteGzip(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if r.Method == http.MethodHead || r.Header.Get("Range") != "" || !acceptsGzip(r) {
			h.ServeHTTP(w, r)
			return
		}
		gw := &gzipWriter{ResponseWriter: w}
		defer gw.Close()
		h.ServeHTTP(gw, r)
	}
}

func acceptsGzip(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept-Encoding") {
		if strings.Contains(v, "gzip") {
			return true
		}
	}
	return false
}

// gzipWriter decides whether to compress when the status code is written.
type gzipWriter struct {
	zip         *gzip.Writer // nil unless compressing
	wroteHeader bool
	http.ResponseWriter
}

func (gw *gzipWriter) WriteHeader(statusCode int) {
	if gw.wroteHeader {
		return
	}
	gw.wroteHeader = true
	h := gw.Header()
	if statusCode == http.StatusOK && h.Get("Content-Encoding") == "" {
		// Content-Length describes the uncompressed body.
		h.Del("Content-Length")
		h.Set("Content-Encoding", "gzip")
		gw.zip = gzip.NewWriter(gw.ResponseWriter)
	}
	gw.ResponseWriter.WriteHeader(statusCode)
}

func (gw *gzipWriter) Write(p []byte) (n int, err error) {
	if !gw.wroteHeader {
		gw.WriteHeader(http.StatusOK)
	}
	if gw.zip == nil {
		return gw.ResponseWriter.Write(p)
	}
	return gw.zip.Write(p)
}

// Close flushes the gzip stream. It writes nothing for uncompressed responses.
func (gw *gzipWriter) Close() error {
	if gw.zip == nil {
		return nil
	}
	return gw.zip.Close()
}
