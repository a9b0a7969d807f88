package httpx

import (
	"compress/gzip"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// CompressionConfig holds configuration for the compression middleware.
type CompressionConfig struct {
	Level   int          // gzip level 1-9; 0 uses gzip.DefaultCompression
	MinSize int          // bodies shorter than this are sent uncompressed
	Logger  *slog.Logger // Optional
}

var compressibleTypes = map[string]bool{
	"application/json": true,
	"text/plain":       true,
	"text/html":        true,
	"text/css":         true,
	"text/javascript":  true,
}

// Compression returns a middleware that gzips JSON and text responses for
// clients that accept it. Run logs can be large, which is what this is for.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	if cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	pool := &sync.Pool{New: func() any {
		zw, err := gzip.NewWriterLevel(io.Discard, cfg.Level)
		if err != nil {
			return gzip.NewWriter(io.Discard)
		}
		return zw
	}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Encoding")
			if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			gzw := &gzipResponseWriter{ResponseWriter: w, pool: pool, minSize: cfg.MinSize, status: http.StatusOK}
			next.ServeHTTP(gzw, r)
			if err := gzw.finish(); err != nil {
				cfg.Logger.DebugContext(r.Context(), "finishing compressed response", "error", err)
			}
		})
	}
}

// acceptsGzip reports whether the Accept-Encoding header allows gzip with a non-zero q-value.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), "gzip") {
			continue
		}
		params = strings.TrimSpace(params)
		if q, ok := strings.CutPrefix(params, "q="); ok {
			v, err := strconv.ParseFloat(q, 64)
			return err == nil && v > 0
		}
		return true
	}
	return false
}

func compressible(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && compressibleTypes[mt]
}

// gzipResponseWriter buffers up to minSize bytes before deciding whether to compress.
type gzipResponseWriter struct {
	http.ResponseWriter
	pool    *sync.Pool
	minSize int

	status  int
	decided bool
	buf     []byte
	zw      *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.decided {
		return
	}
	w.status = status
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified {
		w.decide(false)
	}
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.decided {
		if w.zw != nil {
			return w.zw.Write(b)
		}
		return w.ResponseWriter.Write(b)
	}

	w.buf = append(w.buf, b...)
	if len(w.buf) < w.minSize {
		return len(b), nil
	}
	if err := w.flushBuffer(true); err != nil {
		return 0, err
	}
	return len(b), nil
}

// decide commits the response headers, compressed or not.
func (w *gzipResponseWriter) decide(compress bool) {
	w.decided = true
	h := w.Header()
	if h.Get("Content-Type") == "" && len(w.buf) > 0 {
		h.Set("Content-Type", http.DetectContentType(w.buf))
	}
	if compress && h.Get("Content-Encoding") == "" && compressible(h.Get("Content-Type")) {
		h.Set("Content-Encoding", "gzip")
		h.Del("Content-Length")
		w.zw = w.pool.Get().(*gzip.Writer)
		w.zw.Reset(w.ResponseWriter)
	}
	w.ResponseWriter.WriteHeader(w.status)
}

func (w *gzipResponseWriter) flushBuffer(compress bool) error {
	w.decide(compress)
	buf := w.buf
	w.buf = nil
	if len(buf) == 0 {
		return nil
	}
	var err error
	if w.zw != nil {
		_, err = w.zw.Write(buf)
	} else {
		_, err = w.ResponseWriter.Write(buf)
	}
	return err
}

func (w *gzipResponseWriter) finish() error {
	if !w.decided {
		// Everything fit under minSize.
		if err := w.flushBuffer(len(w.buf) >= w.minSize && len(w.buf) > 0); err != nil {
			return err
		}
	}
	if w.zw == nil {
		return nil
	}
	err := w.zw.Close()
	w.zw.Reset(io.Discard)
	w.pool.Put(w.zw)
	w.zw = nil
	return err
}

// Flush implements http.Flusher for streaming support.
func (w *gzipResponseWriter) Flush() {
	if !w.decided {
		_ = w.flushBuffer(true)
	}
	if w.zw != nil {
		_ = w.zw.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *gzipResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
