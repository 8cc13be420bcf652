package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/modaworks/clothestore/internal/observability"
)

// Instrument wraps a handler with request counting and latency histograms,
// labeled by method, path and status.
func Instrument(next http.Handler, tel observability.Observability) http.Handler {
	if tel == nil {
		return next
	}
	metrics := tel.Metrics()
	reqCounter := metrics.Counter(observability.MHTTPRequests)
	durHistogram := metrics.Histogram(observability.MHTTPRequestDuration)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		path := r.URL.Path
		reqCounter.Add(1,
			observability.L("method", r.Method),
			observability.L("path", path),
			observability.L("status", strconv.Itoa(sw.status)),
		)
		durHistogram.Observe(time.Since(start).Seconds(),
			observability.L("method", r.Method),
			observability.L("path", path),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
