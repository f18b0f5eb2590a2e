package providers

import (
	"net/http"
	"reelsd/internal/structures"
	"strings"
	"time"
)

// OtherEndpoint labels requests for paths outside the route table so unknown
// URLs cannot grow the label set.
const OtherEndpoint = "other"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the flusher for event streams.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func MetricsMiddleware(metrics MetricsProviderInterface, routes []structures.Route, next http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route.Url] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		endpoint := r.URL.Path
		if _, ok := known[endpoint]; !ok {
			endpoint = OtherEndpoint
		}
		metrics.IncRequestsTotal(endpoint, sw.status)
		// event streams live as long as the client; their duration is not latency
		if strings.HasPrefix(sw.Header().Get("Content-Type"), "text/event-stream") {
			return
		}
		metrics.ObserveRequestDuration(endpoint, time.Since(start))
	})
}
