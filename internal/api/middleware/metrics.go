// HTTP metrics middleware for Prometheus instrumentation.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matiasleandrokruk/vocable/internal/infra/metrics"
)

// MetricsMiddleware records request counts and latencies for every route.
// The chi route pattern (e.g. /api/v1/predict) is used as the endpoint label
// so path parameters do not explode label cardinality.
// Runs before AuthMiddleware in the router so rejected requests are counted too.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		// RoutePattern is only populated once routing has happened.
		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}

		metrics.RequestCount.WithLabelValues(r.Method, endpoint, strconv.Itoa(recorder.statusCode)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	})
}

// statusRecorder captures the response status for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
