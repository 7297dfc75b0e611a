package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/campnav/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error codes for one
// route. endpoint is the metric label, not the path, so path values do not
// blow up label cardinality.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(time.Since(start).Milliseconds()))
		if rec.status >= http.StatusBadRequest {
			metrics.RecordHTTPError(endpoint, r.Method, rec.errorCode())
		}
	}
}

// statusRecorder remembers the status and, when writeError ran, the error
// code sent to the client.
type statusRecorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) errorCode() string {
	if rec.code != "" {
		return rec.code
	}
	if rec.status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "client_error"
}

// noteErrorCode passes code to the enclosing recorder, if any.
func noteErrorCode(w http.ResponseWriter, code string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.code = code
	}
}
