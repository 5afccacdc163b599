package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// unmatchedRoute labels requests that reached no handler, keeping arbitrary
// paths out of metric labels.
const unmatchedRoute = "unmatched"

type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLog tags every request with an ID, logs its outcome and reports it
// to observer. observer may be nil.
func RequestLog(next http.Handler, logger *zap.Logger, observer RequestObserver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		route := Route(r.URL.Path, status)

		if observer != nil {
			observer.ObserveRequest(r.Method, route, status, elapsed)
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	})
}

// Route collapses record identifiers into ":id" so that a path maps to the
// route that served it.
func Route(path string, status int) string {
	segments := strings.Split(path, "/")
	collapsed := false
	for i := 1; i < len(segments); i++ {
		switch segments[i-1] {
		case "leaderboard", "score":
			if segments[i] != "" {
				segments[i] = ":id"
				collapsed = true
			}
		}
	}
	if status == http.StatusNotFound && !collapsed {
		return unmatchedRoute
	}
	return strings.Join(segments, "/")
}
