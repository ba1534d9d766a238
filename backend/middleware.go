package backend

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/medadhere/frontend-server/backend/access"
)

// responseRecorder captures what the wrapped handler wrote.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *responseRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

// Hijack lets WebSocket upgrades pass through the middleware.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("http: response writer does not support hijacking")
	}
	if r.status == 0 {
		r.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LoggingMiddleware tags each request with an X-Request-Id, logs one line
// when it completes and hands the resulting access.Event to recorders.
func LoggingMiddleware(next http.Handler, recorders ...access.Recorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.New()
		w.Header().Set("X-Request-Id", id.String())

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		ev := access.Event{
			ID:       id,
			Time:     start.UTC(),
			Method:   r.Method,
			Path:     r.URL.Path,
			Status:   rec.status,
			Bytes:    rec.bytes,
			Duration: time.Since(start),
			Remote:   r.RemoteAddr,
		}
		log.Printf("http: id=%s %s %s status=%d bytes=%d dur=%s", ev.ID, ev.Method, ev.Path, ev.Status, ev.Bytes, ev.Duration)

		for _, recorder := range recorders {
			recorder.Record(r.Context(), ev)
		}
	})
}
