package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/medadhere/frontend-server/backend/access"
)

func TestLoggingMiddlewareRecordsEvent(t *testing.T) {
	var got []access.Event
	rec := access.RecorderFunc(func(_ context.Context, ev access.Event) {
		got = append(got, ev)
	})

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("File not found"))
	}), rec)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing.txt?v=2", nil))

	if len(got) != 1 {
		t.Fatalf("recorded %d events want 1", len(got))
	}
	ev := got[0]
	if ev.Status != http.StatusNotFound || ev.Bytes != int64(len("File not found")) {
		t.Errorf("status/bytes got %d/%d", ev.Status, ev.Bytes)
	}
	if ev.Method != http.MethodGet || ev.Path != "/missing.txt" {
		t.Errorf("method/path got %s %s", ev.Method, ev.Path)
	}

	hdr := rr.Header().Get("X-Request-Id")
	id, err := uuid.Parse(hdr)
	if err != nil {
		t.Fatalf("X-Request-Id %q is not a uuid: %v", hdr, err)
	}
	if id != ev.ID {
		t.Errorf("header id %s differs from event id %s", id, ev.ID)
	}
}

func TestLoggingMiddlewareImplicitOK(t *testing.T) {
	var status int
	rec := access.RecorderFunc(func(_ context.Context, ev access.Event) { status = ev.Status })

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), rec)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodOptions, "/", nil))

	if status != http.StatusOK {
		t.Fatalf("status got %d want 200", status)
	}
}

func TestLoggingMiddlewareWithoutRecorders(t *testing.T) {
	h := LoggingMiddleware(http.NotFoundHandler())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status got %d", rr.Code)
	}
}
