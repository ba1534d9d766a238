package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/medadhere/frontend-server/backend/access"
	"github.com/medadhere/frontend-server/backend/apiconfig"
)

// RecentLister is the read side of the access log.
type RecentLister interface {
	Recent(ctx context.Context, limit int) ([]access.Event, error)
}

// Admin is the operator-facing listener. It runs on its own port so the
// static listener stays a plain path-to-file server.
type Admin struct {
	// Feed serves the live access feed; nil disables /ws/access.
	Feed http.Handler
	// AccessLog backs /access/recent; nil answers 503.
	AccessLog RecentLister
	API       apiconfig.URLs
}

func (a Admin) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	if a.Feed != nil {
		mux.Handle("GET /ws/access", a.Feed)
	}

	mux.HandleFunc("GET /access/recent", a.handleRecent)
	mux.HandleFunc("GET /api-config", a.handleAPIConfig)

	return mux
}

func (a Admin) handleRecent(w http.ResponseWriter, r *http.Request) {
	if a.AccessLog == nil {
		http.Error(w, "access log not configured", http.StatusServiceUnavailable)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	events, err := a.AccessLog.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("admin: recent access events: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// handleAPIConfig reports the client configuration a browser on the given
// hostname would use. ?hostname= overrides the request's Host.
func (a Admin) handleAPIConfig(w http.ResponseWriter, r *http.Request) {
	host := r.URL.Query().Get("hostname")
	if host == "" {
		host = r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
	}
	writeJSON(w, http.StatusOK, apiconfig.Select(host, a.API))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
