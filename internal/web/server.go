// Package web serves the phone's live state over HTTP: an HTML page for a
// browser, JSON for tooling and a one-line text form for shell scripts.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/sweeney/switchpi/internal/status"
)

// Server exposes tracker snapshots. Handlers only read the tracker; the
// polling worker is the single writer.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// New creates a Server on addr. It does not listen until ListenAndServe
// or Serve is called.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("/", readOnly(s.handlePage))
	mux.HandleFunc("/index.json", readOnly(s.handleJSON))
	mux.HandleFunc("/state", readOnly(s.handleState))

	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Handler returns the request router, for mounting under httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until Shutdown.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// readOnly rejects anything but GET and HEAD. Nothing here changes the
// phone; calls are placed from the keypad only.
func readOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.tracker.Snapshot())
}

// The hook state and dial string change with every key press, so
// responses are never cached.
func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}

// handleState writes "<state> <digits> <call id>", with "-" for empty
// fields, e.g. "IN_CALL - 6e7b0d7e".
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	fmt.Fprintf(w, "%s %s %s\n", snap.State, orDash(snap.Digits), orDash(snap.Call.CallID))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
