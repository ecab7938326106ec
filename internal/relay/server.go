package relay

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"sealchat/internal/domain"
)

// Server is an in-memory implementation of the relay's REST surface,
// used by cmd/relay and by integration tests. It stores and forwards
// opaque blobs per recipient fingerprint; it cannot read any of them.
type Server struct {
	mu    sync.RWMutex
	feeds map[string][]feedEntry
	now   func() int64
}

type feedEntry struct {
	update     domain.Update
	receivedAt int64 // relay receipt time, epoch millis
}

// NewServer returns an empty in-memory relay.
func NewServer() *Server {
	return &Server{
		feeds: make(map[string][]feedEntry),
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// ServeHTTP routes the three relay endpoints.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/v1/messages/"):
		s.handlePush(w, r, strings.TrimPrefix(r.URL.Path, "/v1/messages/"))
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/messages/"):
		s.handleHistory(w, r, strings.TrimPrefix(r.URL.Path, "/v1/messages/"))
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/updates/"):
		s.handleUpdates(w, r, strings.TrimPrefix(r.URL.Path, "/v1/updates/"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request, recipient string) {
	defer r.Body.Close()
	var req pushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if recipient == "" || len(req.Envelope) == 0 {
		http.Error(w, "recipient and envelope required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.feeds[recipient] = append(s.feeds[recipient], feedEntry{
		update:     domain.Update{SenderKeyBytes: req.SenderKey, EnvelopeBytes: req.Envelope},
		receivedAt: s.now(),
	})
	s.mu.Unlock()
	writeJSON(w, pushResponse{Status: "accepted"})
}

func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request, identity string) {
	since, err := queryInt64(r, "since", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Update, 0)
	for _, e := range s.feeds[identity] {
		if e.receivedAt > since {
			out = append(out, e.update)
		}
	}
	writeJSON(w, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, identity string) {
	before, err := queryInt64(r, "before", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt64(r, "limit", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.feeds[identity]
	out := make([]domain.Update, 0)
	// Newest first, bounded by the exclusive upper timestamp.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if before > 0 && e.receivedAt >= before {
			continue
		}
		out = append(out, e.update)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	writeJSON(w, out)
}

func queryInt64(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
