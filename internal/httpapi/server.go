package httpapi

import (
	"net/http"
	"time"

	"github.com/bodul/crossword/internal/aiclue"
	"github.com/bodul/crossword/internal/progress"
	"github.com/bodul/crossword/internal/store"
)

// Server is the HTTP server exposing spec.md §6's generation API.
type Server struct {
	mux      *http.ServeMux
	store    *store.Store
	ai       *aiclue.Client
	progress *progress.Broadcaster
	genRL    *rateLimiter
}

// NewServer creates a configured HTTP server. ai may be nil when no GCP
// project is configured; AI-mode requests then fail with a bad-request
// response instead of panicking.
func NewServer(st *store.Store, ai *aiclue.Client) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		store:    st,
		ai:       ai,
		progress: progress.NewBroadcaster(),
		genRL:    newRateLimiter(5, time.Minute),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/crosswords", s.handleGenerate)
	s.mux.HandleFunc("GET /api/crosswords/{id}", s.handleGet)
	s.mux.HandleFunc("GET /api/crosswords/{id}/events", s.handleEvents)
}

// ServeHTTP implements http.Handler, applying the teacher's security
// header set ahead of routing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
	s.mux.ServeHTTP(w, r)
}
