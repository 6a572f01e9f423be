package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"battlegrid/internal/observability"
)

// Server is the thin HTTP/WebSocket dispatch surface spec.md §1 names as
// an out-of-scope external collaborator: it does not run matches itself,
// it only exposes a health check and a turn-callback stream that
// cmd/battlegrid wires to a running match.Run call.
type Server struct {
	router      *chi.Mux
	hub         *Hub
	rateLimiter *IPRateLimiter
}

// NewServer builds the router. No goroutines start here except the rate
// limiter's cleanup loop — Start is the only method that opens a network
// listener, mirroring the teacher's testability-driven separation.
func NewServer() *Server {
	s := &Server{
		router:      chi.NewRouter(),
		hub:         NewHub(),
		rateLimiter: NewIPRateLimiter(DefaultRateLimitConfig),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(instrumentation)
	s.router.Use(s.rateLimiter.Middleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	s.router.Get("/matches/stream", s.hub.HandleWebSocket)

	return s
}

// Hub exposes the turn-callback broadcaster so cmd/battlegrid can pass
// hub.Broadcast as the match.TurnCallback.
func (s *Server) Hub() *Hub { return s.hub }

// Router returns the HTTP handler, for use with httptest in tests.
func (s *Server) Router() http.Handler { return s.router }

// Start begins serving HTTP. This is the only method that opens a
// network listener.
func (s *Server) Start(addr string) error {
	log.Printf("🌐 dispatch API starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Stop releases the rate limiter's background goroutine.
func (s *Server) Stop() {
	s.rateLimiter.Stop()
}

func instrumentation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		// Label by route pattern, not raw path, so arbitrary request paths
		// cannot grow the metric's label set.
		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}
		observability.RecordRequest(r.Method, endpoint, ww.Status(), time.Since(start))
	})
}
