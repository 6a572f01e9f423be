// Package observability exposes Prometheus metrics for the match engine
// and runner harness, adapted from the teacher's api/observability.go
// onto this domain's turn/runner lifecycle instead of a tick/render loop.
package observability

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-team-program labels, to avoid
// an untrusted program inflating label cardinality).
var (
	turnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "battlegrid_turn_duration_seconds",
		Help:    "Time spent dispatching one match turn to all runners and collecting their results",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	runnerTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "battlegrid_runner_timeouts_total",
		Help: "Total runner calls that hit the per-turn timeout",
	})

	runnerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battlegrid_runner_errors_total",
		Help: "Total fatal runner errors by kind",
	}, []string{"kind"}) // bounded: ProgramErrorKind values

	activeMatches = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "battlegrid_active_matches",
		Help: "Currently running matches in this process",
	})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "battlegrid_http_request_duration_seconds",
		Help:    "HTTP request latency for the match dispatch API",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "battlegrid_http_requests_total",
		Help: "Total HTTP requests to the match dispatch API",
	}, []string{"method", "endpoint", "status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "battlegrid_websocket_connections_active",
		Help: "Currently active turn-callback WebSocket connections",
	})
)

// Config configures the debug/metrics server.
type Config struct {
	Enabled       bool
	ListenAddr    string // should be localhost-only in production
	BasicAuthUser string
	BasicAuthPass string
}

// DefaultConfig returns safe defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// StartDebugServer starts the pprof + Prometheus + health server.
// CRITICAL: binds to localhost only unless explicitly overridden, the
// same guard the teacher's StartDebugServer applies.
func StartDebugServer(cfg Config) error {
	if !cfg.Enabled {
		log.Println("📊 debug server disabled")
		return nil
	}

	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		if os.Getenv("BATTLEGRID_ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("⚠️ debug server forced to localhost for security")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	go func() {
		log.Printf("📊 debug server starting on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("⚠️ debug server error: %v", err)
		}
	}()

	return nil
}

func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordTurn records one turn's wall-clock duration.
func RecordTurn(d time.Duration) { turnDuration.Observe(d.Seconds()) }

// RecordRunnerTimeout increments the timeout counter.
func RecordRunnerTimeout() { runnerTimeouts.Inc() }

// RecordRunnerError increments the fatal-error counter for a given
// ProgramError kind (caller passes wire.ProgramErrorKind as a string).
func RecordRunnerError(kind string) { runnerErrors.WithLabelValues(kind).Inc() }

// SetActiveMatches updates the active-match gauge.
func SetActiveMatches(n int) { activeMatches.Set(float64(n)) }

// RecordRequest records HTTP request metrics for the dispatch API.
func RecordRequest(method, endpoint string, status int, d time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// SetWSConnections updates the active WebSocket connection gauge.
func SetWSConnections(n int) { wsConnectionsActive.Set(float64(n)) }
