package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard service.
type Metrics struct {
	LoadsTotal   prometheus.Counter
	LoadOutcomes *prometheus.CounterVec // labels: outcome=success|empty|failed
	LoadDuration prometheus.Histogram

	FetchesTotal  *prometheus.CounterVec // labels: indicator, outcome=ok|error
	FetchDuration prometheus.Histogram

	WSClients prometheus.Gauge
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		LoadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "econdash_loads_total",
			Help: "Total dashboard load sessions started",
		}),
		LoadOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "econdash_load_outcomes_total",
			Help: "Load sessions finished, by terminal state",
		}, []string{"outcome"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "econdash_load_duration_seconds",
			Help:    "End-to-end load session latency",
			Buckets: prometheus.DefBuckets,
		}),
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "econdash_fetches_total",
			Help: "Indicator fetches, by indicator and outcome",
		}, []string{"indicator", "outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "econdash_fetch_duration_seconds",
			Help:    "Single indicator fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "econdash_ws_clients",
			Help: "Currently connected WebSocket clients",
		}),
	}

	prometheus.MustRegister(
		m.LoadsTotal,
		m.LoadOutcomes,
		m.LoadDuration,
		m.FetchesTotal,
		m.FetchDuration,
		m.WSClients,
	)

	return m
}

// HealthStatus represents the service health.
type HealthStatus struct {
	mu sync.RWMutex

	LastLoadAt      time.Time `json:"last_load_at"`
	LastLoadOutcome string    `json:"last_load_outcome"`
	StartedAt       time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt: time.Now(),
	}
}

// SetLastLoad records the outcome of the most recent load session.
func (h *HealthStatus) SetLastLoad(outcome string) {
	h.mu.Lock()
	h.LastLoadAt = time.Now()
	h.LastLoadOutcome = outcome
	h.mu.Unlock()
}

// ServeHTTP reports health as JSON. The service is healthy as long as it is
// up; load failures are expected operational outcomes, not liveness faults.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := struct {
		Status          string `json:"status"`
		Uptime          string `json:"uptime"`
		LastLoadAt      string `json:"last_load_at"`
		LastLoadOutcome string `json:"last_load_outcome"`
	}{
		Status:          "ok",
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		LastLoadOutcome: h.LastLoadOutcome,
	}
	if !h.LastLoadAt.IsZero() {
		status.LastLoadAt = h.LastLoadAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	srv    *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		health: health,
		addr:   addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
