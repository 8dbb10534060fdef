// Package metrics exposes Prometheus instrumentation for the live trading
// loop, plus a small HTTP server serving /metrics and /healthz.
package metrics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for one live session. Each session
// owns its own registry so independent sessions never collide.
type Metrics struct {
	registry *prometheus.Registry

	TicksTotal   prometheus.Counter
	SignalsTotal *prometheus.CounterVec // labels: action
	TradesClosed *prometheus.CounterVec // labels: status
	FeedErrors   prometheus.Counter
	Balance      prometheus.Gauge
	Equity       prometheus.Gauge
	OpenCount    prometheus.Gauge
}

// New registers and returns the session metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxbot_ticks_total",
			Help: "Total prices consumed from the feed",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxbot_signals_total",
			Help: "Signals emitted by the strategy engine (by action)",
		}, []string{"action"}),
		TradesClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxbot_trades_closed_total",
			Help: "Positions closed (by terminal status)",
		}, []string{"status"}),
		FeedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxbot_feed_errors_total",
			Help: "Errors returned by the price feed",
		}),
		Balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fxbot_account_balance",
			Help: "Current realized account balance",
		}),
		Equity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fxbot_account_equity",
			Help: "Mark-to-market equity (balance + unrealized P/L)",
		}),
		OpenCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fxbot_open_positions",
			Help: "Currently open positions",
		}),
	}

	m.registry.MustRegister(
		m.TicksTotal,
		m.SignalsTotal,
		m.TradesClosed,
		m.FeedErrors,
		m.Balance,
		m.Equity,
		m.OpenCount,
	)
	return m
}

// Health tracks feed liveness for the /healthz endpoint.
type Health struct {
	mu        sync.RWMutex
	lastTick  time.Time
	startedAt time.Time
}

func NewHealth() *Health {
	return &Health{startedAt: time.Now()}
}

func (h *Health) SetLastTick(t time.Time) {
	h.mu.Lock()
	h.lastTick = t
	h.mu.Unlock()
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	lastTick := h.lastTick
	startedAt := h.startedAt
	h.mu.RUnlock()

	status := "healthy"
	code := http.StatusOK
	if lastTick.IsZero() {
		status = "starting"
	}

	tickAge := ""
	if !lastTick.IsZero() {
		tickAge = time.Since(lastTick).Round(time.Millisecond).String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(struct {
		Status   string `json:"status"`
		Uptime   string `json:"uptime"`
		LastTick string `json:"last_tick_time"`
		TickAge  string `json:"tick_age"`
	}{
		Status:   status,
		Uptime:   time.Since(startedAt).Round(time.Second).String(),
		LastTick: lastTick.Format(time.RFC3339),
		TickAge:  tickAge,
	})
}

// Server exposes /metrics and /healthz.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

// NewServer builds the HTTP server for addr.
func NewServer(addr string, m *Metrics, health *Health, log *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", health)

	return &Server{
		srv: &http.Server{Addr: addr, Handler: mux},
		log: log,
	}
}

// Start launches the server in a goroutine.
func (s *Server) Start() {
	go func() {
		s.log.Info("metrics server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			s.log.Error("metrics server", "err", err)
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) {
	_ = s.srv.Shutdown(ctx)
}
