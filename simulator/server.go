package main

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/depotplan/infra/logger"
)

// Server exposes the synthetic depot on the endpoints the planner's HTTP
// sources expect.
type Server struct {
	addr     string
	depot    Depot
	cfg      Config
	log      logger.Logger
	srv      *http.Server
	gatherer prometheus.Gatherer

	mu  sync.Mutex
	rng *rand.Rand

	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewServer creates a simulator server registering its metrics on reg. A nil
// registry uses a private one.
func NewServer(cfg Config, depot Depot, rng *rand.Rand, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	log := logger.New("simulator")
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_requests_total",
		Help: "Requests served per endpoint",
	}, []string{"endpoint"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_injected_failures_total",
		Help: "Requests answered with an injected failure",
	}, []string{"endpoint"})
	for _, c := range []prometheus.Collector{requests, failures} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				log.Errorf("register simulator metric: %v", err)
			}
		}
	}
	return &Server{
		addr:     cfg.Addr,
		depot:    depot,
		cfg:      cfg,
		log:      log,
		gatherer: reg,
		rng:      rng,
		requests: requests,
		failures: failures,
	}
}

// Routes returns the simulator HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Errorf("write pong: %v", err)
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/fleet", s.serve("fleet", func(*http.Request) any { return s.depot.Fleet }))
	r.Get("/stations", s.serve("stations", func(*http.Request) any { return s.depot.Stations }))
	r.Get("/bays", s.serve("bays", func(*http.Request) any { return s.depot.Bays }))
	r.Get("/vehicles/{id}/jobcards", s.serve("jobcards", func(r *http.Request) any {
		cards := s.depot.JobCards[chi.URLParam(r, "id")]
		if cards == nil {
			return []any{}
		}
		return cards
	}))
	r.Post("/optimizer/run", s.handleOptimizer)
	return r
}

func (s *Server) handleOptimizer(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Malformed {
		s.requests.WithLabelValues("optimizer").Inc()
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"results":"unavailable"}`)); err != nil {
			s.log.Errorf("write optimizer payload: %v", err)
		}
		return
	}
	s.serve("optimizer", func(*http.Request) any {
		return map[string]any{"results": s.depot.Decisions}
	})(w, r)
}

func (s *Server) serve(endpoint string, body func(*http.Request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.requests.WithLabelValues(endpoint).Inc()
		if s.cfg.Latency > 0 {
			select {
			case <-time.After(s.cfg.Latency):
			case <-r.Context().Done():
				return
			}
		}
		if s.fail() {
			s.failures.WithLabelValues(endpoint).Inc()
			s.log.Debugf("injecting failure on %s", endpoint)
			http.Error(w, "simulated outage", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body(r)); err != nil {
			s.log.Errorf("encode %s: %v", endpoint, err)
		}
	}
}

func (s *Server) fail() bool {
	if s.cfg.FailRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.cfg.FailRate
}

// Addr returns the listening address once Start has been called.
func (s *Server) Addr() string { return s.addr }

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()
	s.srv = &http.Server{Handler: s.Routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown server: %v", err)
		}
		cancel()
	}()
	s.log.Infof("depot simulator listening on %s with %d vehicles", s.addr, len(s.depot.Fleet))
	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
