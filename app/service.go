// Package app wires configuration into a running planner service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apiplan "github.com/kilianp07/depotplan/api/plan"
	"github.com/kilianp07/depotplan/config"
	coremetrics "github.com/kilianp07/depotplan/core/metrics"
	coremon "github.com/kilianp07/depotplan/core/monitoring"
	"github.com/kilianp07/depotplan/core/planlog"
	"github.com/kilianp07/depotplan/core/planner"
	"github.com/kilianp07/depotplan/infra/logger"
	"github.com/kilianp07/depotplan/infra/metrics"
	"github.com/kilianp07/depotplan/infra/monitoring"
	"github.com/kilianp07/depotplan/infra/mqtt"
	"github.com/kilianp07/depotplan/infra/sources"
	"github.com/kilianp07/depotplan/infra/state"
	"github.com/kilianp07/depotplan/internal/eventbus"
)

// Service owns the planner and the infrastructure around it.
type Service struct {
	Planner *planner.Planner

	cfg       *config.Config
	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	history   planlog.LogStore
	publisher *mqtt.PlanPublisher
	mqtt      *mqtt.PahoClient
	log       logger.Logger
	closers   []io.Closer
}

// New creates a Service from the configuration. MQTT is optional and is
// skipped when no broker is configured.
func New(cfg *config.Config) (*Service, error) {
	logger.SetDefaultLevel(cfg.Logging.Level)
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	svc := &Service{cfg: cfg, bus: eventbus.New(), log: logg}
	ok := false
	defer func() {
		if !ok {
			_ = svc.Close()
		}
	}()

	srcs, err := sources.Build(cfg.Sources)
	if err != nil {
		return nil, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	svc.sink = sink
	st, err := state.Open(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("state store: %w", err)
	}
	if c, isCloser := st.(io.Closer); isCloser {
		svc.closers = append(svc.closers, c)
	}
	hist, err := planlog.Open(cfg.Logging.History)
	if err != nil {
		return nil, fmt.Errorf("plan history: %w", err)
	}
	svc.history = hist
	svc.closers = append(svc.closers, hist)

	if cfg.MQTT.Enabled() {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = client
		svc.publisher = mqtt.NewPlanPublisher(client, cfg.MQTT.TopicPrefix)
	}

	p, err := planner.New(planner.Options{
		Config:      cfg.Planner,
		Schedule:    cfg.Schedule,
		Eligibility: cfg.Eligibility,
		Sources:     srcs,
		State:       st,
		History:     hist,
		Metrics:     sink,
		Bus:         svc.bus,
		Monitor:     mon,
		Logger:      logger.New("planner"),
	})
	if err != nil {
		return nil, err
	}
	svc.Planner = p
	ok = true
	return svc, nil
}

// Start restores persisted state and launches the event consumers. It
// returns once they are running; they stop with ctx.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Planner.Restore(ctx); err != nil {
		s.log.Warnf("%v", err)
	}
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.publisher != nil {
		s.publisher.Run(ctx, s.bus)
	}
	return nil
}

// Handler returns the HTTP API with the Prometheus endpoint mounted.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Handle(s.cfg.Metrics.PrometheusPath, promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Mount("/", apiplan.NewRouter(s.Planner, apiplan.Options{
		Token:   s.cfg.HTTP.Token,
		History: s.history,
		Logger:  logger.New("api"),
	}))
	return r
}

// Run starts the service and serves HTTP until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	srv := &http.Server{Addr: s.cfg.HTTP.Addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		defer coremon.Recover()
		s.log.Infof("listening on %s", s.cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.HTTP.ShutdownSeconds)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.bus.Close()
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
