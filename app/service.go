// Package app wires configuration, store, engine, sinks and the read API
// into a running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	apifleet "github.com/kilianp07/motofleet/api/fleet"
	"github.com/kilianp07/motofleet/config"
	"github.com/kilianp07/motofleet/core/fleet"
	corehistory "github.com/kilianp07/motofleet/core/history"
	coremetrics "github.com/kilianp07/motofleet/core/metrics"
	"github.com/kilianp07/motofleet/core/model"
	coremon "github.com/kilianp07/motofleet/core/monitoring"
	"github.com/kilianp07/motofleet/core/report"
	"github.com/kilianp07/motofleet/core/store"
	"github.com/kilianp07/motofleet/infra/history"
	"github.com/kilianp07/motofleet/infra/logger"
	"github.com/kilianp07/motofleet/infra/metrics"
	"github.com/kilianp07/motofleet/infra/monitoring"
	"github.com/kilianp07/motofleet/infra/mqtt"
	"github.com/kilianp07/motofleet/internal/eventbus"
)

// Service turns store updates into reports and hands them to the sinks and
// the read API.
type Service struct {
	cfg     *config.Config
	log     logger.Logger
	engine  *fleet.Engine
	builder *report.Builder
	reports *report.MemoryStore
	history corehistory.Store
	api     *apifleet.Handler
	sink    coremetrics.ReportSink

	repo    store.Repository
	watcher store.Watcher
	poller  *store.Poller
	cron    *cron.Cron

	collections *eventbus.TypedBus[store.Collection]
	published   *eventbus.TypedBus[report.Report]

	closers []io.Closer
}

// Option customizes a Service.
type Option func(*options)

type options struct {
	repo  store.Repository
	clock func() time.Time
}

// WithRepository bypasses the store section of the configuration.
func WithRepository(r store.Repository) Option {
	return func(o *options) { o.repo = r }
}

// WithClock sets the engine clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if err := logger.Setup(cfg.Logging); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	s := &Service{
		cfg:         cfg,
		log:         logger.New("service"),
		reports:     report.NewMemoryStore(),
		collections: eventbus.NewTyped[store.Collection](eventbus.WithBuffer(1), eventbus.WithDropOldest()),
		published:   eventbus.NewTyped[report.Report](),
	}
	model.SetLocation(cfg.Engine.Location())
	if err := s.setupStore(cfg, o.repo); err != nil {
		s.Close()
		return nil, err
	}

	s.engine = fleet.NewEngine(cfg.Engine, fleet.WithClock(o.clock))
	s.builder = report.NewBuilder(s.engine, logger.New("report"))

	hist, closer, err := history.New(cfg.History)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("history: %w", err)
	}
	s.history = hist
	s.closers = append(s.closers, closer)

	if err := s.setupSinks(cfg); err != nil {
		s.Close()
		return nil, err
	}
	s.api = apifleet.NewHandler(s.reports, s.builder, s.history, logger.New("api"))
	return s, nil
}

func (s *Service) setupStore(cfg *config.Config, repo store.Repository) error {
	if repo == nil {
		if cfg.Store.Type == "" {
			return fmt.Errorf("store: no backend configured (available: %v)", store.Backends())
		}
		r, err := store.NewRepository(cfg.Store)
		if err != nil {
			return fmt.Errorf("store %s: %w", cfg.Store.Type, err)
		}
		repo = r
	}
	s.repo = repo
	if c, ok := repo.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
	if w, ok := repo.(store.Watcher); ok {
		s.watcher = w
		s.log.Infof("store pushes changes, refresh schedule ignored")
		return nil
	}
	s.poller = store.NewPoller(repo, logger.New("poller"))
	s.watcher = s.poller
	s.cron = cron.New(cron.WithParser(config.CronParser), cron.WithLocation(time.UTC))
	if _, err := s.cron.AddFunc(cfg.Schedule.Refresh, s.Refresh); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	return nil
}

func (s *Service) setupSinks(cfg *config.Config) error {
	sinkCfgs := cfg.Metrics.Sinks
	if cfg.MQTT.Broker != "" && !cfg.Metrics.HasSink("mqtt") {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
		sink, err := coremetrics.NewReportSink(sinkCfgs)
		if err != nil {
			_ = pub.Close()
			return fmt.Errorf("sinks: %w", err)
		}
		s.sink = coremetrics.NewMultiSink(sink, pub)
		return nil
	}
	sink, err := coremetrics.NewReportSink(sinkCfgs)
	if err != nil {
		return fmt.Errorf("sinks: %w", err)
	}
	s.sink = sink
	return nil
}

// Reports returns the store holding the latest report.
func (s *Service) Reports() report.Store { return s.reports }

// Refresh asks a polled store to fetch again. It does nothing for stores that
// push their changes.
func (s *Service) Refresh() {
	if s.poller != nil {
		s.poller.Trigger()
	}
}

// Run starts the service and blocks until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	updates, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	incoming := s.collections.Subscribe()
	finished := s.published.Subscribe()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for c := range updates {
			s.collections.Publish(c)
		}
	}()
	go func() {
		defer wg.Done()
		s.process(ctx, incoming)
	}()
	recorded := make(chan struct{})
	go func() {
		defer close(recorded)
		s.record(finished)
	}()

	if s.cron != nil {
		s.cron.Start()
		defer s.cron.Stop()
	}
	if s.cfg.Metrics.HasSink("prometheus") {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
				coremon.Capture(err, "service", "prom_server")
			}
		}()
	}
	if !s.cfg.API.Disabled {
		go func() {
			if err := s.api.Serve(ctx, s.cfg.API.Address); err != nil {
				s.log.Errorf("api server: %v", err)
				coremon.Capture(err, "service", "api_server")
			}
		}()
	}

	<-ctx.Done()
	wg.Wait()
	s.published.Close()
	<-recorded
	return nil
}

func (s *Service) process(ctx context.Context, incoming <-chan store.Collection) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-incoming:
			if !ok {
				return
			}
			s.handle(ctx, c)
		}
	}
}

func (s *Service) handle(ctx context.Context, c store.Collection) {
	defer coremon.Recover()
	p, err := s.cfg.Report.Resolve(s.engine)
	if err != nil {
		s.log.Errorf("report period: %v", err)
		return
	}
	prev, err := corehistory.Previous(ctx, s.history, p)
	if err != nil {
		s.log.Warnf("history lookup for %s: %v", p, err)
		coremon.Capture(err, "history", "previous")
		prev = nil
	}
	r := s.builder.BuildWithPrevious(c, p, prev)
	s.reports.SetCollection(c)
	s.reports.Set(r)
	if !p.IsAllTime() {
		rec := corehistory.Record{Period: p, KPI: r.KPI, RunID: r.RunID, UpdatedAt: r.GeneratedAt}
		if err := s.history.Save(ctx, rec); err != nil {
			s.log.Errorf("save history for %s: %v", p, err)
			coremon.Capture(err, "history", "save")
		}
	}
	s.published.Publish(r)
}

func (s *Service) record(finished <-chan report.Report) {
	for r := range finished {
		if err := s.sink.RecordReport(r); err != nil {
			s.log.Errorf("record report %s: %v", r.RunID, err)
			coremon.CaptureException(err, map[string]string{"component": "sink", "run_id": r.RunID})
		}
	}
}

// Close releases the sinks, the history and the store.
func (s *Service) Close() error {
	var errs []error
	if c, ok := s.sink.(coremetrics.Closer); ok {
		errs = append(errs, c.Close())
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	s.closers = nil
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
