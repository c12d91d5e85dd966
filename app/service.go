package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/evroute/api/history"
	"github.com/kilianp07/evroute/config"
	"github.com/kilianp07/evroute/connectors"
	stations "github.com/kilianp07/evroute/connectors/factory"
	coremetrics "github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/core/planner"
	"github.com/kilianp07/evroute/core/plans"
	"github.com/kilianp07/evroute/infra/logger"
	"github.com/kilianp07/evroute/infra/metrics"
	"github.com/kilianp07/evroute/qa/scenarios"
)

// Service wires the planner to its metrics sinks, history store and
// station feed.
type Service struct {
	Planner  *planner.Planner
	Store    plans.Store
	Stations connectors.StationSource
	cfg      *config.Config
	sink     coremetrics.MetricsSink
	log      logger.Logger
	promAddr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	source, err := stations.NewStationSource(cfg.Stations)
	if err != nil {
		return nil, err
	}
	store, err := plans.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("plan store: %w", err)
	}
	pcfg, err := cfg.Planner()
	if err != nil {
		closeStore(store)
		return nil, err
	}
	p, err := planner.New(pcfg, sink, store, logger.New("planner"))
	if err != nil {
		closeStore(store)
		return nil, err
	}
	return &Service{
		Planner:  p,
		Store:    store,
		Stations: source,
		cfg:      cfg,
		sink:     sink,
		log:      logg,
		promAddr: cfg.Metrics.PrometheusAddr,
	}, nil
}

func closeStore(s plans.Store) {
	if s != nil {
		_ = s.Close()
	}
}

// Start launches the Prometheus endpoint and the history API when their
// addresses are configured. Both stop with ctx.
func (s *Service) Start(ctx context.Context) {
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if addr := s.cfg.API.Addr; addr != "" && s.Store != nil {
		go func() {
			if err := history.Serve(ctx, addr, s.Store, s.cfg.API.Token); err != nil {
				s.log.Errorf("history api: %v", err)
			}
		}()
	}
}

// Plan plans one scenario with the configured vehicle as fallback. A
// scenario without stations takes them from the station feed when one is
// configured.
func (s *Service) Plan(ctx context.Context, sc *scenarios.Scenario) (planner.Request, planner.Result, error) {
	if len(sc.Stations) == 0 && s.Stations != nil {
		st, err := s.Stations.Stations(ctx, connectors.Corridor{Origin: sc.Corridor.Origin, Destination: sc.Corridor.Destination})
		if err != nil {
			return planner.Request{}, planner.Result{}, fmt.Errorf("station feed: %w", err)
		}
		feed := *sc
		feed.Stations = st
		sc = &feed
	}
	req, err := sc.Request(s.cfg.Vehicle)
	if err != nil {
		return req, planner.Result{}, err
	}
	res, err := s.Planner.Plan(ctx, req)
	return req, res, err
}

// BatchResult is the outcome of one scenario in a batch.
type BatchResult struct {
	Scenario string
	Result   planner.Result
	// Err is a planning error or an unmet expectation.
	Err error
}

// RunBatch plans every scenario in order and checks its expectations. It
// stops early only when ctx is done.
func (s *Service) RunBatch(ctx context.Context, all []*scenarios.Scenario) []BatchResult {
	out := make([]BatchResult, 0, len(all))
	bounds := s.cfg.Battery.Bounds()
	for _, sc := range all {
		if ctx.Err() != nil {
			break
		}
		req, res, err := s.Plan(ctx, sc)
		if err == nil {
			err = scenarios.Check(sc, req, res, bounds)
		}
		if err != nil {
			s.log.Warnf("scenario %s: %v", sc.Name, err)
		}
		out = append(out, BatchResult{Scenario: sc.Name, Result: res, Err: err})
	}
	return out
}

// History returns stored plan runs matching q.
func (s *Service) History(ctx context.Context, q plans.PlanQuery) ([]plans.PlanRecord, error) {
	if s.Store == nil {
		return nil, errors.New("plan history is disabled (storage.backend: none)")
	}
	return s.Store.Query(ctx, q)
}

type closer interface{ Close() }

// Close releases the store and any sink holding a connection.
func (s *Service) Close() error {
	if c, ok := s.sink.(closer); ok {
		c.Close()
	}
	if ms, ok := s.sink.(*coremetrics.MultiSink); ok {
		for _, sub := range ms.Sinks {
			if c, ok := sub.(closer); ok {
				c.Close()
			}
		}
	}
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}
