package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
)

// PromSink records planner runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	labels    *prometheus.GaugeVec
	frontier  prometheus.Gauge
	objective *prometheus.GaugeVec
	energy    *prometheus.CounterVec
	stops     *prometheus.CounterVec
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	s, err := NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evroute_plan_runs_total",
			Help: "Total number of planner runs by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evroute_plan_duration_seconds",
			Help:    "Wall-clock time spent in the label-setting search",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"status"}),
		labels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evroute_search_labels",
			Help: "Labels created and pruned by the last search",
		}, []string{"kind"}),
		frontier: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evroute_frontier_size",
			Help: "Number of Pareto-optimal plans found by the last run",
		}),
		objective: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evroute_selected_plan_objective",
			Help: "Objective values of the last selected plan",
		}, []string{"objective"}),
		energy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evroute_charge_energy_kwh_total",
			Help: "Grid energy planned at each station",
		}, []string{"station_id", "region"}),
		stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evroute_charge_stops_total",
			Help: "Charging stops planned at each station",
		}, []string{"station_id"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.labels, err = register(reg, s.labels); err != nil {
		return nil, err
	}
	if s.frontier, err = register(reg, s.frontier); err != nil {
		return nil, err
	}
	if s.objective, err = register(reg, s.objective); err != nil {
		return nil, err
	}
	if s.energy, err = register(reg, s.energy); err != nil {
		return nil, err
	}
	if s.stops, err = register(reg, s.stops); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlan updates run counters, search statistics and the objective
// gauges of the selected plan.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.runs.WithLabelValues(ev.Status).Inc()
	s.duration.WithLabelValues(ev.Status).Observe(ev.Elapsed.Seconds())
	s.labels.WithLabelValues("created").Set(float64(ev.LabelsCreated))
	s.labels.WithLabelValues("pruned").Set(float64(ev.LabelsPruned))
	s.frontier.Set(float64(ev.Solutions))
	if ev.Solutions > 0 {
		s.objective.WithLabelValues("time_h").Set(ev.TimeH)
		s.objective.WithLabelValues("cost_eur").Set(ev.CostEUR)
		s.objective.WithLabelValues("co2_kg").Set(ev.CO2Kg)
	}
	return nil
}

// RecordChargeStops counts stops and grid energy per station.
func (s *PromSink) RecordChargeStops(evs []coremetrics.ChargeStopEvent) error {
	for _, ev := range evs {
		s.stops.WithLabelValues(ev.StationID).Inc()
		s.energy.WithLabelValues(ev.StationID, ev.Region).Add(ev.GridKWh)
	}
	return nil
}
