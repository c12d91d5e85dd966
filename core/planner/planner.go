// Package planner wires the energy, charging and emission models to the
// corridor builder, the label-setting search and the frontier aggregator.
// A Planner is safe for concurrent use; each Plan call works on its own
// network and labels.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/evroute/core/charging"
	"github.com/kilianp07/evroute/core/corridor"
	"github.com/kilianp07/evroute/core/energy"
	"github.com/kilianp07/evroute/core/frontier"
	"github.com/kilianp07/evroute/core/logger"
	"github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/plans"
	"github.com/kilianp07/evroute/core/search"
)

// Request is one trip to plan.
type Request struct {
	Scenario string
	Vehicle  model.Vehicle
	Corridor model.Corridor
	Stations []model.ChargingStation
	// Departure overrides the configured departure time when set.
	Departure time.Time
}

// Result is the outcome of a planner run.
type Result struct {
	RunID    string
	Status   search.Status
	Frontier []model.RoutePlan
	// Selected is nil in pareto mode and when no plan exists.
	Selected *model.RoutePlan
	Summary  frontier.Summary
	Stats    search.Stats
}

// Err returns search.ErrInfeasible, search.ErrBudgetExceeded or
// context.Canceled for non-optimal runs.
func (r Result) Err() error {
	return search.Result{Status: r.Status}.Err()
}

// Planner runs searches with a fixed configuration.
type Planner struct {
	cfg      Config
	charger  charging.Model
	selector frontier.Selector
	metrics  metrics.MetricsSink
	store    plans.Store
	log      logger.Logger
}

// New validates cfg and returns a planner. A nil sink, store or logger
// disables the corresponding concern.
func New(cfg Config, sink metrics.MetricsSink, store plans.Store, log logger.Logger) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	charger, err := charging.New(cfg.Curve)
	if err != nil {
		return nil, err
	}
	sel, err := cfg.Selector()
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Planner{cfg: cfg, charger: charger, selector: sel, metrics: sink, store: store, log: log}, nil
}

// Plan builds the corridor network for req, runs the search and reduces the
// destination labels to a Pareto frontier. Configuration problems are
// returned as errors wrapping model.ErrConfiguration; infeasibility and
// budget exhaustion are reported through Result.Status.
func (p *Planner) Plan(ctx context.Context, req Request) (Result, error) {
	runID := uuid.NewString()
	if err := req.Vehicle.Validate(); err != nil {
		return Result{}, err
	}
	if err := p.cfg.Emissions.CheckStations(req.Stations); err != nil {
		return Result{}, err
	}
	em, err := energy.New(req.Vehicle, p.cfg.AirDensity)
	if err != nil {
		return Result{}, err
	}
	net, err := corridor.Build(req.Corridor, req.Stations, em, corridor.Options{SkipUnavailable: p.cfg.SkipUnavailable})
	if err != nil {
		return Result{}, err
	}

	opts := p.cfg.Search
	if !req.Departure.IsZero() {
		opts.Departure = req.Departure
	}
	engine, err := search.New(req.Vehicle, p.charger, p.cfg.Emissions, opts)
	if err != nil {
		return Result{}, err
	}
	p.log.Debugw("planning trip", map[string]any{
		"run_id":   runID,
		"scenario": req.Scenario,
		"vehicle":  req.Vehicle.ID,
		"stations": net.Stations(),
		"km":       req.Corridor.LengthKm(),
	})
	sr, err := engine.Run(ctx, net)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	res := Result{RunID: runID, Status: sr.Status, Stats: sr.Stats}
	if sr.Status == search.StatusOptimal {
		res.Frontier = frontier.Pareto(frontier.Build(net, sr.Labels))
	}
	res.Summary = frontier.Summarize(res.Frontier)
	if p.selector != nil && len(res.Frontier) > 0 {
		sel, err := p.selector.Select(res.Frontier)
		if err != nil {
			return Result{}, err
		}
		res.Selected = &sel
	}
	p.log.Debugw("search finished", map[string]any{
		"run_id":         runID,
		"status":         sr.Status.String(),
		"solutions":      len(res.Frontier),
		"labels_created": sr.Stats.LabelsCreated,
		"labels_pruned":  sr.Stats.LabelsPruned,
		"elapsed_ms":     sr.Stats.Elapsed.Milliseconds(),
	})
	if sr.Status != search.StatusOptimal {
		p.log.Warnf("run %s: %v", runID, res.Err())
	}

	p.record(req, net, res)
	p.persist(ctx, req, res)
	return res, nil
}

func (p *Planner) record(req Request, net *corridor.Network, res Result) {
	now := time.Now()
	ev := metrics.PlanEvent{
		RunID:         res.RunID,
		Scenario:      req.Scenario,
		VehicleID:     req.Vehicle.ID,
		Status:        res.Status.String(),
		Solutions:     len(res.Frontier),
		LabelsCreated: res.Stats.LabelsCreated,
		LabelsPruned:  res.Stats.LabelsPruned,
		Elapsed:       res.Stats.Elapsed,
		Time:          now,
	}
	if s := res.Selected; s != nil {
		ev.TimeH, ev.CostEUR, ev.CO2Kg, ev.ChargeStops = s.TotalTimeH, s.TotalCostEUR, s.TotalCO2Kg, s.ChargeStops
	}
	if err := p.metrics.RecordPlan(ev); err != nil {
		p.log.Warnf("record plan metrics: %v", err)
	}

	rec, ok := p.metrics.(metrics.ChargeStopRecorder)
	if !ok || res.Selected == nil {
		return
	}
	regions := map[string]string{}
	for _, n := range net.Nodes {
		if n.Station != nil {
			regions[n.Station.ID] = n.Station.Region
		}
	}
	var evs []metrics.ChargeStopEvent
	for _, d := range res.Selected.Decisions() {
		evs = append(evs, metrics.ChargeStopEvent{
			RunID:      res.RunID,
			StationID:  d.StationID,
			Region:     regions[d.StationID],
			ArrivalSoC: d.ArrivalSoC,
			TargetSoC:  d.TargetSoC,
			GridKWh:    d.GridKWh,
			Duration:   d.Duration,
			CostEUR:    d.CostEUR,
			CO2Kg:      d.CO2Kg,
			Time:       now,
		})
	}
	if len(evs) == 0 {
		return
	}
	if err := rec.RecordChargeStops(evs); err != nil {
		p.log.Warnf("record charge stop metrics: %v", err)
	}
}

func (p *Planner) persist(ctx context.Context, req Request, res Result) {
	if p.store == nil {
		return
	}
	rec := plans.PlanRecord{
		RunID:     res.RunID,
		Timestamp: time.Now().UTC(),
		Scenario:  req.Scenario,
		VehicleID: req.Vehicle.ID,
		Status:    res.Status.String(),
		Mode:      string(p.cfg.Mode),
		Selected:  res.Selected,
		Frontier:  res.Frontier,
		Summary:   res.Summary,
		Stats: map[string]float64{
			"labels_created": float64(res.Stats.LabelsCreated),
			"labels_pruned":  float64(res.Stats.LabelsPruned),
			"infeasible":     float64(res.Stats.Infeasible),
			"elapsed_ms":     float64(res.Stats.Elapsed.Microseconds()) / 1000,
		},
	}
	if err := p.store.Append(ctx, rec); err != nil {
		p.log.Errorf("persist run %s: %v", res.RunID, err)
	}
}
