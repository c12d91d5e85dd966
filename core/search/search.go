package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kilianp07/evroute/core/charging"
	"github.com/kilianp07/evroute/core/corridor"
	"github.com/kilianp07/evroute/core/emission"
	"github.com/kilianp07/evroute/core/model"
)

var (
	// ErrInfeasible reports that no SoC-feasible route reaches the
	// destination even when every station is used.
	ErrInfeasible = errors.New("no soc-feasible route to destination")
	// ErrBudgetExceeded reports that the label or time budget ran out before
	// the search completed. Retrying with a larger budget or a coarser
	// charge step may succeed.
	ErrBudgetExceeded = errors.New("search budget exceeded before completion")
)

// Status is the terminal outcome of a search.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusBudgetExceeded
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusBudgetExceeded:
		return "budget_exceeded"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Stats summarises the work done by a search.
type Stats struct {
	LabelsCreated int
	LabelsPruned  int
	Infeasible    int
	// FrontierSizes holds the surviving label count per node.
	FrontierSizes []int
	Elapsed       time.Duration
}

// Result carries the destination labels of a completed search.
type Result struct {
	Status Status
	Labels []*Label
	Stats  Stats
}

// Err maps non-optimal outcomes to their sentinel errors. A search stopped
// by its caller reports context.Canceled.
func (r Result) Err() error {
	switch r.Status {
	case StatusInfeasible:
		return ErrInfeasible
	case StatusBudgetExceeded:
		return ErrBudgetExceeded
	case StatusCancelled:
		return context.Canceled
	}
	return nil
}

// Engine runs the label-setting search for one vehicle.
type Engine struct {
	vehicle   model.Vehicle
	charger   charging.Model
	emissions emission.Table
	opts      Options
}

// New validates the inputs and returns an engine.
func New(v model.Vehicle, charger charging.Model, table emission.Table, opts Options) (*Engine, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := charger.Curve.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{vehicle: v, charger: charger, emissions: table, opts: opts}, nil
}

// departure is a label about to leave its node after a charging decision.
type departure struct {
	from    *Label
	soc     float64
	session charging.Session
	dwellH  float64
	costEUR float64
	co2Kg   float64
}

// Run explores net and returns the non-dominated labels at the
// destination. Only configuration problems are returned as errors;
// infeasibility, budget exhaustion and cancellation of parent are reported
// through Result.Status.
func (e *Engine) Run(parent context.Context, net *corridor.Network) (Result, error) {
	start := time.Now()
	ctx := parent
	if e.opts.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.TimeBudget)
		defer cancel()
	}
	for _, n := range net.Nodes {
		if n.Station != nil {
			if _, err := e.emissions.Intensity(n.Station.Region, e.opts.Departure); err != nil {
				return Result{}, fmt.Errorf("station %s: %w", n.ID, err)
			}
		}
	}

	sameTime := e.timeSensitive(net)
	var res Result
	seq := 0
	sets := make([]labelSet, len(net.Nodes))
	sets[0] = labelSet{{Node: 0, SoC: e.opts.initialSoC()}}
	res.Stats.LabelsCreated = 1

	dest := net.Destination()
	for i := 0; i < dest; i++ {
		sets[i].sort()
		res.Stats.FrontierSizes = append(res.Stats.FrontierSizes, len(sets[i]))
		for _, l := range sets[i] {
			if ctx.Err() != nil {
				// a caller deadline counts as a time budget
				if errors.Is(parent.Err(), context.Canceled) {
					return e.finish(res, StatusCancelled, nil, start), nil
				}
				return e.finish(res, StatusBudgetExceeded, nil, start), nil
			}
			deps, err := e.departures(net, i, l)
			if err != nil {
				return Result{}, err
			}
			for _, d := range deps {
				if e.opts.MaxLabels > 0 && res.Stats.LabelsCreated >= e.opts.MaxLabels {
					return e.finish(res, StatusBudgetExceeded, nil, start), nil
				}
				next, ok := e.traverse(net, i, d)
				if !ok {
					res.Stats.Infeasible++
					continue
				}
				seq++
				next.seq = seq
				res.Stats.LabelsCreated++
				var pruned int
				sets[i+1], pruned = sets[i+1].insert(next, sameTime[i+1])
				res.Stats.LabelsPruned += pruned
			}
		}
		// the label set of node i is no longer needed except via parents
		sets[i] = nil
	}

	final := sets[dest]
	final.sort()
	res.Stats.FrontierSizes = append(res.Stats.FrontierSizes, len(final))
	if len(final) == 0 {
		return e.finish(res, StatusInfeasible, nil, start), nil
	}
	return e.finish(res, StatusOptimal, final, start), nil
}

// timeSensitive marks the nodes from which a station with an hourly
// emission profile can still be reached. Labels there only dominate labels
// with the same arrival time.
func (e *Engine) timeSensitive(net *corridor.Network) []bool {
	out := make([]bool, len(net.Nodes))
	varying := false
	for i := len(net.Nodes) - 1; i >= 0; i-- {
		if st := net.Nodes[i].Station; st != nil && e.emissions.TimeVarying(st.Region) {
			varying = true
		}
		out[i] = varying
	}
	return out
}

func (e *Engine) finish(res Result, st Status, labels []*Label, start time.Time) Result {
	res.Status = st
	res.Labels = labels
	res.Stats.Elapsed = time.Since(start)
	return res
}

// departures lists the ways label l can leave node i: a pass-through and,
// at stations, one charging session per candidate target.
func (e *Engine) departures(net *corridor.Network, i int, l *Label) ([]departure, error) {
	deps := []departure{{from: l, soc: l.SoC}}
	node := net.Nodes[i]
	if node.Station == nil {
		return deps, nil
	}
	st := *node.Station
	price := st.Price(e.opts.DefaultPriceEURPerKWh)
	at := e.opts.Departure.Add(time.Duration(l.TimeH * float64(time.Hour)))
	overhead := e.opts.StopOverhead.Hours()
	for _, target := range e.targets(net, i, l.SoC) {
		s, err := e.charger.Charge(st, l.SoC, target, e.vehicle, e.opts.Bounds)
		if err != nil {
			return nil, err
		}
		if s.IsZero() {
			continue
		}
		co2, err := e.emissions.Emissions(st, s.GridKWh, at)
		if err != nil {
			return nil, err
		}
		deps = append(deps, departure{
			from:    l,
			soc:     s.TargetSoC,
			session: s,
			dwellH:  s.Hours + overhead,
			costEUR: s.GridKWh * price,
			co2Kg:   co2,
		})
	}
	return deps, nil
}

// targets returns the sorted candidate SoCs above arrival at station i.
func (e *Engine) targets(net *corridor.Network, i int, arrival float64) []float64 {
	b := e.opts.Bounds
	var out []float64
	step := e.opts.ChargeStep
	for k := 1; ; k++ {
		t := math.Round(float64(k)*step*1e9) / 1e9
		if t > b.Max+tol {
			break
		}
		if t > arrival+tol {
			out = append(out, t)
		}
	}
	out = append(out, b.Max)
	if e.opts.ExactNeedTargets {
		capacity := e.vehicle.BatteryKWh
		dest := net.Destination()
		for j := i + 1; j <= dest; j++ {
			req := b.Min
			if j == dest {
				req = e.opts.arrivalSoC()
			}
			need := req + net.EnergyBetween(i, j)/capacity
			if need > arrival+tol && need <= b.Max {
				out = append(out, need)
			}
		}
	}
	sort.Float64s(out)
	uniq := out[:0]
	for _, t := range out {
		if len(uniq) > 0 && t-uniq[len(uniq)-1] <= tol {
			continue
		}
		uniq = append(uniq, t)
	}
	return uniq
}

// traverse moves departure d over the edge leaving node i. It reports false
// when the SoC would fall below the reserve.
func (e *Engine) traverse(net *corridor.Network, i int, d departure) (*Label, bool) {
	edge := net.Edges[i]
	b := e.opts.Bounds
	soc := d.soc - edge.EnergyKWh/e.vehicle.BatteryKWh
	floor := b.Min
	if i+1 == net.Destination() {
		floor = e.opts.arrivalSoC()
	}
	if soc < floor {
		if soc < floor-tol {
			return nil, false
		}
		soc = floor
	}
	if soc > b.Max {
		// recuperation cannot push the battery beyond its window
		soc = b.Max
	}
	from := d.from
	charged := 0
	if !d.session.IsZero() {
		charged = 1
	}
	return &Label{
		Node:          i + 1,
		SoC:           soc,
		TimeH:         from.TimeH + d.dwellH + edge.DriveHours,
		CostEUR:       from.CostEUR + d.costEUR,
		CO2Kg:         from.CO2Kg + d.co2Kg,
		EnergyKWh:     from.EnergyKWh + d.session.GridKWh,
		DriveH:        from.DriveH + edge.DriveHours,
		ChargeH:       from.ChargeH + d.dwellH,
		DriveKWh:      from.DriveKWh + edge.EnergyKWh,
		Stops:         from.Stops + charged,
		Parent:        from,
		Charge:        d.session,
		ChargeCostEUR: d.costEUR,
		ChargeCO2Kg:   d.co2Kg,
	}, true
}
