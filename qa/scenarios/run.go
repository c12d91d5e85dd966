package scenarios

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/planner"
	"github.com/kilianp07/evroute/infra/logger"
	"github.com/kilianp07/evroute/infra/metrics"
)

const socTol = 1e-9

// Check compares a planner result with the scenario expectations and the
// invariants every plan must satisfy.
func Check(sc *Scenario, req planner.Request, res planner.Result, bounds model.SoCBounds) error {
	if want := sc.Expected.Status; want != "" && res.Status.String() != want {
		return fmt.Errorf("scenario %s: expected status %s, got %s", sc.Name, want, res.Status)
	}
	if want := sc.Expected.Stations; want != nil && len(req.Stations) != *want {
		return fmt.Errorf("scenario %s: expected %d stations after snapping, got %d", sc.Name, *want, len(req.Stations))
	}
	for _, p := range res.Frontier {
		if m := p.MinSoC(); m < bounds.Min-socTol {
			return fmt.Errorf("scenario %s: plan %s drops to soc %.4f", sc.Name, p.ID, m)
		}
	}
	sel := res.Selected
	if sel == nil {
		if sc.Expected.ChargeStops != nil || sc.Expected.MaxTimeH > 0 {
			return fmt.Errorf("scenario %s: no plan selected", sc.Name)
		}
		return nil
	}
	if want := sc.Expected.ChargeStops; want != nil && sel.ChargeStops != *want {
		return fmt.Errorf("scenario %s: expected %d charge stops, got %d", sc.Name, *want, sel.ChargeStops)
	}
	if limit := sc.Expected.MaxTimeH; limit > 0 && sel.TotalTimeH > limit {
		return fmt.Errorf("scenario %s: trip takes %.2f h, limit %.2f h", sc.Name, sel.TotalTimeH, limit)
	}
	return nil
}

// RunScenario plans sc with the default planner configuration, a private
// Prometheus registry and no history store, then checks the outcome.
func RunScenario(t *testing.T, sc *Scenario) planner.Result {
	t.Helper()
	sink, err := metrics.NewPromSinkWithRegistry(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	cfg := planner.DefaultConfig()
	p, err := planner.New(cfg, sink, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	req, err := sc.Request(model.Vehicle{})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	res, err := p.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("plan %s: %v", sc.Name, err)
	}
	if err := Check(sc, req, res, cfg.Search.Bounds); err != nil {
		t.Error(err)
	}
	return res
}
