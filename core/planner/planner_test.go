package planner

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evroute/core/frontier"
	"github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/plans"
	"github.com/kilianp07/evroute/core/search"
)

type captureSink struct {
	mu    sync.Mutex
	plans []metrics.PlanEvent
	stops []metrics.ChargeStopEvent
}

func (c *captureSink) RecordPlan(ev metrics.PlanEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans = append(c.plans, ev)
	return nil
}

func (c *captureSink) RecordChargeStops(evs []metrics.ChargeStopEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops = append(c.stops, evs...)
	return nil
}

func hamburgMunich(stations []model.ChargingStation) Request {
	return Request{
		Scenario: "hamburg-munich",
		Vehicle:  model.Vehicle{ID: "truck", BatteryKWh: 600, ConsumptionKWhPerKM: 1.5},
		Corridor: model.FlatCorridor("Hamburg", "Munich", 800, 80),
		Stations: stations,
	}
}

func stations() []model.ChargingStation {
	return []model.ChargingStation{
		{ID: "s300", PositionKm: 300, PowerKW: 150, Region: "TenneT", PriceEURPerKWh: 0.25},
		{ID: "s550", PositionKm: 550, PowerKW: 350, Region: "TransnetBW", PriceEURPerKWh: 0.45},
	}
}

func TestPlanTwoStops(t *testing.T) {
	store, err := plans.NewJSONLStore(filepath.Join(t.TempDir(), "plans.jsonl"))
	require.NoError(t, err)
	sink := &captureSink{}
	p, err := New(DefaultConfig(), sink, store, nil)
	require.NoError(t, err)

	res, err := p.Plan(context.Background(), hamburgMunich(stations()))
	require.NoError(t, err)
	require.NoError(t, res.Err())
	assert.Equal(t, search.StatusOptimal, res.Status)
	assert.NotEmpty(t, res.RunID)
	require.NotEmpty(t, res.Frontier)
	assert.True(t, res.Summary.Feasible)
	assert.Equal(t, len(res.Frontier), res.Summary.NSolutions)

	require.NotNil(t, res.Selected)
	sel := res.Selected
	assert.Equal(t, 2, sel.ChargeStops)
	assert.Equal(t, res.Frontier[0].ID, sel.ID, "time first picks the fastest plan")
	assert.GreaterOrEqual(t, sel.MinSoC(), 0.1-1e-9)
	assert.InDelta(t, 0.1, sel.FinalSoC, 1e-9)

	require.Len(t, sink.plans, 1)
	assert.Equal(t, "optimal", sink.plans[0].Status)
	assert.Equal(t, res.RunID, sink.plans[0].RunID)
	assert.InDelta(t, sel.TotalTimeH, sink.plans[0].TimeH, 1e-12)
	require.Len(t, sink.stops, 2)
	assert.Equal(t, "TenneT", sink.stops[0].Region)
	assert.Equal(t, "TransnetBW", sink.stops[1].Region)

	recs, err := store.Query(context.Background(), plans.PlanQuery{RunID: res.RunID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "hamburg-munich", recs[0].Scenario)
	require.NotNil(t, recs[0].Selected)
	assert.Equal(t, sel.ID, recs[0].Selected.ID)
}

func TestPlanNoStationsInfeasible(t *testing.T) {
	sink := &captureSink{}
	p, err := New(DefaultConfig(), sink, nil, nil)
	require.NoError(t, err)

	res, err := p.Plan(context.Background(), hamburgMunich(nil))
	require.NoError(t, err)
	assert.Equal(t, search.StatusInfeasible, res.Status)
	assert.True(t, errors.Is(res.Err(), search.ErrInfeasible))
	assert.Empty(t, res.Frontier)
	assert.Nil(t, res.Selected)
	assert.False(t, res.Summary.Feasible)
	require.Len(t, sink.plans, 1)
	assert.Equal(t, "infeasible", sink.plans[0].Status)
	assert.Empty(t, sink.stops)
}

func TestPlanConfigurationErrors(t *testing.T) {
	p, err := New(DefaultConfig(), nil, nil, nil)
	require.NoError(t, err)

	bad := stations()
	bad[1].Region = "Narnia"
	_, err = p.Plan(context.Background(), hamburgMunich(bad))
	assert.True(t, errors.Is(err, model.ErrConfiguration))

	unordered := stations()
	unordered[0].PositionKm, unordered[1].PositionKm = 550, 300
	_, err = p.Plan(context.Background(), hamburgMunich(unordered))
	assert.True(t, errors.Is(err, model.ErrConfiguration))

	req := hamburgMunich(stations())
	req.Vehicle.BatteryKWh = 0
	_, err = p.Plan(context.Background(), req)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestPlanModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModePareto
	p, err := New(cfg, nil, nil, nil)
	require.NoError(t, err)
	res, err := p.Plan(context.Background(), hamburgMunich(stations()))
	require.NoError(t, err)
	assert.Nil(t, res.Selected)
	require.Greater(t, len(res.Frontier), 1, "a cheap slow station and a fast dear one trade off")

	cfg.Mode = ModeWeighted
	cfg.Weights = frontier.Weighted{Cost: 1}
	p, err = New(cfg, nil, nil, nil)
	require.NoError(t, err)
	cheap, err := p.Plan(context.Background(), hamburgMunich(stations()))
	require.NoError(t, err)
	require.NotNil(t, cheap.Selected)
	assert.InDelta(t, cheap.Summary.Ranges[frontier.Cost].Min, cheap.Selected.TotalCostEUR, 1e-9)

	cfg.Mode = "random"
	_, err = New(cfg, nil, nil, nil)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestPlanBudgetExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.MaxLabels = 5
	p, err := New(cfg, nil, nil, nil)
	require.NoError(t, err)
	res, err := p.Plan(context.Background(), hamburgMunich(stations()))
	require.NoError(t, err)
	assert.Equal(t, search.StatusBudgetExceeded, res.Status)
	assert.True(t, errors.Is(res.Err(), search.ErrBudgetExceeded))
	assert.Empty(t, res.Frontier)
}

func TestPlanPhysicsModel(t *testing.T) {
	temp := -5.0
	req := Request{
		Vehicle: model.Vehicle{
			ID: "eactros", CurbMassKg: 16000, PayloadKg: 20000, BatteryKWh: 600,
			DrivetrainEff: 0.9, RegenEff: 0.65, DragCoeff: 0.6, FrontalAreaM2: 10,
			RollingCoeff: 0.006, AuxPowerKW: 2.5, ChargeEfficiency: 0.93,
		},
		Corridor: model.Corridor{Origin: "A", Destination: "B", Segments: []model.RoadSegment{
			{FromKm: 0, ToKm: 150, ElevationDeltaM: 300, SpeedKmh: 80, AmbientTempC: &temp},
			{FromKm: 150, ToKm: 300, ElevationDeltaM: -300, SpeedKmh: 80},
		}},
		Stations: []model.ChargingStation{{ID: "mid", PositionKm: 150, PowerKW: 400, Region: "DE"}},
	}
	p, err := New(DefaultConfig(), nil, nil, nil)
	require.NoError(t, err)
	res, err := p.Plan(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, search.StatusOptimal, res.Status)
	for _, plan := range res.Frontier {
		assert.Greater(t, plan.DrivingEnergyKWh, 0.0)
		assert.GreaterOrEqual(t, plan.MinSoC(), 0.1-1e-9)
	}
}

func TestPlanConcurrent(t *testing.T) {
	p, err := New(DefaultConfig(), &captureSink{}, nil, nil)
	require.NoError(t, err)
	want, err := p.Plan(context.Background(), hamburgMunich(stations()))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Plan(context.Background(), hamburgMunich(stations()))
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Len(t, r.Frontier, len(want.Frontier))
		for k := range r.Frontier {
			assert.Equal(t, want.Frontier[k].TotalTimeH, r.Frontier[k].TotalTimeH)
			assert.Equal(t, want.Frontier[k].TotalCostEUR, r.Frontier[k].TotalCostEUR)
		}
	}
}

type mockSink struct{ mock.Mock }

func (m *mockSink) RecordPlan(ev metrics.PlanEvent) error {
	return m.Called(ev).Error(0)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Append(ctx context.Context, rec plans.PlanRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) Query(ctx context.Context, q plans.PlanQuery) ([]plans.PlanRecord, error) {
	args := m.Called(ctx, q)
	recs, _ := args.Get(0).([]plans.PlanRecord)
	return recs, args.Error(1)
}

func (m *mockStore) Close() error { return m.Called().Error(0) }

func TestPlanSurvivesSinkAndStoreFailures(t *testing.T) {
	sink := &mockSink{}
	sink.On("RecordPlan", mock.MatchedBy(func(ev metrics.PlanEvent) bool {
		return ev.Status == "optimal" && ev.ChargeStops == 2 && ev.Scenario == "hamburg-munich"
	})).Return(errors.New("sink down")).Once()
	store := &mockStore{}
	store.On("Append", mock.Anything, mock.MatchedBy(func(rec plans.PlanRecord) bool {
		return rec.Status == "optimal" && rec.Mode == string(ModeLexicographic) && rec.Selected != nil
	})).Return(errors.New("disk full")).Once()

	p, err := New(DefaultConfig(), sink, store, nil)
	require.NoError(t, err)
	res, err := p.Plan(context.Background(), hamburgMunich(stations()))
	require.NoError(t, err)
	assert.Equal(t, search.StatusOptimal, res.Status)

	sink.AssertExpectations(t)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}
