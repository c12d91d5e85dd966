package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/planner"
	"github.com/kilianp07/evroute/core/search"
)

func TestScenario(t *testing.T) {
	all, err := LoadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for _, sc := range all {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadDirOrder(t *testing.T) {
	all, err := LoadDir(".")
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("no-file.yaml")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoadDefaultsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corridor: {length_km: 10}\n"), 0o600))
	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "trip.yaml", sc.Name)
}

func TestSnappedRouteDropsOffRouteStation(t *testing.T) {
	sc, err := Load("snapped_route.yaml")
	require.NoError(t, err)
	placed := sc.PlacedStations()
	require.Len(t, placed, 4)
	for i, st := range placed {
		assert.NotEqual(t, "berlin", st.ID)
		if i > 0 {
			assert.Greater(t, st.PositionKm, placed[i-1].PositionKm)
		}
	}
	c := sc.Corridor.ToModel()
	assert.InDelta(t, 665, c.LengthKm(), 40)
	assert.Less(t, placed[len(placed)-1].PositionKm, c.LengthKm())
}

func TestRequestFallbackVehicle(t *testing.T) {
	sc := &Scenario{Name: "x", Corridor: CorridorDef{LengthKm: 50}}
	fallback := model.Vehicle{ID: "cfg", BatteryKWh: 500, ConsumptionKWhPerKM: 1.2}
	req, err := sc.Request(fallback)
	require.NoError(t, err)
	assert.Equal(t, "cfg", req.Vehicle.ID)
	assert.InDelta(t, 50, req.Corridor.LengthKm(), 1e-9)
	assert.True(t, req.Departure.IsZero())
}

func TestRequestBadDeparture(t *testing.T) {
	sc := &Scenario{Name: "x", Departure: "tomorrow", Corridor: CorridorDef{LengthKm: 50}}
	_, err := sc.Request(model.Vehicle{})
	require.ErrorIs(t, err, model.ErrConfiguration)
}

func TestCheckMismatch(t *testing.T) {
	stops := 1
	sc := &Scenario{Name: "x", Expected: Expected{Status: "optimal", ChargeStops: &stops}}
	bounds := model.DefaultSoCBounds()

	err := Check(sc, planner.Request{}, planner.Result{Status: search.StatusInfeasible}, bounds)
	assert.Error(t, err)

	sel := model.RoutePlan{ID: "p", ChargeStops: 2}
	err = Check(sc, planner.Request{}, planner.Result{Status: search.StatusOptimal, Selected: &sel}, bounds)
	assert.Error(t, err)

	sel.ChargeStops = 1
	err = Check(sc, planner.Request{}, planner.Result{Status: search.StatusOptimal, Selected: &sel}, bounds)
	assert.NoError(t, err)
}
