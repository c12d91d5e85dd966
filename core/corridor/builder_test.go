package corridor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evroute/core/energy"
	"github.com/kilianp07/evroute/core/model"
)

var flatRate = energy.Constant{KWhPerKM: 1.5}

func stations() []model.ChargingStation {
	return []model.ChargingStation{
		{ID: "hannover", PositionKm: 300, PowerKW: 150, Region: "TenneT"},
		{ID: "wuerzburg", PositionKm: 550, PowerKW: 350, Region: "TenneT"},
	}
}

func TestBuildFlatCorridor(t *testing.T) {
	c := model.FlatCorridor("Hamburg", "Munich", 800, 80)
	net, err := Build(c, stations(), flatRate, Options{})
	require.NoError(t, err)
	require.Len(t, net.Nodes, 4)
	require.Len(t, net.Edges, 3)

	assert.Equal(t, model.NodeOrigin, net.Nodes[0].Kind)
	assert.Equal(t, "Hamburg", net.Nodes[0].ID)
	assert.Equal(t, model.NodeDestination, net.Nodes[3].Kind)
	assert.Equal(t, 800.0, net.Nodes[3].PositionKm)
	assert.Equal(t, 2, net.Stations())

	want := []float64{450, 375, 375}
	for i, e := range net.Edges {
		assert.Less(t, net.Nodes[e.From].PositionKm, net.Nodes[e.To].PositionKm)
		assert.InDelta(t, want[i], e.EnergyKWh, 1e-9)
	}
	assert.InDelta(t, 1200, net.EnergyBetween(0, 3), 1e-9)
	assert.InDelta(t, 300.0/80, net.Edges[0].DriveHours, 1e-12)
}

func TestBuildSlicesSegments(t *testing.T) {
	c := model.Corridor{Segments: []model.RoadSegment{
		{FromKm: 0, ToKm: 100, SpeedKmh: 100, ElevationDeltaM: 200},
		{FromKm: 100, ToKm: 200, SpeedKmh: 50, ElevationDeltaM: -100},
	}}
	st := []model.ChargingStation{{ID: "mid", PositionKm: 150, PowerKW: 350, Region: "DE"}}
	net, err := Build(c, st, flatRate, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 150, net.Edges[0].DistanceKm, 1e-9)
	assert.InDelta(t, 150, net.Edges[0].ElevationDeltaM, 1e-9)
	assert.InDelta(t, 1.0+1.0, net.Edges[0].DriveHours, 1e-12)
	assert.InDelta(t, -50, net.Edges[1].ElevationDeltaM, 1e-9)
	assert.Equal(t, "origin", net.Nodes[0].ID)
}

func TestBuildSkipsUnavailable(t *testing.T) {
	st := stations()
	st[0].Unavailable = true
	c := model.FlatCorridor("A", "B", 800, 80)

	net, err := Build(c, st, flatRate, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, net.Stations())

	net, err = Build(c, st, flatRate, Options{SkipUnavailable: true})
	require.NoError(t, err)
	assert.Equal(t, 1, net.Stations())
	assert.InDelta(t, 825, net.Edges[0].EnergyKWh, 1e-9)
}

func TestBuildNoStations(t *testing.T) {
	net, err := Build(model.FlatCorridor("A", "B", 800, 80), nil, flatRate, Options{})
	require.NoError(t, err)
	require.Len(t, net.Edges, 1)
	assert.InDelta(t, 1200, net.Edges[0].EnergyKWh, 1e-9)
}

func TestBuildValidation(t *testing.T) {
	c := model.FlatCorridor("A", "B", 800, 80)
	cases := map[string]struct {
		corridor model.Corridor
		stations []model.ChargingStation
	}{
		"non-monotonic": {c, []model.ChargingStation{
			{ID: "b", PositionKm: 500, PowerKW: 150},
			{ID: "a", PositionKm: 300, PowerKW: 150},
		}},
		"duplicate":     {c, []model.ChargingStation{{ID: "a", PositionKm: 1, PowerKW: 1}, {ID: "a", PositionKm: 2, PowerKW: 1}}},
		"outside":       {c, []model.ChargingStation{{ID: "a", PositionKm: 900, PowerKW: 150}}},
		"no power":      {c, []model.ChargingStation{{ID: "a", PositionKm: 10}}},
		"empty":         {model.Corridor{}, nil},
		"gap":           {model.Corridor{Segments: []model.RoadSegment{{ToKm: 10, SpeedKmh: 80}, {FromKm: 12, ToKm: 20, SpeedKmh: 80}}}, nil},
		"backwards":     {model.Corridor{Segments: []model.RoadSegment{{ToKm: 10, SpeedKmh: 80}, {FromKm: 10, ToKm: 5, SpeedKmh: 80}}}, nil},
		"missing speed": {model.Corridor{Segments: []model.RoadSegment{{ToKm: 10}}}, nil},
	}
	for name, tc := range cases {
		_, err := Build(tc.corridor, tc.stations, flatRate, Options{})
		if !errors.Is(err, model.ErrConfiguration) {
			t.Errorf("%s: expected configuration error, got %v", name, err)
		}
	}
}
