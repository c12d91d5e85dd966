package energy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evroute/core/model"
)

func truck() model.Vehicle {
	return model.Vehicle{
		ID:            "truck",
		CurbMassKg:    40000,
		BatteryKWh:    600,
		DrivetrainEff: 0.9,
		RegenEff:      0.65,
		DragCoeff:     0.55,
		FrontalAreaM2: 9,
		RollingCoeff:  0.006,
	}
}

func TestConstantModel(t *testing.T) {
	m, err := New(model.Vehicle{BatteryKWh: 400, ConsumptionKWhPerKM: 1.5}, 0)
	require.NoError(t, err)
	e, err := m.Segment(model.RoadSegment{FromKm: 0, ToKm: 800, SpeedKmh: 80})
	require.NoError(t, err)
	assert.InDelta(t, 1200, e, 1e-9)
}

func TestPhysicsFlat(t *testing.T) {
	m, err := New(truck(), 0)
	require.NoError(t, err)
	e, err := m.Segment(model.RoadSegment{FromKm: 0, ToKm: 100, SpeedKmh: 80})
	require.NoError(t, err)

	speed := 80 / 3.6
	force := 40000*Gravity*0.006 + 0.5*DefaultAirDensity*0.55*9*speed*speed
	want := force * 100000 / 0.9 / 3.6e6
	assert.InDelta(t, want, e, 1e-9)
	// heavy trucks draw roughly 1-1.6 kWh/km at motorway speed
	assert.Greater(t, e/100, 1.0)
	assert.Less(t, e/100, 1.6)
}

func TestPhysicsGradeAndRegen(t *testing.T) {
	m := Physics{Vehicle: truck(), AirDensity: DefaultAirDensity}
	flat, err := m.Segment(model.RoadSegment{ToKm: 10, SpeedKmh: 80})
	require.NoError(t, err)
	up, err := m.Segment(model.RoadSegment{ToKm: 10, SpeedKmh: 80, ElevationDeltaM: 200})
	require.NoError(t, err)
	down, err := m.Segment(model.RoadSegment{ToKm: 10, SpeedKmh: 80, ElevationDeltaM: -600})
	require.NoError(t, err)

	assert.Greater(t, up, flat)
	assert.Less(t, down, 0.0, "steep descent should recuperate")

	// recovery never exceeds the regen share of the potential energy
	potential := 40000 * Gravity * 600 / 3.6e6
	assert.LessOrEqual(t, -down, potential*0.65+1e-9)
}

func TestPhysicsNoRegen(t *testing.T) {
	v := truck()
	v.RegenEff = 0
	m := Physics{Vehicle: v, AirDensity: DefaultAirDensity}
	e, err := m.Segment(model.RoadSegment{ToKm: 10, SpeedKmh: 80, ElevationDeltaM: -600})
	require.NoError(t, err)
	assert.Equal(t, 0.0, math.Abs(e))
}

func TestPhysicsAuxAndTemperature(t *testing.T) {
	v := truck()
	v.AuxPowerKW = 2.5
	m := Physics{Vehicle: v, AirDensity: DefaultAirDensity}
	base, err := m.Segment(model.RoadSegment{ToKm: 80, SpeedKmh: 80})
	require.NoError(t, err)

	noAux := Physics{Vehicle: truck(), AirDensity: DefaultAirDensity}
	plain, err := noAux.Segment(model.RoadSegment{ToKm: 80, SpeedKmh: 80})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, base-plain, 1e-9)

	cold := -5.0
	chilly, err := m.Segment(model.RoadSegment{ToKm: 80, SpeedKmh: 80, AmbientTempC: &cold})
	require.NoError(t, err)
	assert.InDelta(t, base*1.15, chilly, 1e-9)
}

func TestTemperatureFactor(t *testing.T) {
	vals := map[float64]float64{-3: 1.15, 5: 1.05, 20: 1}
	for temp, want := range vals {
		tc := temp
		if got := TemperatureFactor(&tc); got != want {
			t.Errorf("temp %v: want %v got %v", temp, want, got)
		}
	}
	if TemperatureFactor(nil) != 1 {
		t.Error("nil temperature should be neutral")
	}
}

func TestSegmentErrors(t *testing.T) {
	m := Constant{KWhPerKM: 1}
	_, err := m.Segment(model.RoadSegment{FromKm: 10, ToKm: 5, SpeedKmh: 80})
	assert.True(t, errors.Is(err, model.ErrConfiguration))
	_, err = m.Segment(model.RoadSegment{FromKm: 0, ToKm: 5})
	assert.True(t, errors.Is(err, model.ErrConfiguration))

	_, err = New(model.Vehicle{}, 0)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}
