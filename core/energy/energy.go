// Package energy converts road segments into battery energy draw.
package energy

import (
	"math"

	"github.com/kilianp07/evroute/core/model"
)

const (
	// Gravity in m/s².
	Gravity = 9.81
	// DefaultAirDensity is sea-level air at 15 °C in kg/m³.
	DefaultAirDensity = 1.225

	joulesPerKWh = 3.6e6
)

// Model returns the energy in kWh drawn from the battery over a segment.
// Negative values mean net recuperation.
type Model interface {
	Segment(seg model.RoadSegment) (float64, error)
}

// New picks the flat-rate model when the vehicle carries a per-km
// consumption and the physics model otherwise.
func New(v model.Vehicle, airDensity float64) (Model, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if v.ConsumptionKWhPerKM > 0 {
		return Constant{KWhPerKM: v.ConsumptionKWhPerKM}, nil
	}
	if airDensity <= 0 {
		airDensity = DefaultAirDensity
	}
	return Physics{Vehicle: v, AirDensity: airDensity}, nil
}

// Constant applies a fixed consumption per kilometre.
type Constant struct {
	KWhPerKM float64
}

// Segment implements Model.
func (c Constant) Segment(seg model.RoadSegment) (float64, error) {
	if err := checkSegment(seg); err != nil {
		return 0, err
	}
	return seg.Length() * c.KWhPerKM, nil
}

// Physics integrates rolling resistance, aerodynamic drag and grade
// resistance at the segment's average speed.
type Physics struct {
	Vehicle    model.Vehicle
	AirDensity float64
}

// Segment implements Model.
func (p Physics) Segment(seg model.RoadSegment) (float64, error) {
	if err := checkSegment(seg); err != nil {
		return 0, err
	}
	distM := seg.Length() * 1000
	if distM == 0 {
		return 0, nil
	}
	v := p.Vehicle
	speed := seg.SpeedKmh / 3.6
	mass := v.MassKg()

	rolling := mass * Gravity * v.RollingCoeff
	aero := 0.5 * p.AirDensity * v.DragCoeff * v.FrontalAreaM2 * speed * speed
	grade := mass * Gravity * math.Sin(math.Atan2(seg.ElevationDeltaM, distM))

	work := (rolling + aero + grade) * distM
	var battery float64
	if work >= 0 {
		battery = work / v.DrivetrainEff
	} else {
		// only the downhill surplus is recovered, scaled by regen efficiency
		battery = work * v.RegenEff
	}
	hours := seg.Length() / seg.SpeedKmh
	kwh := battery/joulesPerKWh + v.AuxPowerKW*hours
	if kwh > 0 {
		kwh *= TemperatureFactor(seg.AmbientTempC)
	}
	return kwh, nil
}

// TemperatureFactor derates consumption in cold weather.
func TemperatureFactor(tempC *float64) float64 {
	if tempC == nil {
		return 1
	}
	switch {
	case *tempC < 0:
		return 1.15
	case *tempC < 10:
		return 1.05
	default:
		return 1
	}
}

func checkSegment(seg model.RoadSegment) error {
	if seg.ToKm < seg.FromKm || seg.DistanceKm < 0 {
		return model.ConfigErrorf("segment %g-%g km: negative distance", seg.FromKm, seg.ToKm)
	}
	if seg.Length() > 0 && seg.SpeedKmh <= 0 {
		return model.ConfigErrorf("segment %g-%g km: speed must be positive", seg.FromKm, seg.ToKm)
	}
	return nil
}
