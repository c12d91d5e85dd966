// Package charging models a DC fast-charging session with a constant-power
// phase up to a breakpoint and a linear power taper above it.
package charging

import (
	"math"
	"time"

	"github.com/kilianp07/evroute/core/model"
)

const (
	DefaultBreakpointSoC = 0.80
	DefaultFloorFraction = 0.50
)

// Curve describes the tapering: above BreakpointSoC the power falls
// linearly to FloorFraction of the initial power at 100% SoC.
type Curve struct {
	BreakpointSoC float64 `json:"breakpoint_soc" yaml:"breakpoint_soc"`
	FloorFraction float64 `json:"floor_fraction" yaml:"floor_fraction"`
}

// DefaultCurve returns the 80% / 50% taper.
func DefaultCurve() Curve {
	return Curve{BreakpointSoC: DefaultBreakpointSoC, FloorFraction: DefaultFloorFraction}
}

// Validate checks the curve parameters.
func (c Curve) Validate() error {
	if c.BreakpointSoC <= 0 || c.BreakpointSoC >= 1 {
		return model.ConfigErrorf("charging breakpoint %g must be within (0,1)", c.BreakpointSoC)
	}
	if c.FloorFraction <= 0 || c.FloorFraction > 1 {
		return model.ConfigErrorf("charging floor fraction %g must be within (0,1]", c.FloorFraction)
	}
	return nil
}

// slope is the relative power drop per unit of SoC above the breakpoint.
func (c Curve) slope() float64 {
	return (1 - c.FloorFraction) / (1 - c.BreakpointSoC)
}

// PowerAt returns the charger-side power at soc for an initial power p0.
func (c Curve) PowerAt(p0, soc float64) float64 {
	if soc <= c.BreakpointSoC {
		return p0
	}
	return p0 * (1 - c.slope()*(soc-c.BreakpointSoC))
}

// Session is the outcome of one charging stop.
type Session struct {
	ArrivalSoC float64
	TargetSoC  float64
	// Hours is the exact session length; Duration is its rounded form.
	Hours      float64
	Duration   time.Duration
	BatteryKWh float64
	GridKWh    float64
	PowerKW    float64
}

// IsZero reports a pass-through with no energy drawn.
func (s Session) IsZero() bool { return s.BatteryKWh == 0 }

// Model computes sessions for a given curve.
type Model struct {
	Curve Curve
}

// New returns a model for the curve after validating it.
func New(c Curve) (Model, error) {
	if err := c.Validate(); err != nil {
		return Model{}, err
	}
	return Model{Curve: c}, nil
}

// Power returns the initial charging power: the station rating capped by the
// vehicle acceptance limit.
func Power(st model.ChargingStation, v model.Vehicle) float64 {
	p := st.PowerKW
	if v.MaxChargePowerKW > 0 && v.MaxChargePowerKW < p {
		p = v.MaxChargePowerKW
	}
	return p
}

// Charge returns the session charging from arrival to target SoC. The
// target is clamped to bounds.Max; a target at or below arrival is a no-op.
func (m Model) Charge(st model.ChargingStation, arrival, target float64, v model.Vehicle, bounds model.SoCBounds) (Session, error) {
	if v.BatteryKWh <= 0 {
		return Session{}, model.ConfigErrorf("vehicle %q: battery capacity must be positive", v.ID)
	}
	if st.PowerKW <= 0 {
		return Session{}, model.ConfigErrorf("station %q: power must be positive", st.ID)
	}
	target = min(target, bounds.Max)
	p0 := Power(st, v)
	if target <= arrival {
		return Session{ArrivalSoC: arrival, TargetSoC: arrival, PowerKW: p0}, nil
	}
	eff := v.Efficiency()
	hours := m.hours(arrival, target, v.BatteryKWh, p0*eff)
	battery := (target - arrival) * v.BatteryKWh
	return Session{
		ArrivalSoC: arrival,
		TargetSoC:  target,
		Hours:      hours,
		Duration:   time.Duration(hours * float64(time.Hour)),
		BatteryKWh: battery,
		GridKWh:    battery / eff,
		PowerKW:    p0,
	}, nil
}

// hours integrates capacity/power over [s1, s2]. p is the battery-side
// constant power.
func (m Model) hours(s1, s2, capacity, p float64) float64 {
	b := m.Curve.BreakpointSoC
	var h float64
	if s1 < b {
		h += (min(s2, b) - s1) * capacity / p
	}
	if s2 > b {
		lo := max(s1, b)
		a := m.Curve.slope()
		if a == 0 {
			h += (s2 - lo) * capacity / p
		} else {
			// ∫ C / (p (1 - a (s - b))) ds
			h += capacity / (p * a) * math.Log((1-a*(lo-b))/(1-a*(s2-b)))
		}
	}
	return h
}
