package model

// Vehicle describes the truck for one scenario run. It is never mutated by
// the planner.
type Vehicle struct {
	ID            string  `json:"id" yaml:"id"`
	CurbMassKg    float64 `json:"curb_mass_kg" yaml:"curb_mass_kg"`
	PayloadKg     float64 `json:"payload_kg" yaml:"payload_kg"`
	BatteryKWh    float64 `json:"battery_kwh" yaml:"battery_kwh"`
	DrivetrainEff float64 `json:"drivetrain_eff" yaml:"drivetrain_eff"`
	// RegenEff is the fraction of negative mechanical work returned to the
	// battery on downhill stretches. 0 disables recuperation.
	RegenEff      float64 `json:"regen_eff" yaml:"regen_eff"`
	DragCoeff     float64 `json:"drag_coeff" yaml:"drag_coeff"`
	FrontalAreaM2 float64 `json:"frontal_area_m2" yaml:"frontal_area_m2"`
	RollingCoeff  float64 `json:"rolling_coeff" yaml:"rolling_coeff"`
	AuxPowerKW    float64 `json:"aux_power_kw" yaml:"aux_power_kw"`

	// MaxChargePowerKW caps the accepted charging power. 0 means the
	// station rating always applies.
	MaxChargePowerKW float64 `json:"max_charge_power_kw" yaml:"max_charge_power_kw"`
	// ChargeEfficiency is the grid-to-battery efficiency. 0 is read as 1.
	ChargeEfficiency float64 `json:"charge_efficiency" yaml:"charge_efficiency"`

	// ConsumptionKWhPerKM switches the energy model to a flat per-km rate
	// when positive.
	ConsumptionKWhPerKM float64 `json:"consumption_kwh_per_km" yaml:"consumption_kwh_per_km"`
}

// MassKg returns the gross mass used by the traction model.
func (v Vehicle) MassKg() float64 { return v.CurbMassKg + v.PayloadKg }

// Efficiency returns the effective charging efficiency.
func (v Vehicle) Efficiency() float64 {
	if v.ChargeEfficiency == 0 {
		return 1
	}
	return v.ChargeEfficiency
}

// Validate checks that the vehicle configuration is sound.
//
//gocyclo:ignore
func (v Vehicle) Validate() error {
	if v.BatteryKWh <= 0 {
		return ConfigErrorf("vehicle %q: battery capacity must be positive", v.ID)
	}
	if v.ChargeEfficiency < 0 || v.ChargeEfficiency > 1 {
		return ConfigErrorf("vehicle %q: charge efficiency must be within (0,1]", v.ID)
	}
	if v.MaxChargePowerKW < 0 {
		return ConfigErrorf("vehicle %q: max charge power must not be negative", v.ID)
	}
	if v.ConsumptionKWhPerKM > 0 {
		return nil
	}
	if v.ConsumptionKWhPerKM < 0 {
		return ConfigErrorf("vehicle %q: consumption must not be negative", v.ID)
	}
	if v.MassKg() <= 0 {
		return ConfigErrorf("vehicle %q: mass must be positive", v.ID)
	}
	if v.DrivetrainEff <= 0 || v.DrivetrainEff > 1 {
		return ConfigErrorf("vehicle %q: drivetrain efficiency must be within (0,1]", v.ID)
	}
	if v.RegenEff < 0 || v.RegenEff > 1 {
		return ConfigErrorf("vehicle %q: regen efficiency must be within [0,1]", v.ID)
	}
	if v.DragCoeff < 0 || v.FrontalAreaM2 < 0 || v.RollingCoeff < 0 || v.AuxPowerKW < 0 {
		return ConfigErrorf("vehicle %q: resistance coefficients must not be negative", v.ID)
	}
	return nil
}

// SoCBounds is the admissible state-of-charge window as fractions of
// capacity.
type SoCBounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultSoCBounds keeps a 10% reserve and allows a full charge.
func DefaultSoCBounds() SoCBounds { return SoCBounds{Min: 0.10, Max: 1.00} }

// Validate ensures 0 <= Min < Max <= 1.
func (b SoCBounds) Validate() error {
	if b.Min < 0 || b.Max > 1 || b.Min >= b.Max {
		return ConfigErrorf("soc bounds [%g, %g] must satisfy 0 <= min < max <= 1", b.Min, b.Max)
	}
	return nil
}

// Contains reports whether soc lies inside the window.
func (b SoCBounds) Contains(soc float64) bool {
	return soc >= b.Min && soc <= b.Max
}

// Clamp limits soc to the window.
func (b SoCBounds) Clamp(soc float64) float64 {
	return min(max(soc, b.Min), b.Max)
}
