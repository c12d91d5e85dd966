package config

import (
	"time"

	"github.com/kilianp07/evroute/core/charging"
	"github.com/kilianp07/evroute/core/energy"
	"github.com/kilianp07/evroute/core/frontier"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/search"
)

// BatteryConfig bounds the usable state of charge.
type BatteryConfig struct {
	// SoCMin and SoCMax default to 0.10 and 1.00 when zero.
	SoCMin float64 `json:"soc_min"`
	SoCMax float64 `json:"soc_max"`
	// InitialSoC at the origin; 0 means SoCMax.
	InitialSoC float64 `json:"initial_soc"`
	// ArrivalSoC required at the destination; 0 means SoCMin.
	ArrivalSoC float64 `json:"arrival_soc"`
}

// SetDefaults applies the 10% reserve and full charge at departure.
func (c *BatteryConfig) SetDefaults() {
	d := model.DefaultSoCBounds()
	if c.SoCMin == 0 {
		c.SoCMin = d.Min
	}
	if c.SoCMax == 0 {
		c.SoCMax = d.Max
	}
}

// Bounds returns the configured SoC window.
func (c BatteryConfig) Bounds() model.SoCBounds {
	return model.SoCBounds{Min: c.SoCMin, Max: c.SoCMax}
}

// Validate checks the SoC window.
func (c BatteryConfig) Validate() error {
	return c.Bounds().Validate()
}

// ChargingConfig shapes the charging curve.
type ChargingConfig struct {
	BreakpointSoC float64 `json:"breakpoint_soc"`
	FloorFraction float64 `json:"floor_fraction"`
}

// SetDefaults applies the 80% breakpoint and 50% floor.
func (c *ChargingConfig) SetDefaults() {
	if c.BreakpointSoC == 0 {
		c.BreakpointSoC = charging.DefaultBreakpointSoC
	}
	if c.FloorFraction == 0 {
		c.FloorFraction = charging.DefaultFloorFraction
	}
}

// Curve returns the charging curve.
func (c ChargingConfig) Curve() charging.Curve {
	return charging.Curve{BreakpointSoC: c.BreakpointSoC, FloorFraction: c.FloorFraction}
}

// Validate checks the curve parameters.
func (c ChargingConfig) Validate() error { return c.Curve().Validate() }

// SearchConfig controls the label-setting search.
type SearchConfig struct {
	ChargeStep float64 `json:"charge_step"`
	// ExactNeedTargets defaults to true when omitted.
	ExactNeedTargets    *bool   `json:"exact_need_targets"`
	MaxLabels           int     `json:"max_labels"`
	TimeBudgetSeconds   float64 `json:"time_budget_seconds"`
	StopOverheadMinutes float64 `json:"stop_overhead_minutes"`
	SkipUnavailable     bool    `json:"skip_unavailable"`
	// Departure is an RFC 3339 timestamp anchoring hourly emission factors.
	Departure string `json:"departure"`
}

// SetDefaults applies the 5% charge step.
func (c *SearchConfig) SetDefaults() {
	if c.ChargeStep == 0 {
		c.ChargeStep = search.DefaultChargeStep
	}
	if c.ExactNeedTargets == nil {
		on := true
		c.ExactNeedTargets = &on
	}
}

// Validate checks ranges and the departure format.
func (c SearchConfig) Validate() error {
	if c.ChargeStep <= 0 || c.ChargeStep > 1 {
		return model.ConfigErrorf("search.charge_step %g must be within (0,1]", c.ChargeStep)
	}
	if c.MaxLabels < 0 || c.TimeBudgetSeconds < 0 || c.StopOverheadMinutes < 0 {
		return model.ConfigErrorf("search budgets and overhead must not be negative")
	}
	if _, err := c.DepartureTime(); err != nil {
		return err
	}
	return nil
}

// DepartureTime parses Departure; an empty value yields the zero time.
func (c SearchConfig) DepartureTime() (time.Time, error) {
	if c.Departure == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, c.Departure)
	if err != nil {
		return time.Time{}, model.ConfigErrorf("search.departure: %v", err)
	}
	return t, nil
}

// ObjectiveConfig selects how a plan is picked from the frontier.
type ObjectiveConfig struct {
	// Mode is "pareto", "weighted" or "lexicographic".
	Mode      string            `json:"mode"`
	Weights   frontier.Weighted `json:"weights"`
	Order     []string          `json:"order"`
	Tolerance float64           `json:"tolerance"`
}

// SetDefaults picks the fastest plan, breaking ties by cost then CO₂.
func (c *ObjectiveConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "lexicographic"
	}
	if len(c.Order) == 0 {
		c.Order = []string{"time", "cost", "co2"}
	}
	if c.Mode == "weighted" && c.Weights == (frontier.Weighted{}) {
		c.Weights = frontier.Weighted{Time: 1, Cost: 1, CO2: 1}
	}
}

// Lexicographic converts the order and tolerance.
func (c ObjectiveConfig) Lexicographic() (frontier.Lexicographic, error) {
	l := frontier.Lexicographic{Tolerance: c.Tolerance}
	for _, s := range c.Order {
		o, err := frontier.ParseObjective(s)
		if err != nil {
			return l, err
		}
		l.Order = append(l.Order, o)
	}
	return l, l.Validate()
}

// Validate checks the mode and its parameters.
func (c ObjectiveConfig) Validate() error {
	switch c.Mode {
	case "pareto":
		return nil
	case "weighted":
		return c.Weights.Validate()
	case "lexicographic":
		_, err := c.Lexicographic()
		return err
	}
	return model.ConfigErrorf("objective.mode %q must be pareto, weighted or lexicographic", c.Mode)
}

// TariffConfig prices energy at stations without their own tariff.
type TariffConfig struct {
	DefaultEURPerKWh float64 `json:"default_eur_per_kwh"`
}

// SetDefaults applies the 0.32 €/kWh fallback tariff.
func (c *TariffConfig) SetDefaults() {
	if c.DefaultEURPerKWh == 0 {
		c.DefaultEURPerKWh = search.DefaultPriceEURPerKWh
	}
}

// Validate rejects negative prices.
func (c TariffConfig) Validate() error {
	if c.DefaultEURPerKWh < 0 {
		return model.ConfigErrorf("tariff.default_eur_per_kwh must not be negative")
	}
	return nil
}

// EnergyConfig holds physical constants of the consumption model.
type EnergyConfig struct {
	AirDensity float64 `json:"air_density"`
}

// SetDefaults applies sea-level air density.
func (c *EnergyConfig) SetDefaults() {
	if c.AirDensity == 0 {
		c.AirDensity = energy.DefaultAirDensity
	}
}

// Validate rejects non-positive densities.
func (c EnergyConfig) Validate() error {
	if c.AirDensity <= 0 {
		return model.ConfigErrorf("energy.air_density must be positive")
	}
	return nil
}

// APIConfig enables the plan history endpoint when Addr is set.
type APIConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}

// Validate rejects a token without an address.
func (c APIConfig) Validate() error {
	if c.Token != "" && c.Addr == "" {
		return model.ConfigErrorf("api.token is set but api.addr is empty")
	}
	return nil
}
