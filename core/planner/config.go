package planner

import (
	"github.com/kilianp07/evroute/core/charging"
	"github.com/kilianp07/evroute/core/emission"
	"github.com/kilianp07/evroute/core/energy"
	"github.com/kilianp07/evroute/core/frontier"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/search"
)

// Mode selects how a single plan is picked from the frontier.
type Mode string

const (
	// ModePareto returns the frontier without selecting a plan.
	ModePareto        Mode = "pareto"
	ModeWeighted      Mode = "weighted"
	ModeLexicographic Mode = "lexicographic"
)

// Config gathers the model parameters of a planner.
type Config struct {
	Search          search.Options
	Curve           charging.Curve
	Emissions       emission.Table
	AirDensity      float64
	SkipUnavailable bool

	Mode          Mode
	Weights       frontier.Weighted
	Lexicographic frontier.Lexicographic
}

// DefaultConfig returns a planner that searches with the default options and
// picks the fastest plan.
func DefaultConfig() Config {
	return Config{
		Search:     search.DefaultOptions(),
		Curve:      charging.DefaultCurve(),
		Emissions:  emission.DefaultTable(),
		AirDensity: energy.DefaultAirDensity,
		Mode:       ModeLexicographic,
		Lexicographic: frontier.Lexicographic{
			Order: []frontier.Objective{frontier.Time, frontier.Cost, frontier.CO2},
		},
	}
}

// Validate checks every section of the configuration.
func (c Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Curve.Validate(); err != nil {
		return err
	}
	if err := c.Emissions.Validate(); err != nil {
		return err
	}
	if c.AirDensity < 0 {
		return model.ConfigErrorf("air density must not be negative")
	}
	_, err := c.Selector()
	return err
}

// Selector returns the frontier selector for the configured mode, or nil in
// pareto mode.
func (c Config) Selector() (frontier.Selector, error) {
	switch c.Mode {
	case ModePareto, "":
		return nil, nil
	case ModeWeighted:
		if err := c.Weights.Validate(); err != nil {
			return nil, err
		}
		return c.Weights, nil
	case ModeLexicographic:
		if err := c.Lexicographic.Validate(); err != nil {
			return nil, err
		}
		return c.Lexicographic, nil
	}
	return nil, model.ConfigErrorf("unknown objective mode %q", c.Mode)
}
