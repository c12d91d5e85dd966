// Package emission converts purchased grid energy into CO₂ mass using
// regional, optionally hourly, carbon-intensity factors.
package emission

import (
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/evroute/core/model"
)

// ErrUnknownRegion is returned for a station whose region tag has no factor.
var ErrUnknownRegion = fmt.Errorf("%w: unknown grid region", model.ErrConfiguration)

// Table maps region tags to grid carbon intensity in gCO₂/kWh.
type Table struct {
	Regions map[string]float64 `json:"regions" yaml:"regions"`
	// Hourly optionally holds 24 factors per region indexed by local hour.
	Hourly map[string][]float64 `json:"hourly,omitempty" yaml:"hourly,omitempty"`
}

// DefaultTable returns average factors for the German transmission zones.
func DefaultTable() Table {
	return Table{Regions: map[string]float64{
		"DE":         420,
		"50Hertz":    460,
		"Amprion":    450,
		"TenneT":     350,
		"TransnetBW": 390,
	}}
}

// Validate checks factor signs and hourly profile lengths.
func (t Table) Validate() error {
	if len(t.Regions) == 0 && len(t.Hourly) == 0 {
		return model.ConfigErrorf("emission table is empty")
	}
	for _, r := range t.regions() {
		if f, ok := t.Regions[r]; ok && f < 0 {
			return model.ConfigErrorf("region %q: negative intensity", r)
		}
		if h, ok := t.Hourly[r]; ok {
			if len(h) != 24 {
				return model.ConfigErrorf("region %q: hourly profile needs 24 values, got %d", r, len(h))
			}
			for _, f := range h {
				if f < 0 {
					return model.ConfigErrorf("region %q: negative hourly intensity", r)
				}
			}
		}
	}
	return nil
}

// regions lists all known tags in sorted order.
func (t Table) regions() []string {
	seen := map[string]struct{}{}
	for r := range t.Regions {
		seen[r] = struct{}{}
	}
	for r := range t.Hourly {
		seen[r] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Intensity returns the factor in gCO₂/kWh for region at time at.
func (t Table) Intensity(region string, at time.Time) (float64, error) {
	if h, ok := t.Hourly[region]; ok && len(h) == 24 {
		return h[at.Hour()], nil
	}
	if f, ok := t.Regions[region]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownRegion, region)
}

// TimeVarying reports whether region has an hourly profile with more than
// one distinct factor.
func (t Table) TimeVarying(region string) bool {
	h, ok := t.Hourly[region]
	if !ok || len(h) != 24 {
		return false
	}
	for _, f := range h[1:] {
		if f != h[0] {
			return true
		}
	}
	return false
}

// Emissions returns the CO₂ mass in kg caused by drawing gridKWh at st.
func (t Table) Emissions(st model.ChargingStation, gridKWh float64, at time.Time) (float64, error) {
	f, err := t.Intensity(st.Region, at)
	if err != nil {
		return 0, fmt.Errorf("station %s: %w", st.ID, err)
	}
	return gridKWh * f / 1000, nil
}

// CheckStations fails on the first station whose region is not covered.
func (t Table) CheckStations(stations []model.ChargingStation) error {
	for _, st := range stations {
		if _, err := t.Intensity(st.Region, time.Time{}); err != nil {
			return fmt.Errorf("station %s: %w", st.ID, err)
		}
	}
	return nil
}
