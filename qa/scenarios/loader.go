// Package scenarios loads trip datasets from YAML and checks planner runs
// against the outcome each dataset expects. The CLI batch command and the
// QA tests share the same files.
package scenarios

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evroute/core/corridor"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/planner"
)

// CorridorDef describes the road either by explicit segments, by a length
// and speed for a flat road, or by a lon/lat route used for station
// snapping.
type CorridorDef struct {
	Origin       string              `yaml:"origin"`
	Destination  string              `yaml:"destination"`
	Segments     []model.RoadSegment `yaml:"segments,omitempty"`
	LengthKm     float64             `yaml:"length_km,omitempty"`
	SpeedKmh     float64             `yaml:"speed_kmh,omitempty"`
	Route        [][2]float64        `yaml:"route,omitempty"`
	SnapBufferKm float64             `yaml:"snap_buffer_km,omitempty"`
}

const defaultSpeedKmh = 80

func (c CorridorDef) line() orb.LineString {
	ls := make(orb.LineString, len(c.Route))
	for i, p := range c.Route {
		ls[i] = orb.Point{p[0], p[1]}
	}
	return ls
}

// ToModel returns the corridor. Without segments, a flat road of LengthKm
// (or of the route length) is assumed.
func (c CorridorDef) ToModel() model.Corridor {
	if len(c.Segments) > 0 {
		return model.Corridor{Origin: c.Origin, Destination: c.Destination, Segments: c.Segments}
	}
	length := c.LengthKm
	if length == 0 && len(c.Route) > 1 {
		length = geo.LengthHaversine(c.line()) / 1000
	}
	speed := c.SpeedKmh
	if speed == 0 {
		speed = defaultSpeedKmh
	}
	return model.FlatCorridor(c.Origin, c.Destination, length, speed)
}

// Expected is the outcome a scenario asserts.
type Expected struct {
	// Status is "optimal", "infeasible", "budget_exceeded" or "cancelled".
	Status string `yaml:"status"`
	// ChargeStops of the selected plan, when set.
	ChargeStops *int `yaml:"charge_stops,omitempty"`
	// MaxTimeH bounds the selected plan's trip time, when positive.
	MaxTimeH float64 `yaml:"max_time_h,omitempty"`
	// Stations is the number of stations left after snapping, when set.
	Stations *int `yaml:"stations,omitempty"`
}

type Scenario struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description,omitempty"`
	Departure   string                  `yaml:"departure,omitempty"`
	Vehicle     *model.Vehicle          `yaml:"vehicle,omitempty"`
	Corridor    CorridorDef             `yaml:"corridor"`
	Stations    []model.ChargingStation `yaml:"stations"`
	Expected    Expected                `yaml:"expected"`
}

// Load reads one scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	return &sc, nil
}

// LoadDir loads every *.yaml file of dir in name order.
func LoadDir(dir string) ([]*Scenario, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	out := make([]*Scenario, 0, len(files))
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// PlacedStations returns the stations with route-snapped positions when a
// route is given.
func (s *Scenario) PlacedStations() []model.ChargingStation {
	if len(s.Corridor.Route) == 0 {
		return s.Stations
	}
	return corridor.Snap(s.Corridor.line(), s.Stations, s.Corridor.SnapBufferKm)
}

// Request builds the planner request. fallback is used when the scenario
// does not define its own vehicle.
func (s *Scenario) Request(fallback model.Vehicle) (planner.Request, error) {
	req := planner.Request{
		Scenario: s.Name,
		Vehicle:  fallback,
		Corridor: s.Corridor.ToModel(),
		Stations: s.PlacedStations(),
	}
	if s.Vehicle != nil {
		req.Vehicle = *s.Vehicle
	}
	if s.Departure != "" {
		t, err := time.Parse(time.RFC3339, s.Departure)
		if err != nil {
			return req, model.ConfigErrorf("scenario %s: departure: %v", s.Name, err)
		}
		req.Departure = t
	}
	return req, nil
}
