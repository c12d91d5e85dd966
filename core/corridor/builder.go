// Package corridor assembles the directed acyclic graph of charging
// opportunities along a single origin-destination road corridor.
package corridor

import (
	"fmt"
	"math"

	"github.com/kilianp07/evroute/core/energy"
	"github.com/kilianp07/evroute/core/model"
)

const posEpsilon = 1e-6

// Node is a point of the network ordered by corridor position.
type Node struct {
	ID         string
	Kind       model.NodeKind
	PositionKm float64
	// Station is set for NodeStation only.
	Station *model.ChargingStation
}

// Edge joins two consecutive nodes. Edges always point towards the
// destination.
type Edge struct {
	From, To        int
	DistanceKm      float64
	ElevationDeltaM float64
	DriveHours      float64
	EnergyKWh       float64
}

// Network is the immutable graph consumed by the search engine. Node i is
// connected to node i+1 by Edges[i].
type Network struct {
	Corridor model.Corridor
	Nodes    []Node
	Edges    []Edge
}

// Origin returns the index of the origin node.
func (n *Network) Origin() int { return 0 }

// Destination returns the index of the destination node.
func (n *Network) Destination() int { return len(n.Nodes) - 1 }

// Stations returns the station count.
func (n *Network) Stations() int { return len(n.Nodes) - 2 }

// EnergyBetween sums edge energy from node i up to node j.
func (n *Network) EnergyBetween(i, j int) float64 {
	var e float64
	for k := i; k < j; k++ {
		e += n.Edges[k].EnergyKWh
	}
	return e
}

// Options tune the builder.
type Options struct {
	// SkipUnavailable drops stations flagged as down in the source data.
	SkipUnavailable bool
}

// Build validates the inputs and returns the network with per-edge energy
// computed by em.
func Build(c model.Corridor, stations []model.ChargingStation, em energy.Model, opts Options) (*Network, error) {
	if err := ValidateCorridor(c); err != nil {
		return nil, err
	}
	if err := ValidateStations(stations, c.LengthKm()); err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(stations)+2)
	nodes = append(nodes, Node{ID: nodeName(c.Origin, "origin"), Kind: model.NodeOrigin})
	for i := range stations {
		if opts.SkipUnavailable && stations[i].Unavailable {
			continue
		}
		st := stations[i]
		nodes = append(nodes, Node{ID: st.ID, Kind: model.NodeStation, PositionKm: st.PositionKm, Station: &st})
	}
	nodes = append(nodes, Node{ID: nodeName(c.Destination, "destination"), Kind: model.NodeDestination, PositionKm: c.LengthKm()})

	edges := make([]Edge, 0, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		e, err := buildEdge(c, em, nodes[i].PositionKm, nodes[i+1].PositionKm)
		if err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", nodes[i].ID, nodes[i+1].ID, err)
		}
		e.From, e.To = i, i+1
		edges = append(edges, e)
	}
	return &Network{Corridor: c, Nodes: nodes, Edges: edges}, nil
}

func nodeName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// buildEdge slices the road segments overlapping [from, to]. Partial
// segments keep their speed and take a pro-rata share of distance and
// elevation.
func buildEdge(c model.Corridor, em energy.Model, from, to float64) (Edge, error) {
	var e Edge
	for _, seg := range c.Segments {
		lo := math.Max(seg.FromKm, from)
		hi := math.Min(seg.ToKm, to)
		if hi-lo <= posEpsilon {
			continue
		}
		frac := (hi - lo) / seg.Span()
		part := model.RoadSegment{
			FromKm:          lo,
			ToKm:            hi,
			DistanceKm:      seg.Length() * frac,
			ElevationDeltaM: seg.ElevationDeltaM * frac,
			SpeedKmh:        seg.SpeedKmh,
			AmbientTempC:    seg.AmbientTempC,
		}
		kwh, err := em.Segment(part)
		if err != nil {
			return Edge{}, err
		}
		e.DistanceKm += part.DistanceKm
		e.ElevationDeltaM += part.ElevationDeltaM
		e.DriveHours += part.DistanceKm / part.SpeedKmh
		e.EnergyKWh += kwh
	}
	return e, nil
}

// ValidateCorridor checks that segments are contiguous, start at 0 and move
// strictly forward.
func ValidateCorridor(c model.Corridor) error {
	if len(c.Segments) == 0 {
		return model.ConfigErrorf("corridor has no segments")
	}
	prev := 0.0
	for i, s := range c.Segments {
		if math.Abs(s.FromKm-prev) > posEpsilon {
			return model.ConfigErrorf("segment %d starts at %g km, expected %g km", i, s.FromKm, prev)
		}
		if s.ToKm <= s.FromKm {
			return model.ConfigErrorf("segment %d: non-monotonic positions %g -> %g km", i, s.FromKm, s.ToKm)
		}
		if s.SpeedKmh <= 0 {
			return model.ConfigErrorf("segment %d: speed must be positive", i)
		}
		if s.DistanceKm < 0 {
			return model.ConfigErrorf("segment %d: negative distance", i)
		}
		prev = s.ToKm
	}
	return nil
}

// ValidateStations checks ordering, bounds, identifiers and power ratings.
func ValidateStations(stations []model.ChargingStation, lengthKm float64) error {
	seen := make(map[string]struct{}, len(stations))
	prev := math.Inf(-1)
	for _, st := range stations {
		if st.ID == "" {
			return model.ConfigErrorf("station at %g km has no id", st.PositionKm)
		}
		if _, dup := seen[st.ID]; dup {
			return model.ConfigErrorf("duplicate station id %q", st.ID)
		}
		seen[st.ID] = struct{}{}
		if st.PositionKm < prev {
			return model.ConfigErrorf("non-monotonic station positions: %q at %g km after %g km", st.ID, st.PositionKm, prev)
		}
		prev = st.PositionKm
		if st.PositionKm < 0 || st.PositionKm > lengthKm+posEpsilon {
			return model.ConfigErrorf("station %q at %g km outside corridor [0, %g]", st.ID, st.PositionKm, lengthKm)
		}
		if st.PowerKW <= 0 {
			return model.ConfigErrorf("station %q: power must be positive", st.ID)
		}
	}
	return nil
}
