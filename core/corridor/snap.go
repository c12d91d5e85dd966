package corridor

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/kilianp07/evroute/core/model"
)

// DefaultSnapBufferKm is the largest detour accepted for a station.
const DefaultSnapBufferKm = 5.0

// Projection is where a point lands on the corridor polyline.
type Projection struct {
	AlongKm  float64
	OffsetKm float64
}

// Project returns the closest point of line to p. Segments are projected in
// a local equirectangular frame; distances use the haversine formula.
func Project(line orb.LineString, p orb.Point) Projection {
	best := Projection{OffsetKm: math.Inf(1)}
	along := 0.0
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		segLen := geo.DistanceHaversine(a, b)
		t := segmentParam(a, b, p)
		c := orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
		off := geo.DistanceHaversine(p, c)
		if off < best.OffsetKm*1000 {
			best = Projection{AlongKm: (along + t*segLen) / 1000, OffsetKm: off / 1000}
		}
		along += segLen
	}
	if len(line) == 1 {
		best = Projection{OffsetKm: geo.DistanceHaversine(line[0], p) / 1000}
	}
	return best
}

func segmentParam(a, b, p orb.Point) float64 {
	k := math.Cos((a[1] + b[1]) / 2 * math.Pi / 180)
	dx, dy := (b[0]-a[0])*k, b[1]-a[1]
	px, py := (p[0]-a[0])*k, p[1]-a[1]
	den := dx*dx + dy*dy
	if den == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, (px*dx+py*dy)/den))
}

// Snap positions stations that carry coordinates on the corridor polyline.
// Stations further than bufferKm from the line are dropped; stations
// without coordinates keep their PositionKm. The result is sorted by
// position then id.
func Snap(line orb.LineString, stations []model.ChargingStation, bufferKm float64) []model.ChargingStation {
	if bufferKm <= 0 {
		bufferKm = DefaultSnapBufferKm
	}
	out := make([]model.ChargingStation, 0, len(stations))
	for _, st := range stations {
		if st.HasCoordinates() && len(line) > 0 {
			pr := Project(line, orb.Point{st.Lon, st.Lat})
			if pr.OffsetKm > bufferKm {
				continue
			}
			st.PositionKm = pr.AlongKm
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PositionKm != out[j].PositionKm {
			return out[i].PositionKm < out[j].PositionKm
		}
		return out[i].ID < out[j].ID
	})
	return out
}
