package model

// RoadSegment is a stretch of the corridor between two positions.
type RoadSegment struct {
	FromKm          float64 `json:"from_km" yaml:"from_km"`
	ToKm            float64 `json:"to_km" yaml:"to_km"`
	DistanceKm      float64 `json:"distance_km,omitempty" yaml:"distance_km,omitempty"`
	ElevationDeltaM float64 `json:"elevation_delta_m" yaml:"elevation_delta_m"`
	SpeedKmh        float64 `json:"speed_kmh" yaml:"speed_kmh"`
	// AmbientTempC is optional; nil means mild weather.
	AmbientTempC *float64 `json:"ambient_temp_c,omitempty" yaml:"ambient_temp_c,omitempty"`
}

// Length returns the driven distance, falling back to the position delta.
func (s RoadSegment) Length() float64 {
	if s.DistanceKm > 0 {
		return s.DistanceKm
	}
	return s.ToKm - s.FromKm
}

// Span returns the corridor positions covered by the segment.
func (s RoadSegment) Span() float64 { return s.ToKm - s.FromKm }

// Corridor is the fixed origin to destination road path.
type Corridor struct {
	Origin      string        `json:"origin" yaml:"origin"`
	Destination string        `json:"destination" yaml:"destination"`
	Segments    []RoadSegment `json:"segments" yaml:"segments"`
}

// LengthKm returns the position of the destination.
func (c Corridor) LengthKm() float64 {
	if len(c.Segments) == 0 {
		return 0
	}
	return c.Segments[len(c.Segments)-1].ToKm
}

// FlatCorridor returns a single-segment corridor of the given length.
func FlatCorridor(origin, destination string, lengthKm, speedKmh float64) Corridor {
	return Corridor{
		Origin:      origin,
		Destination: destination,
		Segments:    []RoadSegment{{FromKm: 0, ToKm: lengthKm, SpeedKmh: speedKmh}},
	}
}
