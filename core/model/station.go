package model

// ChargingStation is a high-power charging site along the corridor.
type ChargingStation struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name,omitempty" yaml:"name,omitempty"`
	PositionKm float64 `json:"position_km" yaml:"position_km"`
	PowerKW    float64 `json:"power_kw" yaml:"power_kw"`
	// Region selects the grid carbon-intensity factor.
	Region string `json:"region" yaml:"region"`
	// PriceEURPerKWh overrides the default tariff when positive.
	PriceEURPerKWh float64 `json:"price_eur_per_kwh,omitempty" yaml:"price_eur_per_kwh,omitempty"`
	// Unavailable mirrors the downtime flag of the source data. It is only
	// honoured when the builder is asked to skip unavailable sites.
	Unavailable bool    `json:"unavailable,omitempty" yaml:"unavailable,omitempty"`
	Lat         float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
}

// HasCoordinates reports whether the station carries a geographic position.
func (s ChargingStation) HasCoordinates() bool { return s.Lat != 0 || s.Lon != 0 }

// Price returns the station tariff or fallback when none is set.
func (s ChargingStation) Price(fallback float64) float64 {
	if s.PriceEURPerKWh > 0 {
		return s.PriceEURPerKWh
	}
	return fallback
}
