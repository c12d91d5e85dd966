package model

import "time"

// NodeKind tells origin, charging station and destination nodes apart.
type NodeKind string

const (
	NodeOrigin      NodeKind = "origin"
	NodeStation     NodeKind = "station"
	NodeDestination NodeKind = "destination"
)

// ChargeDecision is the charging action taken at a station.
type ChargeDecision struct {
	StationID  string        `json:"station_id"`
	ArrivalSoC float64       `json:"arrival_soc"`
	TargetSoC  float64       `json:"target_soc"`
	BatteryKWh float64       `json:"battery_kwh"`
	GridKWh    float64       `json:"grid_kwh"`
	Duration   time.Duration `json:"duration"`
	CostEUR    float64       `json:"cost_eur"`
	CO2Kg      float64       `json:"co2_kg"`
}

// Stop is one node of a route plan. Cumulative values are taken when the
// truck leaves the node, or on arrival for the destination.
type Stop struct {
	NodeID       string          `json:"node_id"`
	Kind         NodeKind        `json:"kind"`
	PositionKm   float64         `json:"position_km"`
	ArrivalSoC   float64         `json:"arrival_soc"`
	TargetSoC    float64         `json:"target_soc"`
	DepartureSoC float64         `json:"departure_soc"`
	DwellMinutes float64         `json:"dwell_minutes"`
	CumTimeH     float64         `json:"cum_time_h"`
	CumEnergyKWh float64         `json:"cum_energy_kwh"`
	CumCO2Kg     float64         `json:"cum_co2_kg"`
	CumCostEUR   float64         `json:"cum_cost_eur"`
	Decision     *ChargeDecision `json:"decision,omitempty"`
}

// RoutePlan is a complete, SoC-feasible trip from origin to destination.
type RoutePlan struct {
	ID                 string  `json:"id"`
	Stops              []Stop  `json:"stops"`
	DistanceKm         float64 `json:"distance_km"`
	TotalTimeH         float64 `json:"total_time_h"`
	DrivingTimeH       float64 `json:"driving_time_h"`
	ChargingTimeH      float64 `json:"charging_time_h"`
	TotalCostEUR       float64 `json:"total_cost_eur"`
	TotalCO2Kg         float64 `json:"total_co2_kg"`
	EnergyPurchasedKWh float64 `json:"energy_purchased_kwh"`
	DrivingEnergyKWh   float64 `json:"driving_energy_kwh"`
	ChargeStops        int     `json:"charge_stops"`
	FinalSoC           float64 `json:"final_soc"`
}

// Decisions returns the charging decisions in route order.
func (p RoutePlan) Decisions() []ChargeDecision {
	var out []ChargeDecision
	for _, s := range p.Stops {
		if s.Decision != nil {
			out = append(out, *s.Decision)
		}
	}
	return out
}

// MinSoC returns the lowest SoC observed at any node of the plan.
func (p RoutePlan) MinSoC() float64 {
	if len(p.Stops) == 0 {
		return 0
	}
	m := p.Stops[0].ArrivalSoC
	for _, s := range p.Stops {
		m = min(m, s.ArrivalSoC, s.DepartureSoC)
	}
	return m
}
