// Package export writes route plans for consumption outside the planner.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/evroute/core/model"
)

// WriteJSON writes the plans to w as an indented JSON array.
func WriteJSON(w io.Writer, plans []model.RoutePlan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plans)
}

var planHeader = []string{
	"plan_id", "charge_stops", "total_time_h", "driving_time_h", "charging_time_h",
	"total_cost_eur", "total_co2_kg", "energy_purchased_kwh", "final_soc",
}

// WriteCSV writes one row per plan with its aggregate objectives.
func WriteCSV(w io.Writer, plans []model.RoutePlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(planHeader); err != nil {
		return err
	}
	for _, p := range plans {
		rec := []string{
			p.ID,
			strconv.Itoa(p.ChargeStops),
			ff(p.TotalTimeH),
			ff(p.DrivingTimeH),
			ff(p.ChargingTimeH),
			ff(p.TotalCostEUR),
			ff(p.TotalCO2Kg),
			ff(p.EnergyPurchasedKWh),
			ff(p.FinalSoC),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var stopHeader = []string{
	"plan_id", "node_id", "kind", "position_km", "arrival_soc", "departure_soc",
	"dwell_minutes", "grid_kwh", "cum_time_h", "cum_cost_eur", "cum_co2_kg",
}

// WriteStopsCSV writes one row per stop of every plan.
func WriteStopsCSV(w io.Writer, plans []model.RoutePlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stopHeader); err != nil {
		return err
	}
	for _, p := range plans {
		for _, s := range p.Stops {
			grid := 0.0
			if s.Decision != nil {
				grid = s.Decision.GridKWh
			}
			rec := []string{
				p.ID,
				s.NodeID,
				string(s.Kind),
				ff(s.PositionKm),
				ff(s.ArrivalSoC),
				ff(s.DepartureSoC),
				ff(s.DwellMinutes),
				ff(grid),
				ff(s.CumTimeH),
				ff(s.CumCostEUR),
				ff(s.CumCO2Kg),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
