package frontier

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/kilianp07/evroute/core/corridor"
	"github.com/kilianp07/evroute/core/model"
	"github.com/kilianp07/evroute/core/search"
)

// planSpace namespaces plan IDs derived from their stop sequence.
var planSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/kilianp07/evroute/plan"))

// Build backtracks every label into a route plan. Only the origin, the
// stations where energy is drawn and the destination appear as stops.
func Build(net *corridor.Network, labels []*search.Label) []model.RoutePlan {
	plans := make([]model.RoutePlan, 0, len(labels))
	for _, l := range labels {
		plans = append(plans, plan(net, l))
	}
	return plans
}

func plan(net *corridor.Network, last *search.Label) model.RoutePlan {
	path := last.Path()
	p := model.RoutePlan{
		DistanceKm:         net.Nodes[net.Destination()].PositionKm,
		TotalTimeH:         last.TimeH,
		DrivingTimeH:       last.DriveH,
		ChargingTimeH:      last.ChargeH,
		TotalCostEUR:       last.CostEUR,
		TotalCO2Kg:         last.CO2Kg,
		EnergyPurchasedKWh: last.EnergyKWh,
		DrivingEnergyKWh:   last.DriveKWh,
		ChargeStops:        last.Stops,
		FinalSoC:           last.SoC,
	}
	for k, l := range path {
		node := net.Nodes[l.Node]
		stop := model.Stop{
			NodeID:       node.ID,
			Kind:         node.Kind,
			PositionKm:   node.PositionKm,
			ArrivalSoC:   l.SoC,
			TargetSoC:    l.SoC,
			DepartureSoC: l.SoC,
			CumTimeH:     l.TimeH,
			CumEnergyKWh: l.EnergyKWh,
			CumCO2Kg:     l.CO2Kg,
			CumCostEUR:   l.CostEUR,
		}
		if k+1 < len(path) {
			next := path[k+1]
			if next.Charge.IsZero() {
				if node.Kind == model.NodeStation {
					continue
				}
			} else {
				s := next.Charge
				dwell := next.ChargeH - l.ChargeH
				stop.TargetSoC = s.TargetSoC
				stop.DepartureSoC = s.TargetSoC
				stop.DwellMinutes = dwell * 60
				stop.CumTimeH += dwell
				stop.CumEnergyKWh += s.GridKWh
				stop.CumCO2Kg += next.ChargeCO2Kg
				stop.CumCostEUR += next.ChargeCostEUR
				stop.Decision = &model.ChargeDecision{
					StationID:  node.Station.ID,
					ArrivalSoC: s.ArrivalSoC,
					TargetSoC:  s.TargetSoC,
					BatteryKWh: s.BatteryKWh,
					GridKWh:    s.GridKWh,
					Duration:   s.Duration,
					CostEUR:    next.ChargeCostEUR,
					CO2Kg:      next.ChargeCO2Kg,
				}
			}
		}
		p.Stops = append(p.Stops, stop)
	}
	p.ID = planID(p)
	return p
}

// planID derives a stable ID from the stop and charge decision sequence so
// repeated searches over the same inputs return identical frontiers.
func planID(p model.RoutePlan) string {
	var key []byte
	for _, st := range p.Stops {
		key = append(key, st.NodeID...)
		key = append(key, '@')
		key = strconv.AppendFloat(key, st.PositionKm, 'g', -1, 64)
		if d := st.Decision; d != nil {
			key = append(key, '>')
			key = strconv.AppendFloat(key, d.TargetSoC, 'g', 12, 64)
			key = append(key, '/')
			key = strconv.AppendFloat(key, d.GridKWh, 'g', 12, 64)
		}
		key = append(key, ';')
	}
	key = strconv.AppendFloat(key, p.TotalTimeH, 'g', 12, 64)
	return uuid.NewSHA1(planSpace, key).String()
}
