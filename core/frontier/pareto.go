package frontier

import (
	"sort"

	"github.com/kilianp07/evroute/core/model"
)

const tol = 1e-9

// dominates reports whether a is no worse than b on every objective and
// strictly better on at least one.
func dominates(a, b model.RoutePlan) bool {
	better := false
	for _, o := range Objectives {
		av, bv := o.Value(a), o.Value(b)
		if av > bv+tol {
			return false
		}
		if av < bv-tol {
			better = true
		}
	}
	return better
}

func equivalent(a, b model.RoutePlan) bool {
	for _, o := range Objectives {
		if d := o.Value(a) - o.Value(b); d > tol || d < -tol {
			return false
		}
	}
	return true
}

// preferred breaks ties between plans with identical objective vectors.
func preferred(a, b model.RoutePlan) bool {
	if a.ChargeStops != b.ChargeStops {
		return a.ChargeStops < b.ChargeStops
	}
	return a.FinalSoC > b.FinalSoC+tol
}

// Pareto returns the plans that no other plan dominates on time, cost and
// CO₂. Of several plans with the same objective vector only the one with
// fewer stops, then higher final SoC, is kept. The result is sorted by time,
// cost, CO₂ and stop count.
func Pareto(plans []model.RoutePlan) []model.RoutePlan {
	var out []model.RoutePlan
next:
	for i, p := range plans {
		for j, q := range plans {
			if i == j {
				continue
			}
			if dominates(q, p) {
				continue next
			}
			if equivalent(p, q) && (preferred(q, p) || (!preferred(p, q) && j < i)) {
				continue next
			}
		}
		out = append(out, p)
	}
	Sort(out)
	return out
}

// Sort orders plans by time, cost, CO₂ and stop count.
func Sort(plans []model.RoutePlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i], plans[j]
		for _, o := range Objectives {
			if av, bv := o.Value(a), o.Value(b); av != bv {
				return av < bv
			}
		}
		return a.ChargeStops < b.ChargeStops
	})
}
