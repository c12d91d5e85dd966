package frontier

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/evroute/core/model"
)

// Range is the spread of one objective over the frontier.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summary describes a frontier in a few numbers.
type Summary struct {
	Feasible   bool                `json:"feasible"`
	NSolutions int                 `json:"n_solutions"`
	Ranges     map[Objective]Range `json:"ranges,omitempty"`
}

// Summarize returns the objective ranges of plans.
func Summarize(plans []model.RoutePlan) Summary {
	s := Summary{Feasible: len(plans) > 0, NSolutions: len(plans)}
	if !s.Feasible {
		return s
	}
	s.Ranges = make(map[Objective]Range, len(Objectives))
	for _, o := range Objectives {
		v := values(plans, o)
		s.Ranges[o] = Range{Min: floats.Min(v), Max: floats.Max(v)}
	}
	return s
}
