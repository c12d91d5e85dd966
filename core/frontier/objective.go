package frontier

import (
	"fmt"
	"strings"

	"github.com/kilianp07/evroute/core/model"
)

// Objective names one of the minimised trip criteria.
type Objective string

const (
	Time Objective = "time"
	Cost Objective = "cost"
	CO2  Objective = "co2"
)

// Objectives lists the criteria in their default priority.
var Objectives = []Objective{Time, Cost, CO2}

// ParseObjective accepts the objective names used in configuration files.
func ParseObjective(s string) (Objective, error) {
	switch o := Objective(strings.ToLower(strings.TrimSpace(s))); o {
	case Time, Cost, CO2:
		return o, nil
	}
	return "", model.ConfigErrorf("unknown objective %q", s)
}

// Value returns the plan total for the objective.
func (o Objective) Value(p model.RoutePlan) float64 {
	switch o {
	case Time:
		return p.TotalTimeH
	case Cost:
		return p.TotalCostEUR
	case CO2:
		return p.TotalCO2Kg
	}
	panic(fmt.Sprintf("frontier: unknown objective %q", string(o)))
}

// Unit is the display unit of the objective.
func (o Objective) Unit() string {
	switch o {
	case Time:
		return "h"
	case Cost:
		return "EUR"
	case CO2:
		return "kg"
	}
	return ""
}

func values(plans []model.RoutePlan, o Objective) []float64 {
	out := make([]float64, len(plans))
	for i, p := range plans {
		out[i] = o.Value(p)
	}
	return out
}
