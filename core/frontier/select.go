package frontier

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/evroute/core/model"
)

// ErrEmptyFrontier is returned when a selector is given no plans.
var ErrEmptyFrontier = errors.New("frontier is empty")

// Selector picks one plan from a frontier.
type Selector interface {
	Select(plans []model.RoutePlan) (model.RoutePlan, error)
}

// Weighted scores plans by the weighted sum of their objectives, each
// min-max normalised over the frontier.
type Weighted struct {
	Time float64 `json:"time" yaml:"time"`
	Cost float64 `json:"cost" yaml:"cost"`
	CO2  float64 `json:"co2" yaml:"co2"`
}

// Validate rejects negative weights and an all-zero weight vector.
func (w Weighted) Validate() error {
	ws := w.vector()
	if floats.Min(ws) < 0 {
		return model.ConfigErrorf("objective weights must not be negative")
	}
	if floats.Sum(ws) == 0 {
		return model.ConfigErrorf("at least one objective weight must be positive")
	}
	return nil
}

func (w Weighted) vector() []float64 { return []float64{w.Time, w.Cost, w.CO2} }

// Scores returns the weighted normalised score of every plan.
func (w Weighted) Scores(plans []model.RoutePlan) []float64 {
	scores := make([]float64, len(plans))
	for k, o := range Objectives {
		weight := w.vector()[k]
		if weight == 0 {
			continue
		}
		v := values(plans, o)
		lo, hi := floats.Min(v), floats.Max(v)
		span := hi - lo
		if span <= tol {
			continue
		}
		floats.AddConst(-lo, v)
		floats.Scale(weight/span, v)
		floats.Add(scores, v)
	}
	return scores
}

// Select returns the plan with the lowest score. Ties fall back to time,
// cost, CO₂ and then fewer stops.
func (w Weighted) Select(plans []model.RoutePlan) (model.RoutePlan, error) {
	if len(plans) == 0 {
		return model.RoutePlan{}, ErrEmptyFrontier
	}
	if err := w.Validate(); err != nil {
		return model.RoutePlan{}, err
	}
	scores := w.Scores(plans)
	best := 0
	for i := 1; i < len(plans); i++ {
		switch {
		case scores[i] < scores[best]-tol:
			best = i
		case scores[i] <= scores[best]+tol && before(plans[i], plans[best], Objectives):
			best = i
		}
	}
	return plans[best], nil
}

// Lexicographic minimises objectives in priority order. Plans within
// Tolerance (relative) of the best value of an objective stay candidates for
// the next one.
type Lexicographic struct {
	Order     []Objective `json:"order" yaml:"order"`
	Tolerance float64     `json:"tolerance" yaml:"tolerance"`
}

// Validate checks the order for unknown or repeated objectives.
func (l Lexicographic) Validate() error {
	if l.Tolerance < 0 {
		return model.ConfigErrorf("lexicographic tolerance must not be negative")
	}
	seen := map[Objective]bool{}
	for _, o := range l.Order {
		if _, err := ParseObjective(string(o)); err != nil {
			return err
		}
		if seen[o] {
			return model.ConfigErrorf("objective %q listed twice", o)
		}
		seen[o] = true
	}
	return nil
}

// order returns the declared objectives followed by the remaining ones in
// default priority.
func (l Lexicographic) order() []Objective {
	out := append([]Objective(nil), l.Order...)
	for _, o := range Objectives {
		found := false
		for _, d := range l.Order {
			found = found || d == o
		}
		if !found {
			out = append(out, o)
		}
	}
	return out
}

// Select narrows the candidates objective by objective and returns the
// survivor with the fewest stops.
func (l Lexicographic) Select(plans []model.RoutePlan) (model.RoutePlan, error) {
	if len(plans) == 0 {
		return model.RoutePlan{}, ErrEmptyFrontier
	}
	if err := l.Validate(); err != nil {
		return model.RoutePlan{}, err
	}
	order := l.order()
	cands := plans
	for _, o := range order {
		best := floats.Min(values(cands, o))
		limit := best + math.Max(l.Tolerance*math.Abs(best), tol)
		var keep []model.RoutePlan
		for _, p := range cands {
			if o.Value(p) <= limit {
				keep = append(keep, p)
			}
		}
		cands = keep
	}
	best := cands[0]
	for _, p := range cands[1:] {
		if p.ChargeStops < best.ChargeStops ||
			(p.ChargeStops == best.ChargeStops && before(p, best, order)) {
			best = p
		}
	}
	return best, nil
}

// before orders plans by the objectives in order, then by stop count.
func before(a, b model.RoutePlan, order []Objective) bool {
	for _, o := range order {
		av, bv := o.Value(a), o.Value(b)
		if av < bv-tol {
			return true
		}
		if av > bv+tol {
			return false
		}
	}
	return a.ChargeStops < b.ChargeStops
}
