package search

import (
	"math"
	"sort"

	"github.com/kilianp07/evroute/core/charging"
)

// tol absorbs floating-point noise when comparing label attributes.
const tol = 1e-9

// Label is a non-dominated partial route arriving at Node.
type Label struct {
	Node int
	SoC  float64

	TimeH     float64
	CostEUR   float64
	CO2Kg     float64
	EnergyKWh float64

	DriveH   float64
	ChargeH  float64
	DriveKWh float64
	Stops    int

	// Parent is the label at the previous node. Charge, ChargeCostEUR and
	// ChargeCO2Kg describe what was done there before departing.
	Parent        *Label
	Charge        charging.Session
	ChargeCostEUR float64
	ChargeCO2Kg   float64

	seq int
}

// Path returns the labels from the origin to l.
func (l *Label) Path() []*Label {
	var path []*Label
	for cur := l; cur != nil; cur = cur.Parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// compare returns 1 when a dominates b, -1 when b dominates a and 0 when
// neither does. Equivalent labels are ordered by stop count then creation
// order so the outcome never depends on map or scheduling order.
//
// With sameTime set, labels that arrive at different times are incomparable:
// downstream emission factors then depend on the clock, so an earlier
// arrival does not bound the CO₂ of a later one.
func compare(a, b *Label, sameTime bool) int {
	if sameTime && math.Abs(a.TimeH-b.TimeH) > tol {
		return 0
	}
	var aBetter, bBetter bool
	lower := func(av, bv float64) {
		switch {
		case av < bv-tol:
			aBetter = true
		case bv < av-tol:
			bBetter = true
		}
	}
	lower(-a.SoC, -b.SoC)
	lower(a.TimeH, b.TimeH)
	lower(a.CostEUR, b.CostEUR)
	lower(a.CO2Kg, b.CO2Kg)
	switch {
	case aBetter && !bBetter:
		return 1
	case bBetter && !aBetter:
		return -1
	case aBetter && bBetter:
		return 0
	}
	if a.Stops != b.Stops {
		if a.Stops < b.Stops {
			return 1
		}
		return -1
	}
	if a.seq < b.seq {
		return 1
	}
	return -1
}

// labelSet holds the non-dominated labels of one node.
type labelSet []*Label

// insert adds l unless it is dominated and removes labels l dominates. It
// returns the updated set and the number of labels discarded.
func (s labelSet) insert(l *Label, sameTime bool) (labelSet, int) {
	for _, cur := range s {
		if compare(cur, l, sameTime) == 1 {
			return s, 1
		}
	}
	pruned := 0
	out := s[:0]
	for _, cur := range s {
		if compare(l, cur, sameTime) == 1 {
			pruned++
			continue
		}
		out = append(out, cur)
	}
	return append(out, l), pruned
}

func (s labelSet) sort() {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i], s[j]
		switch {
		case a.TimeH != b.TimeH:
			return a.TimeH < b.TimeH
		case a.CostEUR != b.CostEUR:
			return a.CostEUR < b.CostEUR
		case a.CO2Kg != b.CO2Kg:
			return a.CO2Kg < b.CO2Kg
		case a.SoC != b.SoC:
			return a.SoC > b.SoC
		case a.Stops != b.Stops:
			return a.Stops < b.Stops
		}
		return a.seq < b.seq
	})
}
