package search

import (
	"time"

	"github.com/kilianp07/evroute/core/model"
)

const (
	DefaultChargeStep     = 0.05
	DefaultPriceEURPerKWh = 0.32
)

// Options controls branching, costs and the search budget.
type Options struct {
	Bounds model.SoCBounds
	// InitialSoC at the origin; 0 means Bounds.Max.
	InitialSoC float64
	// ArrivalSoC is the minimum SoC required at the destination; 0 means
	// Bounds.Min.
	ArrivalSoC float64
	// ChargeStep is the spacing of the target SoC grid.
	ChargeStep float64
	// ExactNeedTargets adds, at every station, the targets that reach each
	// downstream node with exactly the reserve left.
	ExactNeedTargets bool
	// StopOverhead is added to every stop where energy is drawn.
	StopOverhead          time.Duration
	DefaultPriceEURPerKWh float64
	// Departure anchors time-of-day emission factors.
	Departure time.Time

	// MaxLabels bounds the number of label extensions; 0 is unlimited.
	MaxLabels int
	// TimeBudget bounds wall-clock time; 0 is unlimited.
	TimeBudget time.Duration
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Bounds:                model.DefaultSoCBounds(),
		ChargeStep:            DefaultChargeStep,
		ExactNeedTargets:      true,
		DefaultPriceEURPerKWh: DefaultPriceEURPerKWh,
	}
}

func (o Options) initialSoC() float64 {
	if o.InitialSoC == 0 {
		return o.Bounds.Max
	}
	return o.InitialSoC
}

func (o Options) arrivalSoC() float64 {
	if o.ArrivalSoC == 0 {
		return o.Bounds.Min
	}
	return o.ArrivalSoC
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if err := o.Bounds.Validate(); err != nil {
		return err
	}
	if s := o.initialSoC(); s < o.Bounds.Min || s > o.Bounds.Max {
		return model.ConfigErrorf("initial soc %g outside [%g, %g]", s, o.Bounds.Min, o.Bounds.Max)
	}
	if s := o.arrivalSoC(); s < o.Bounds.Min || s > o.Bounds.Max {
		return model.ConfigErrorf("arrival soc %g outside [%g, %g]", s, o.Bounds.Min, o.Bounds.Max)
	}
	if o.ChargeStep <= 0 || o.ChargeStep > 1 {
		return model.ConfigErrorf("charge step %g must be within (0,1]", o.ChargeStep)
	}
	if o.StopOverhead < 0 || o.MaxLabels < 0 || o.TimeBudget < 0 {
		return model.ConfigErrorf("overhead and budgets must not be negative")
	}
	if o.DefaultPriceEURPerKWh < 0 {
		return model.ConfigErrorf("default price must not be negative")
	}
	return nil
}
