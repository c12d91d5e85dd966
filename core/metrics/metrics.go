package metrics

import "time"

// PlanEvent summarises one planner run.
type PlanEvent struct {
	RunID     string
	Scenario  string
	VehicleID string
	Status    string
	Solutions int

	LabelsCreated int
	LabelsPruned  int
	Elapsed       time.Duration

	// Objective values of the selected plan; zero when infeasible.
	TimeH       float64
	CostEUR     float64
	CO2Kg       float64
	ChargeStops int

	Time time.Time
}

// MetricsSink records planner runs for observability purposes.
type MetricsSink interface {
	RecordPlan(ev PlanEvent) error
}

// ChargeStopEvent is one charging decision of a selected plan.
type ChargeStopEvent struct {
	RunID      string
	StationID  string
	Region     string
	ArrivalSoC float64
	TargetSoC  float64
	GridKWh    float64
	Duration   time.Duration
	CostEUR    float64
	CO2Kg      float64
	Time       time.Time
}

// ChargeStopRecorder is implemented by sinks that track individual stops.
type ChargeStopRecorder interface {
	RecordChargeStops(evs []ChargeStopEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error                { return nil }
func (NopSink) RecordChargeStops([]ChargeStopEvent) error { return nil }
