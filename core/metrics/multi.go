package metrics

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPlan(ev PlanEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordChargeStops forwards stop events to the sinks that support them.
func (m *MultiSink) RecordChargeStops(evs []ChargeStopEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ChargeStopRecorder); ok {
			if err := rec.RecordChargeStops(evs); err != nil {
				return err
			}
		}
	}
	return nil
}
