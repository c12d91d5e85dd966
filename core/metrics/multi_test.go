package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	plans int
	stops int
	err   error
}

func (r *recordSink) RecordPlan(PlanEvent) error {
	r.plans++
	return r.err
}

func (r *recordSink) RecordChargeStops(evs []ChargeStopEvent) error {
	r.stops += len(evs)
	return nil
}

type planOnly struct{ plans int }

func (p *planOnly) RecordPlan(PlanEvent) error {
	p.plans++
	return nil
}

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &planOnly{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordPlan(PlanEvent{Status: "optimal"}); err != nil {
		t.Fatalf("record plan: %v", err)
	}
	if err := m.RecordChargeStops(make([]ChargeStopEvent, 2)); err != nil {
		t.Fatalf("record stops: %v", err)
	}
	if s1.plans != 1 || s2.plans != 1 {
		t.Fatalf("plan events not forwarded")
	}
	if s1.stops != 2 {
		t.Fatalf("stop events not forwarded, got %d", s1.stops)
	}
}

func TestMultiSinkStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	if err := NewMultiSink(s1, s2).RecordPlan(PlanEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s2.plans != 0 {
		t.Fatalf("second sink should not be called after an error")
	}
}
