package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSinkRecordPlan(t *testing.T) {
	w := &fakeWriter{}
	sink := &KafkaSink{w: w, timeout: time.Second}
	ts := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordPlan(coremetrics.PlanEvent{
		RunID: "run-1", VehicleID: "truck", Status: "optimal", Solutions: 3,
		Elapsed: 1500 * time.Microsecond, TimeH: 12.9, ChargeStops: 2, Time: ts,
	}))
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "run-1", string(msg.Key))

	var env struct {
		Type string   `json:"type"`
		Time string   `json:"time"`
		Data planData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, eventPlanCompleted, env.Type)
	assert.Equal(t, "2026-03-02T06:00:00Z", env.Time)
	assert.Equal(t, 2, env.Data.ChargeStops)
	assert.Equal(t, 1.5, env.Data.ElapsedMS)
}

func TestKafkaSinkRecordChargeStops(t *testing.T) {
	w := &fakeWriter{}
	sink := &KafkaSink{w: w, timeout: time.Second}
	require.NoError(t, sink.RecordChargeStops(nil))
	assert.Empty(t, w.msgs)

	require.NoError(t, sink.RecordChargeStops([]coremetrics.ChargeStopEvent{
		{RunID: "r", StationID: "s300", Region: "TenneT", Duration: 114 * time.Minute},
		{RunID: "r", StationID: "s550", Region: "TransnetBW", Duration: 64 * time.Minute},
	}))
	require.Len(t, w.msgs, 2)
	assert.Equal(t, eventChargeStopPlan, string(w.msgs[1].Headers[0].Value))

	var env struct {
		Data stopData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
	assert.Equal(t, 114.0, env.Data.DurationMin)

	sink.Close()
	assert.True(t, w.closed)
}

func TestKafkaSinkWriteError(t *testing.T) {
	sink := &KafkaSink{w: &fakeWriter{err: errors.New("broker down")}, timeout: time.Second}
	assert.Error(t, sink.RecordPlan(coremetrics.PlanEvent{RunID: "x"}))
}
