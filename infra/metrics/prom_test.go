package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
)

func TestPromSink_RecordPlan(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	ev := coremetrics.PlanEvent{
		Status:        "optimal",
		Solutions:     3,
		LabelsCreated: 120,
		LabelsPruned:  40,
		Elapsed:       15 * time.Millisecond,
		TimeH:         12.97,
		CostEUR:       211.2,
		CO2Kg:         277.2,
	}
	require.NoError(t, sink.RecordPlan(ev))
	require.NoError(t, sink.RecordPlan(coremetrics.PlanEvent{Status: "infeasible"}))

	expected := `
# HELP evroute_plan_runs_total Total number of planner runs by outcome
# TYPE evroute_plan_runs_total counter
evroute_plan_runs_total{status="infeasible"} 1
evroute_plan_runs_total{status="optimal"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.runs, strings.NewReader(expected)))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.duration))
	assert.Equal(t, 120.0, testutil.ToFloat64(sink.labels.WithLabelValues("created")))
	// the infeasible run resets the frontier gauge but keeps the last objective values
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.frontier))
	assert.Equal(t, 211.2, testutil.ToFloat64(sink.objective.WithLabelValues("cost_eur")))
}

func TestPromSink_RecordChargeStops(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	evs := []coremetrics.ChargeStopEvent{
		{StationID: "s300", Region: "DE", GridKWh: 285},
		{StationID: "s550", Region: "DE", GridKWh: 375},
		{StationID: "s300", Region: "DE", GridKWh: 15},
	}
	require.NoError(t, sink.RecordChargeStops(evs))
	assert.Equal(t, 300.0, testutil.ToFloat64(sink.energy.WithLabelValues("s300", "DE")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.stops.WithLabelValues("s300")))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, first.RecordPlan(coremetrics.PlanEvent{Status: "optimal"}))
	require.NoError(t, second.RecordPlan(coremetrics.PlanEvent{Status: "optimal"}))
	assert.Equal(t, 2.0, testutil.ToFloat64(second.runs.WithLabelValues("optimal")))
}

func TestStartPromServerFor(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordPlan(coremetrics.PlanEvent{Status: "optimal", Solutions: 1}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartPromServerFor(ctx, addr, reg) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	assert.Contains(t, body, "evroute_plan_runs_total")

	cancel()
	assert.NoError(t, <-done)
}
