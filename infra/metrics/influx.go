package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
	"github.com/kilianp07/evroute/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL     string        `json:"url"`
	Token   string        `json:"token"`
	Org     string        `json:"org"`
	Bucket  string        `json:"bucket"`
	Timeout time.Duration `json:"timeout"`
}

// InfluxSink writes planner events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	timeout  time.Duration
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		timeout:  cfg.Timeout,
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), sink.timeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the client resources.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordPlan writes one plan_run point.
func (s *InfluxSink) RecordPlan(ev coremetrics.PlanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, planPoint(ev))
}

func planPoint(ev coremetrics.PlanEvent) *write.Point {
	p := write.NewPointWithMeasurement("plan_run").
		AddTag("status", ev.Status).
		AddTag("component", "planner")
	if ev.Scenario != "" {
		p = p.AddTag("scenario", ev.Scenario)
	}
	if ev.VehicleID != "" {
		p = p.AddTag("vehicle_id", ev.VehicleID)
	}
	return p.AddField("run_id", ev.RunID).
		AddField("solutions", ev.Solutions).
		AddField("labels_created", ev.LabelsCreated).
		AddField("labels_pruned", ev.LabelsPruned).
		AddField("elapsed_ms", round3(ev.Elapsed.Seconds()*1000)).
		AddField("time_h", round3(ev.TimeH)).
		AddField("cost_eur", round3(ev.CostEUR)).
		AddField("co2_kg", round3(ev.CO2Kg)).
		AddField("charge_stops", ev.ChargeStops).
		SetTime(ev.Time)
}

// RecordChargeStops writes one charge_stop point per decision.
func (s *InfluxSink) RecordChargeStops(evs []coremetrics.ChargeStopEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	for _, ev := range evs {
		p := write.NewPointWithMeasurement("charge_stop").
			AddTag("station_id", ev.StationID).
			AddTag("region", ev.Region).
			AddField("run_id", ev.RunID).
			AddField("arrival_soc", round3(ev.ArrivalSoC)).
			AddField("target_soc", round3(ev.TargetSoC)).
			AddField("grid_kwh", round3(ev.GridKWh)).
			AddField("duration_min", round3(ev.Duration.Minutes())).
			AddField("cost_eur", round3(ev.CostEUR)).
			AddField("co2_kg", round3(ev.CO2Kg)).
			SetTime(ev.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
