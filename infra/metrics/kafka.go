package metrics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	coremetrics "github.com/kilianp07/evroute/core/metrics"
)

const (
	eventSource         = "evroute"
	eventPlanCompleted  = "evroute.plan.completed"
	eventChargeStopPlan = "evroute.charge_stop.planned"
)

// KafkaConfig holds the producer settings of a KafkaSink.
type KafkaConfig struct {
	Brokers []string      `json:"brokers"`
	Topic   string        `json:"topic"`
	Timeout time.Duration `json:"timeout"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes planner events as JSON envelopes keyed by run id.
type KafkaSink struct {
	w       messageWriter
	timeout time.Duration
}

// envelope follows the CloudEvents JSON layout.
type envelope struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Type   string    `json:"type"`
	Time   time.Time `json:"time"`
	Data   any       `json:"data"`
}

type planData struct {
	RunID         string  `json:"run_id"`
	Scenario      string  `json:"scenario,omitempty"`
	VehicleID     string  `json:"vehicle_id"`
	Status        string  `json:"status"`
	Solutions     int     `json:"solutions"`
	LabelsCreated int     `json:"labels_created"`
	LabelsPruned  int     `json:"labels_pruned"`
	ElapsedMS     float64 `json:"elapsed_ms"`
	TimeH         float64 `json:"time_h"`
	CostEUR       float64 `json:"cost_eur"`
	CO2Kg         float64 `json:"co2_kg"`
	ChargeStops   int     `json:"charge_stops"`
}

type stopData struct {
	RunID       string  `json:"run_id"`
	StationID   string  `json:"station_id"`
	Region      string  `json:"region"`
	ArrivalSoC  float64 `json:"arrival_soc"`
	TargetSoC   float64 `json:"target_soc"`
	GridKWh     float64 `json:"grid_kwh"`
	DurationMin float64 `json:"duration_min"`
	CostEUR     float64 `json:"cost_eur"`
	CO2Kg       float64 `json:"co2_kg"`
}

// NewKafkaSink returns a sink producing to cfg.Topic.
func NewKafkaSink(cfg KafkaConfig) *KafkaSink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.Timeout,
	}
	return &KafkaSink{w: w, timeout: cfg.Timeout}
}

// Close flushes and closes the producer.
func (s *KafkaSink) Close() { _ = s.w.Close() }

func (s *KafkaSink) RecordPlan(ev coremetrics.PlanEvent) error {
	msg, err := message(ev.RunID, eventPlanCompleted, ev.Time, planData{
		RunID:         ev.RunID,
		Scenario:      ev.Scenario,
		VehicleID:     ev.VehicleID,
		Status:        ev.Status,
		Solutions:     ev.Solutions,
		LabelsCreated: ev.LabelsCreated,
		LabelsPruned:  ev.LabelsPruned,
		ElapsedMS:     round3(float64(ev.Elapsed) / float64(time.Millisecond)),
		TimeH:         ev.TimeH,
		CostEUR:       ev.CostEUR,
		CO2Kg:         ev.CO2Kg,
		ChargeStops:   ev.ChargeStops,
	})
	if err != nil {
		return err
	}
	return s.write(msg)
}

func (s *KafkaSink) RecordChargeStops(evs []coremetrics.ChargeStopEvent) error {
	if len(evs) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(evs))
	for _, ev := range evs {
		msg, err := message(ev.RunID, eventChargeStopPlan, ev.Time, stopData{
			RunID:       ev.RunID,
			StationID:   ev.StationID,
			Region:      ev.Region,
			ArrivalSoC:  ev.ArrivalSoC,
			TargetSoC:   ev.TargetSoC,
			GridKWh:     ev.GridKWh,
			DurationMin: round3(ev.Duration.Minutes()),
			CostEUR:     ev.CostEUR,
			CO2Kg:       ev.CO2Kg,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return s.write(msgs...)
}

func (s *KafkaSink) write(msgs ...kafka.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.w.WriteMessages(ctx, msgs...)
}

func message(key, typ string, ts time.Time, data any) (kafka.Message, error) {
	if ts.IsZero() {
		ts = time.Now()
	}
	b, err := json.Marshal(envelope{ID: uuid.NewString(), Source: eventSource, Type: typ, Time: ts.UTC(), Data: data})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:     []byte(key),
		Value:   b,
		Time:    ts,
		Headers: []kafka.Header{{Key: "ce_type", Value: []byte(typ)}},
	}, nil
}
