// Package plans keeps a history of planner runs. Each run is stored as one
// PlanRecord in a JSONL file, a size-rotated JSONL file or a SQLite
// database.
package plans

import (
	"context"
	"time"

	"github.com/kilianp07/evroute/core/frontier"
	"github.com/kilianp07/evroute/core/model"
)

// PlanRecord captures one planner run and its outcome.
type PlanRecord struct {
	RunID     string             `json:"run_id"`
	Timestamp time.Time          `json:"timestamp"`
	Scenario  string             `json:"scenario,omitempty"`
	VehicleID string             `json:"vehicle_id"`
	Status    string             `json:"status"`
	Mode      string             `json:"mode"`
	Selected  *model.RoutePlan   `json:"selected,omitempty"`
	Frontier  []model.RoutePlan  `json:"frontier"`
	Summary   frontier.Summary   `json:"summary"`
	Stats     map[string]float64 `json:"stats,omitempty"`
}

// PlanQuery defines filters for retrieving records. Zero values match
// everything.
type PlanQuery struct {
	Start    time.Time
	End      time.Time
	RunID    string
	Scenario string
	Status   string
	// StationID keeps runs whose selected plan charges at the station.
	StationID string
	// Limit keeps the most recent records; 0 means no limit.
	Limit int
}

// Matches reports whether rec passes every filter of q except Limit.
func (q PlanQuery) Matches(rec PlanRecord) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.RunID != "" && rec.RunID != q.RunID {
		return false
	}
	if q.Scenario != "" && rec.Scenario != q.Scenario {
		return false
	}
	if q.Status != "" && rec.Status != q.Status {
		return false
	}
	if q.StationID != "" {
		if rec.Selected == nil {
			return false
		}
		for _, d := range rec.Selected.Decisions() {
			if d.StationID == q.StationID {
				return true
			}
		}
		return false
	}
	return true
}

// limit keeps the last n records of recs, which must be in time order.
func (q PlanQuery) limit(recs []PlanRecord) []PlanRecord {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// Store persists PlanRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec PlanRecord) error
	Query(ctx context.Context, q PlanQuery) ([]PlanRecord, error)
	Close() error
}
