// Package connectors fetches charging-station data from outside sources.
package connectors

import (
	"context"
	"errors"

	"github.com/kilianp07/evroute/core/model"
)

// ErrNoStations is returned when a source answers with an empty list.
var ErrNoStations = errors.New("station source returned no stations")

// Corridor identifies the road a station list is requested for.
type Corridor struct {
	Origin      string
	Destination string
}

// StationSource supplies the charging stations along a corridor.
type StationSource interface {
	Stations(ctx context.Context, c Corridor) ([]model.ChargingStation, error)
}
