package stations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evroute/connectors"
	"github.com/kilianp07/evroute/core/model"
)

type countingSource struct {
	calls int
	err   error
}

func (c *countingSource) Stations(_ context.Context, corridor connectors.Corridor) ([]model.ChargingStation, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []model.ChargingStation{{ID: corridor.Origin + "-1", PositionKm: 100, PowerKW: 150}}, nil
}

func TestCachedSource(t *testing.T) {
	next := &countingSource{}
	c := NewCachedSource(next, 2, time.Minute)
	ctx := context.Background()
	hm := connectors.Corridor{Origin: "Hamburg", Destination: "Munich"}

	st, err := c.Stations(ctx, hm)
	require.NoError(t, err)
	st[0].PositionKm = 999

	again, err := c.Stations(ctx, hm)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 100.0, again[0].PositionKm)

	_, _ = c.Stations(ctx, connectors.Corridor{Origin: "Berlin"})
	_, _ = c.Stations(ctx, connectors.Corridor{Origin: "Cologne"})
	_, _ = c.Stations(ctx, hm)
	assert.Equal(t, 4, next.calls)
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	next := &countingSource{err: errors.New("feed down")}
	c := NewCachedSource(next, 4, 0)
	_, err := c.Stations(context.Background(), connectors.Corridor{})
	require.Error(t, err)
	_, err = c.Stations(context.Background(), connectors.Corridor{})
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}
