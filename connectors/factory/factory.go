// Package factory builds station sources from configuration.
package factory

import (
	"time"

	"github.com/kilianp07/evroute/auth"
	"github.com/kilianp07/evroute/connectors"
	"github.com/kilianp07/evroute/connectors/stations"
	"github.com/kilianp07/evroute/core/model"
)

const (
	IDHTTP = "http"
	IDFile = "file"
)

// Config selects a station source. An empty Type disables the feed.
type Config struct {
	Type           string    `json:"type" yaml:"type"`
	URL            string    `json:"url,omitempty" yaml:"url,omitempty"`
	Path           string    `json:"path,omitempty" yaml:"path,omitempty"`
	Auth           auth.Conf `json:"auth,omitempty" yaml:"auth,omitempty"`
	TimeoutSeconds int       `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	// CacheSize > 0 keeps that many corridors in memory for CacheTTLMinutes.
	CacheSize       int `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	CacheTTLMinutes int `json:"cache_ttl_minutes,omitempty" yaml:"cache_ttl_minutes,omitempty"`
}

func (c Config) Validate() error {
	switch c.Type {
	case "":
		return nil
	case IDHTTP:
		if c.URL == "" {
			return model.ConfigErrorf("stations: url is required for the http source")
		}
	case IDFile:
		if c.Path == "" {
			return model.ConfigErrorf("stations: path is required for the file source")
		}
	default:
		return model.ConfigErrorf("stations: unknown source %q", c.Type)
	}
	if c.TimeoutSeconds < 0 || c.CacheSize < 0 || c.CacheTTLMinutes < 0 {
		return model.ConfigErrorf("stations: timeout and cache settings must not be negative")
	}
	return nil
}

// NewStationSource returns the configured source, or nil when none is set.
func NewStationSource(c Config) (connectors.StationSource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var src connectors.StationSource
	switch c.Type {
	case IDHTTP:
		src = stations.NewHTTPClient(c.URL, c.Auth, time.Duration(c.TimeoutSeconds)*time.Second)
	case IDFile:
		src = stations.FileSource{Path: c.Path}
	default:
		return nil, nil
	}
	if c.CacheSize > 0 {
		src = stations.NewCachedSource(src, c.CacheSize, time.Duration(c.CacheTTLMinutes)*time.Minute)
	}
	return src, nil
}
