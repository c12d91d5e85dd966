// Package stations implements station sources backed by an HTTP feed or a
// local file.
package stations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evroute/auth"
	"github.com/kilianp07/evroute/connectors"
	"github.com/kilianp07/evroute/core/model"
)

// Response is the body served by a station feed.
type Response struct {
	Stations []model.ChargingStation `json:"stations" yaml:"stations"`
}

// HTTPClient queries a station feed with GET <url>?origin=..&destination=..
type HTTPClient struct {
	URL  string
	Auth *auth.ClientCred
	HTTP *http.Client
}

// NewHTTPClient returns a feed client. Credentials are optional.
func NewHTTPClient(baseURL string, creds auth.Conf, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &HTTPClient{URL: baseURL, HTTP: &http.Client{Timeout: timeout}}
	if creds.Enabled() {
		c.Auth = auth.NewClientCred(creds)
	}
	return c
}

// Stations fetches the stations of corridor c.
func (h *HTTPClient) Stations(ctx context.Context, c connectors.Corridor) ([]model.ChargingStation, error) {
	u, err := url.Parse(h.URL)
	if err != nil {
		return nil, fmt.Errorf("station feed url: %w", err)
	}
	q := u.Query()
	if c.Origin != "" {
		q.Set("origin", c.Origin)
	}
	if c.Destination != "" {
		q.Set("destination", c.Destination)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.Auth != nil {
		if err := h.Auth.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("failed to set auth header: %w", err)
		}
	}
	resp, err := h.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Stations) == 0 {
		return nil, connectors.ErrNoStations
	}
	return out.Stations, nil
}

// FileSource reads a YAML or JSON station list once per call. The corridor
// is ignored.
type FileSource struct {
	Path string
}

func (f FileSource) Stations(_ context.Context, _ connectors.Corridor) ([]model.ChargingStation, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var out Response
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse stations %s: %w", f.Path, err)
	}
	if len(out.Stations) == 0 {
		return nil, connectors.ErrNoStations
	}
	return out.Stations, nil
}
