// Package iem fetches storm-based warning polygons from the Iowa
// Environmental Mesonet GeoJSON feed.
package iem

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// timeFormat is the ISO-8601 form the feed expects for the sts/ets window.
const timeFormat = "2006-01-02T15:04:05Z"

// Client retrieves warning features for a time window.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a warnings feed client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchWindow returns the warning features valid between start and end.
func (c *Client) FetchWindow(ctx context.Context, start, end time.Time) ([]domain.WarningFeature, error) {
	params := url.Values{
		"sts": {start.UTC().Format(timeFormat)},
		"ets": {end.UTC().Format(timeFormat)},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("warnings request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("warnings feed error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read warnings body: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("decode warnings feed: %w", err)
	}

	features := make([]domain.WarningFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		features = append(features, domain.WarningFeature{
			Phenomenon:   f.Properties.MustString("phenomena", ""),
			Significance: f.Properties.MustString("significance", ""),
			IsEmergency:  f.Properties.MustBool("is_emergency", false),
			IsPDS:        f.Properties.MustBool("is_pds", false),
			Geometry:     f.Geometry,
		})
	}

	c.logger.Debug("warnings fetched",
		"count", len(features),
		"sts", params.Get("sts"),
		"ets", params.Get("ets"),
	)
	return features, nil
}
