// Package goes retrieves composited GOES ABI imagery from the NOAA STAR CDN.
//
// The CDN serves pre-composited sector rasters named by scan start time:
//
//	https://cdn.star.nesdis.noaa.gov/GOES19/ABI/CONUS/GEOCOLOR/
//	  20253351201_GOES19-ABI-CONUS-GEOCOLOR-2500x1500.jpg
//
// "Nearest to timestamp" is resolved by probing candidate scan times on the
// product cadence grid, closest first, within a bounded search radius. The
// timestamp embedded in the served filename is the actual acquisition time,
// which is what frame captions display.
package goes

import (
	"context"
	"fmt"
	"image/jpeg"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// scanOffset aligns candidates with the ABI schedule: sector scans start one
// minute into each cadence slot (…:01, :06, :11 for the 5-minute CONUS
// cadence).
const scanOffset = time.Minute

// sectorExtents maps ABI sector names to the approximate lon/lat coverage of
// the composited raster. The imagery is natively in geostationary
// projection; these plate-carrée bounds are the standard approximation for
// cropping and are good to about a degree at the sector edges.
var sectorExtents = map[string]domain.Viewport{
	"CONUS": {MinLon: -152.11, MaxLon: -52.95, MinLat: 14.57, MaxLat: 56.76},
	"FD":    {MinLon: -156.3, MaxLon: -6.3, MinLat: -81.3, MaxLat: 81.3},
}

// Client resolves and downloads the scene nearest a target time.
type Client struct {
	baseURL      string
	satellite    int
	product      string
	sector       string
	resolution   string
	cadence      time.Duration
	searchRadius time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

// Options configures a scene client.
type Options struct {
	BaseURL      string
	Satellite    int
	Product      string
	Sector       string
	Resolution   string
	Cadence      time.Duration
	SearchRadius time.Duration
	Timeout      time.Duration
}

// NewClient creates a scene client. The sector must have a known extent.
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if _, ok := sectorExtents[opts.Sector]; !ok {
		return nil, fmt.Errorf("unknown ABI sector %q", opts.Sector)
	}
	return &Client{
		baseURL:      opts.BaseURL,
		satellite:    opts.Satellite,
		product:      opts.Product,
		sector:       opts.Sector,
		resolution:   opts.Resolution,
		cadence:      opts.Cadence,
		searchRadius: opts.SearchRadius,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}, nil
}

// NearestScene returns the available scene closest to the target time, or an
// error when nothing exists within the search radius.
func (c *Client) NearestScene(ctx context.Context, target time.Time) (domain.Scene, error) {
	candidates := c.candidates(target)

	var lastErr error
	for _, t := range candidates {
		scene, err := c.fetchScene(ctx, t)
		if err == nil {
			c.logger.Debug("scene resolved",
				"target", target.UTC(),
				"actual", t,
				"offset", t.Sub(target.UTC()).Abs(),
			)
			return scene, nil
		}
		if ctx.Err() != nil {
			return domain.Scene{}, ctx.Err()
		}
		lastErr = err
	}

	return domain.Scene{}, fmt.Errorf("no scene within %s of %s: %w",
		c.searchRadius, target.UTC().Format(time.RFC3339), lastErr)
}

// Extent returns the native geographic bounds of the configured sector.
func (c *Client) Extent() domain.Viewport {
	return sectorExtents[c.sector]
}

// candidates lists the cadence-aligned scan times within the search radius,
// sorted by distance from the target.
func (c *Client) candidates(target time.Time) []time.Time {
	target = target.UTC()

	first := target.Add(-c.searchRadius).Truncate(c.cadence).Add(scanOffset)
	last := target.Add(c.searchRadius)

	var times []time.Time
	for t := first; !t.After(last); t = t.Add(c.cadence) {
		times = append(times, t)
	}

	sort.SliceStable(times, func(i, j int) bool {
		di := math.Abs(float64(times[i].Sub(target)))
		dj := math.Abs(float64(times[j].Sub(target)))
		return di < dj
	})
	return times
}

// sceneURL builds the CDN object path for a scan time.
func (c *Client) sceneURL(t time.Time) string {
	stamp := fmt.Sprintf("%d%03d%02d%02d", t.Year(), t.YearDay(), t.Hour(), t.Minute())
	return fmt.Sprintf("%s/GOES%d/ABI/%s/%s/%s_GOES%d-ABI-%s-%s-%s.jpg",
		c.baseURL, c.satellite, c.sector, c.product,
		stamp, c.satellite, c.sector, c.product, c.resolution)
}

func (c *Client) fetchScene(ctx context.Context, t time.Time) (domain.Scene, error) {
	url := c.sceneURL(t)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Scene{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Scene{}, fmt.Errorf("scene request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Scene{}, fmt.Errorf("scene %s: status %d", url, resp.StatusCode)
	}

	img, err := jpeg.Decode(resp.Body)
	if err != nil {
		return domain.Scene{}, fmt.Errorf("decode scene %s: %w", url, err)
	}

	return domain.Scene{
		Image:     img,
		Time:      t,
		Extent:    sectorExtents[c.sector],
		Satellite: c.satellite,
	}, nil
}
