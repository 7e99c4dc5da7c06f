// Package nexrad retrieves and decodes NEXRAD Level-II radar volumes.
//
// Volumes come from the Unidata AWS mirror as single objects, sometimes
// bzip2- or gzip-compressed as a whole, sometimes already plain. The
// compression variant is chosen by magic-byte inspection rather than by
// attempting a decompression and falling back on failure.
package nexrad

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// Client downloads and decodes a radar volume from a fixed URL.
type Client struct {
	volumeURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a radar volume client.
func NewClient(volumeURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		volumeURL: volumeURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads the configured volume, decompresses it if needed, and
// decodes it into a RadarScan.
func (c *Client) Fetch(ctx context.Context) (*domain.RadarScan, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.volumeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("volume request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("volume download error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read volume body: %w", err)
	}
	c.logger.Info("volume downloaded", "bytes", len(body), "url", c.volumeURL)

	raw, encoding, err := decompress(body)
	if err != nil {
		return nil, fmt.Errorf("decompress volume (%s): %w", encoding, err)
	}
	if encoding != encodingPlain {
		c.logger.Info("volume decompressed", "encoding", encoding, "bytes", len(raw))
	}

	scan, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode volume: %w", err)
	}

	c.logger.Info("volume decoded",
		"station", scan.StationID,
		"scan_time", scan.Time,
		"radials", len(scan.Radials),
		"site_lat", scan.Site.Lat,
		"site_lon", scan.Site.Lon,
	)
	return scan, nil
}

const (
	encodingPlain = "plain"
	encodingBzip2 = "bzip2"
	encodingGzip  = "gzip"
)

var (
	bzip2Magic = []byte("BZh")
	gzipMagic  = []byte{0x1f, 0x8b}
)

// decompress inspects the payload's magic bytes and applies the matching
// decompression, returning the payload unchanged when no magic matches.
func decompress(body []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(body, bzip2Magic):
		raw, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(body)))
		return raw, encodingBzip2, err
	case bytes.HasPrefix(body, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, encodingGzip, err
		}
		defer zr.Close()
		raw, err := io.ReadAll(zr)
		return raw, encodingGzip, err
	default:
		return body, encodingPlain, nil
	}
}
