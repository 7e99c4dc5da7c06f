// Package pipeline orchestrates the two imagery products: the one-shot radar
// snapshot and the satellite animation sequencer. Stages are consumed through
// small interfaces so tests can swap in fakes without network or disk
// fixtures.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-imagery/internal/domain"
	"github.com/couchcryptid/storm-imagery/internal/observability"
	"github.com/couchcryptid/storm-imagery/internal/render"
)

// VolumeSource fetches and decodes one radar volume.
type VolumeSource interface {
	Fetch(ctx context.Context) (*domain.RadarScan, error)
}

// WarningSource fetches active warning features for a time window.
type WarningSource interface {
	FetchWindow(ctx context.Context, start, end time.Time) ([]domain.WarningFeature, error)
}

// PlaceSource reads the populated place gazetteer.
type PlaceSource interface {
	Places() ([]domain.Place, error)
}

// RadarRenderer draws one radar frame.
type RadarRenderer interface {
	RenderRadar(frame render.RadarFrame) (image.Image, error)
}

// SnapshotOptions configure one radar snapshot run.
type SnapshotOptions struct {
	StationName   string
	LonBuffer     float64
	LatBuffer     float64
	MinPopulation float64
	// WarningWindow is the half-width of the warning query window around the
	// scan time.
	WarningWindow time.Duration
	OutputDir     string
}

// Snapshot renders a single radar map PNG from one Level-II volume.
//
// Failure policy: the volume itself is the product, so a fetch or decode
// failure aborts the run. Warnings and city labels are overlays; if either
// source fails the map still renders without that layer.
type Snapshot struct {
	volumes  VolumeSource
	warnings WarningSource
	places   PlaceSource
	renderer RadarRenderer

	boundaries [][]domain.Geo
	opts       SnapshotOptions
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewSnapshot creates a radar snapshot pipeline. warnings and places may be
// nil to disable those overlays; boundaries may be empty.
func NewSnapshot(
	volumes VolumeSource,
	warnings WarningSource,
	places PlaceSource,
	renderer RadarRenderer,
	boundaries [][]domain.Geo,
	opts SnapshotOptions,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Snapshot {
	if opts.WarningWindow <= 0 {
		opts.WarningWindow = 30 * time.Minute
	}
	return &Snapshot{
		volumes:    volumes,
		warnings:   warnings,
		places:     places,
		renderer:   renderer,
		boundaries: boundaries,
		opts:       opts,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run executes one fetch-render-persist cycle and returns the output path.
func (s *Snapshot) Run(ctx context.Context) (string, error) {
	start := time.Now()
	s.metrics.RunActive.Set(1)
	defer s.metrics.RunActive.Set(0)

	scan, err := s.volumes.Fetch(ctx)
	if err != nil {
		s.metrics.FetchErrors.WithLabelValues("radar").Inc()
		return "", fmt.Errorf("fetch radar volume: %w", err)
	}
	s.logger.Info("volume decoded",
		"station", scan.StationID,
		"scan_time", scan.Time,
		"radials", len(scan.Radials),
	)

	viewport := domain.ViewportAround(scan.Site, s.opts.LonBuffer, s.opts.LatBuffer)

	shapes := s.fetchWarnings(ctx, scan.Time, viewport)
	labels := s.fetchPlaces(viewport)

	img, err := s.renderer.RenderRadar(render.RadarFrame{
		Scan:        scan,
		Viewport:    viewport,
		Warnings:    shapes,
		Places:      labels,
		Boundaries:  s.boundaries,
		StationName: s.opts.StationName,
	})
	if err != nil {
		return "", fmt.Errorf("render radar frame: %w", err)
	}

	path := filepath.Join(s.opts.OutputDir, fmt.Sprintf("%s_%s.png",
		scan.StationID, scan.Time.UTC().Format("20060102_150405")))
	if err := render.SavePNG(path, img); err != nil {
		return "", err
	}

	s.metrics.FramesRendered.Inc()
	s.metrics.FrameRenderDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("snapshot written",
		"path", path,
		"warnings", len(shapes),
		"cities", len(labels),
		"duration", time.Since(start),
	)
	return path, nil
}

// fetchWarnings queries the warning feed around the scan time and filters to
// drawable shapes. Failures degrade to an empty overlay.
func (s *Snapshot) fetchWarnings(ctx context.Context, scanTime time.Time, viewport domain.Viewport) []domain.WarningShape {
	if s.warnings == nil {
		return nil
	}

	features, err := s.warnings.FetchWindow(ctx,
		scanTime.Add(-s.opts.WarningWindow), scanTime.Add(s.opts.WarningWindow))
	if err != nil {
		s.metrics.FetchErrors.WithLabelValues("warnings").Inc()
		s.logger.Warn("warning feed unavailable, rendering without warnings", "error", err)
		return nil
	}

	shapes := domain.FilterWarnings(features, viewport)
	s.metrics.WarningsDrawn.Add(float64(len(shapes)))
	return shapes
}

// fetchPlaces reads the gazetteer and filters to labelable places. Failures
// degrade to an unlabeled map.
func (s *Snapshot) fetchPlaces(viewport domain.Viewport) []domain.Place {
	if s.places == nil {
		return nil
	}

	all, err := s.places.Places()
	if err != nil {
		s.metrics.FetchErrors.WithLabelValues("gazetteer").Inc()
		s.logger.Warn("gazetteer unavailable, rendering without city labels", "error", err)
		return nil
	}

	labels := domain.FilterPlaces(all, viewport, s.opts.MinPopulation)
	s.metrics.CitiesDrawn.Add(float64(len(labels)))
	return labels
}
