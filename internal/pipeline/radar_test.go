package pipeline

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-imagery/internal/domain"
	"github.com/couchcryptid/storm-imagery/internal/observability"
	"github.com/couchcryptid/storm-imagery/internal/render"
)

type fakeVolumes struct {
	scan *domain.RadarScan
	err  error
}

func (f *fakeVolumes) Fetch(_ context.Context) (*domain.RadarScan, error) {
	return f.scan, f.err
}

type fakeWarnings struct {
	features []domain.WarningFeature
	err      error
	start    time.Time
	end      time.Time
}

func (f *fakeWarnings) FetchWindow(_ context.Context, start, end time.Time) ([]domain.WarningFeature, error) {
	f.start, f.end = start, end
	return f.features, f.err
}

type fakePlaces struct {
	places []domain.Place
	err    error
}

func (f *fakePlaces) Places() ([]domain.Place, error) {
	return f.places, f.err
}

type fakeRadarRenderer struct {
	frame render.RadarFrame
	err   error
}

func (f *fakeRadarRenderer) RenderRadar(frame render.RadarFrame) (image.Image, error) {
	f.frame = frame
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func testScan() *domain.RadarScan {
	return &domain.RadarScan{
		StationID: "KMOB",
		Site:      domain.Geo{Lat: 30.68, Lon: -88.24},
		Time:      time.Date(2025, 6, 19, 22, 7, 53, 0, time.UTC),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSnapshotRun(t *testing.T) {
	dir := t.TempDir()
	volumes := &fakeVolumes{scan: testScan()}
	warnings := &fakeWarnings{}
	places := &fakePlaces{places: []domain.Place{
		{Name: "Mobile", Location: domain.Geo{Lat: 30.69, Lon: -88.04}, Population: 187000},
		{Name: "Hamlet", Location: domain.Geo{Lat: 30.7, Lon: -88.1}, Population: 12},
	}}
	renderer := &fakeRadarRenderer{}

	snap := NewSnapshot(volumes, warnings, places, renderer, nil, SnapshotOptions{
		StationName:   "MOBILE, AL",
		LonBuffer:     domain.RadarLonBuffer,
		LatBuffer:     domain.RadarLatBuffer,
		MinPopulation: 1000,
		OutputDir:     dir,
	}, testLogger(), observability.NewMetricsForTesting())

	path, err := snap.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "KMOB_20250619_220753.png"), path,
		"output name derives from the decoded scan time")
	_, err = os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, "MOBILE, AL", renderer.frame.StationName)
	assert.InDelta(t, -88.24-4.3, renderer.frame.Viewport.MinLon, 1e-9)
	assert.InDelta(t, 30.68+1.7, renderer.frame.Viewport.MaxLat, 1e-9)
	require.Len(t, renderer.frame.Places, 1, "below-threshold places are filtered out")
	assert.Equal(t, "Mobile", renderer.frame.Places[0].Name)

	// Warning window brackets the scan time, not wall-clock now.
	assert.Equal(t, testScan().Time.Add(-30*time.Minute), warnings.start)
	assert.Equal(t, testScan().Time.Add(30*time.Minute), warnings.end)
}

func TestSnapshotRun_VolumeFailureIsFatal(t *testing.T) {
	snap := NewSnapshot(
		&fakeVolumes{err: errors.New("boom")},
		nil, nil, &fakeRadarRenderer{}, nil,
		SnapshotOptions{OutputDir: t.TempDir(), LonBuffer: 1, LatBuffer: 1},
		testLogger(), observability.NewMetricsForTesting(),
	)

	_, err := snap.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch radar volume")
}

func TestSnapshotRun_OverlayFailuresDegrade(t *testing.T) {
	renderer := &fakeRadarRenderer{}
	snap := NewSnapshot(
		&fakeVolumes{scan: testScan()},
		&fakeWarnings{err: errors.New("feed down")},
		&fakePlaces{err: errors.New("no shapefile")},
		renderer, nil,
		SnapshotOptions{OutputDir: t.TempDir(), LonBuffer: 4.3, LatBuffer: 1.7},
		testLogger(), observability.NewMetricsForTesting(),
	)

	path, err := snap.Run(context.Background())
	require.NoError(t, err, "overlay failures must not abort the render")
	assert.FileExists(t, path)
	assert.Empty(t, renderer.frame.Warnings)
	assert.Empty(t, renderer.frame.Places)
}

func TestSnapshotRun_NilOverlaySources(t *testing.T) {
	renderer := &fakeRadarRenderer{}
	snap := NewSnapshot(
		&fakeVolumes{scan: testScan()},
		nil, nil, renderer, nil,
		SnapshotOptions{OutputDir: t.TempDir(), LonBuffer: 4.3, LatBuffer: 1.7},
		testLogger(), observability.NewMetricsForTesting(),
	)

	_, err := snap.Run(context.Background())
	require.NoError(t, err)
}

func TestSnapshotRun_RenderFailureIsFatal(t *testing.T) {
	snap := NewSnapshot(
		&fakeVolumes{scan: testScan()},
		nil, nil,
		&fakeRadarRenderer{err: errors.New("bad canvas")}, nil,
		SnapshotOptions{OutputDir: t.TempDir(), LonBuffer: 4.3, LatBuffer: 1.7},
		testLogger(), observability.NewMetricsForTesting(),
	)

	_, err := snap.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render radar frame")
}
