package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-imagery/internal/domain"
	"github.com/couchcryptid/storm-imagery/internal/observability"
	"github.com/couchcryptid/storm-imagery/internal/render"
)

// SceneSource resolves the nearest available satellite scene to a target.
type SceneSource interface {
	NearestScene(ctx context.Context, target time.Time) (domain.Scene, error)
	Extent() domain.Viewport
}

// SceneRenderer draws one satellite frame.
type SceneRenderer interface {
	RenderScene(frame render.SceneFrame) (image.Image, error)
}

// SequencerOptions configure one animation run.
type SequencerOptions struct {
	Start    time.Time
	End      time.Time
	Interval time.Duration
	// Viewport crops the scene; the zero value renders the native sector.
	Viewport      domain.Viewport
	MinPopulation float64
	GIFPath       string
}

// Sequencer renders one satellite frame per target time and assembles the
// survivors into an animated GIF.
//
// Failure policy: a frame that cannot be resolved or rendered is logged and
// skipped; the animation is built from whatever frames survive. Zero
// surviving frames is a run failure and no GIF is written.
type Sequencer struct {
	scenes   SceneSource
	renderer SceneRenderer

	places     []domain.Place
	boundaries [][]domain.Geo
	opts       SequencerOptions
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool

	rendered atomic.Int64
	skipped  atomic.Int64
	total    atomic.Int64
}

// NewSequencer creates an animation pipeline. places and boundaries may be
// empty when those overlays are disabled.
func NewSequencer(
	scenes SceneSource,
	renderer SceneRenderer,
	places []domain.Place,
	boundaries [][]domain.Geo,
	opts SequencerOptions,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Sequencer {
	return &Sequencer{
		scenes:     scenes,
		renderer:   renderer,
		places:     places,
		boundaries: boundaries,
		opts:       opts,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once at least one frame has been rendered.
func (s *Sequencer) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no frames rendered yet")
	}
	return nil
}

// Progress reports rendered, skipped, and total frame counts for the current
// run.
func (s *Sequencer) Progress() (rendered, skipped, total int) {
	return int(s.rendered.Load()), int(s.skipped.Load()), int(s.total.Load())
}

// Run renders every target frame, then assembles the GIF. Frame files live in
// a temporary directory that is removed when the run finishes.
func (s *Sequencer) Run(ctx context.Context) error {
	targets, err := domain.TargetTimes(s.opts.Start, s.opts.End, s.opts.Interval)
	if err != nil {
		return err
	}

	s.metrics.RunActive.Set(1)
	defer s.metrics.RunActive.Set(0)
	s.total.Store(int64(len(targets)))
	s.logger.Info("animation run started",
		"targets", len(targets),
		"start", s.opts.Start,
		"end", s.opts.End,
		"interval", s.opts.Interval,
	)

	workDir, err := os.MkdirTemp("", "goesloop-frames-")
	if err != nil {
		return fmt.Errorf("create frame directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	frames := make([]domain.Frame, 0, len(targets))
	for i, target := range targets {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		frame, ok := s.renderFrame(ctx, workDir, i, target)
		if !ok {
			s.metrics.FramesSkipped.Inc()
			s.skipped.Add(1)
			continue
		}
		frames = append(frames, frame)
		s.metrics.FramesRendered.Inc()
		s.rendered.Add(1)
		s.ready.Store(true)
	}

	if len(frames) == 0 {
		return fmt.Errorf("no frames rendered for %d targets", len(targets))
	}

	if err := s.assemble(frames); err != nil {
		return err
	}
	s.logger.Info("animation written",
		"path", s.opts.GIFPath,
		"frames", len(frames),
		"skipped", len(targets)-len(frames),
	)
	return nil
}

// renderFrame resolves, renders, and persists one frame. Returns ok=false on
// any failure; the caller skips the frame.
func (s *Sequencer) renderFrame(ctx context.Context, workDir string, index int, target time.Time) (domain.Frame, bool) {
	start := time.Now()

	scene, err := s.scenes.NearestScene(ctx, target)
	if err != nil {
		s.metrics.FetchErrors.WithLabelValues("scene").Inc()
		s.logger.Warn("scene unavailable, skipping frame", "target", target, "error", err)
		return domain.Frame{}, false
	}
	s.metrics.SceneFetchDuration.Observe(time.Since(start).Seconds())

	viewport := s.opts.Viewport
	if viewport == (domain.Viewport{}) {
		viewport = scene.Extent
	}
	labels := domain.FilterPlaces(s.places, viewport, s.opts.MinPopulation)

	img, err := s.renderer.RenderScene(render.SceneFrame{
		Scene:      scene,
		Viewport:   s.opts.Viewport,
		Places:     labels,
		Boundaries: s.boundaries,
		Caption:    domain.SceneCaption(scene.Satellite, scene.Time),
	})
	if err != nil {
		s.logger.Warn("render failed, skipping frame", "target", target, "error", err)
		return domain.Frame{}, false
	}

	path := filepath.Join(workDir, fmt.Sprintf("frame_%03d.png", index))
	if err := render.SavePNG(path, img); err != nil {
		s.logger.Warn("persist failed, skipping frame", "target", target, "error", err)
		return domain.Frame{}, false
	}

	s.metrics.FrameRenderDuration.Observe(time.Since(start).Seconds())
	s.logger.Debug("frame rendered",
		"index", index,
		"target", target,
		"scene_time", scene.Time,
		"path", path,
	)
	return domain.Frame{Index: index, Path: path, Time: scene.Time}, true
}

// assemble loads the surviving frames in index order and encodes the GIF.
func (s *Sequencer) assemble(frames []domain.Frame) error {
	images := make([]image.Image, 0, len(frames))
	for _, f := range frames {
		img, err := render.LoadPNG(f.Path)
		if err != nil {
			return fmt.Errorf("load frame %d: %w", f.Index, err)
		}
		images = append(images, img)
	}
	return render.SaveGIF(s.opts.GIFPath, images)
}
