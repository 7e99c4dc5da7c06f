// Command goesloop renders a GOES satellite animation: one frame per target
// time across a configured window, assembled into a looping GIF. A status
// server exposes health, readiness, metrics, and run progress while the loop
// renders.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-imagery/internal/adapter/goes"
	"github.com/couchcryptid/storm-imagery/internal/adapter/natearth"
	"github.com/couchcryptid/storm-imagery/internal/adapter/status"
	"github.com/couchcryptid/storm-imagery/internal/config"
	"github.com/couchcryptid/storm-imagery/internal/domain"
	"github.com/couchcryptid/storm-imagery/internal/observability"
	"github.com/couchcryptid/storm-imagery/internal/pipeline"
	"github.com/couchcryptid/storm-imagery/internal/render"
)

const (
	canvasWidth  = 1280
	canvasHeight = 720
	// Scene cache entries; the cache only pays off when the frame interval is
	// shorter than the product cadence, so a handful of slots suffices.
	sceneCacheSize = 16
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	seq, err := buildSequencer(cfg, logger, metrics)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *status.Server
	if cfg.StatusEnabled {
		srv = status.NewServer(cfg.HTTPAddr, seq, seq, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server error", "error", err)
			}
		}()
	}

	runErr := seq.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("status server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("animation run failed", "error", runErr)
		os.Exit(1)
	}
	logger.Info("done", "output", cfg.GIFPath)
}

// buildSequencer wires the scene source, overlays, and renderer from config.
func buildSequencer(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*pipeline.Sequencer, error) {
	client, err := goes.NewClient(goes.Options{
		BaseURL:      cfg.GoesBaseURL,
		Satellite:    cfg.GoesSatellite,
		Product:      cfg.GoesProduct,
		Sector:       cfg.GoesSector,
		Resolution:   cfg.GoesResolution,
		Cadence:      cfg.GoesCadence,
		SearchRadius: cfg.GoesSearchRadius,
		Timeout:      cfg.GoesTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	scenes := goes.NewCachedSceneSource(client, cfg.GoesCadence, sceneCacheSize)

	viewport, ok, err := domain.RegionViewport(cfg.MapRegion)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Info("no map region set, rendering the native sector extent")
	}

	var places []domain.Place
	if cfg.GazetteerPath != "" {
		places, err = natearth.NewGazetteer(cfg.GazetteerPath, logger).Places()
		if err != nil {
			logger.Warn("gazetteer unavailable, rendering without city markers", "error", err)
		}
	}

	var boundaries [][]domain.Geo
	if cfg.BoundariesPath != "" {
		boundaries, err = natearth.Boundaries(cfg.BoundariesPath)
		if err != nil {
			logger.Warn("boundaries unavailable, rendering without them", "error", err)
		}
	}

	renderer, err := render.New(canvasWidth, canvasHeight)
	if err != nil {
		return nil, err
	}

	return pipeline.NewSequencer(scenes, renderer, places, boundaries,
		pipeline.SequencerOptions{
			Start:         cfg.FrameStart,
			End:           cfg.FrameEnd,
			Interval:      cfg.FrameInterval,
			Viewport:      viewport,
			MinPopulation: cfg.MinPopulation,
			GIFPath:       cfg.GIFPath,
		}, logger, metrics), nil
}
