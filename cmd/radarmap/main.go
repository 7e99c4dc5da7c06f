// Command radarmap renders a single radar snapshot: it downloads one NEXRAD
// Level-II volume, overlays active warnings, city labels, and boundaries, and
// writes a PNG named after the station and scan time.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-imagery/internal/adapter/iem"
	"github.com/couchcryptid/storm-imagery/internal/adapter/natearth"
	"github.com/couchcryptid/storm-imagery/internal/adapter/nexrad"
	"github.com/couchcryptid/storm-imagery/internal/config"
	"github.com/couchcryptid/storm-imagery/internal/domain"
	"github.com/couchcryptid/storm-imagery/internal/observability"
	"github.com/couchcryptid/storm-imagery/internal/pipeline"
	"github.com/couchcryptid/storm-imagery/internal/render"
)

const (
	canvasWidth  = 1920
	canvasHeight = 1080
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	renderer, err := render.New(canvasWidth, canvasHeight)
	if err != nil {
		logger.Error("renderer init failed", "error", err)
		os.Exit(1)
	}

	volumes := nexrad.NewClient(cfg.RadarVolumeURL, cfg.RadarTimeout, logger)
	warnings := iem.NewClient(cfg.WarningsBaseURL, cfg.WarningsTimeout, logger)

	var places pipeline.PlaceSource
	if cfg.GazetteerPath != "" {
		places = natearth.NewGazetteer(cfg.GazetteerPath, logger)
	} else {
		logger.Info("no gazetteer configured, city labels disabled")
	}

	var boundaries [][]domain.Geo
	if cfg.BoundariesPath != "" {
		boundaries, err = natearth.Boundaries(cfg.BoundariesPath)
		if err != nil {
			logger.Warn("boundaries unavailable, rendering without them", "error", err)
		}
	}

	snap := pipeline.NewSnapshot(volumes, warnings, places, renderer, boundaries,
		pipeline.SnapshotOptions{
			StationName:   cfg.RadarStationName,
			LonBuffer:     cfg.RadarLonBuffer,
			LatBuffer:     cfg.RadarLatBuffer,
			MinPopulation: cfg.MinPopulation,
			OutputDir:     cfg.OutputDir,
		}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path, err := snap.Run(ctx)
	if err != nil {
		logger.Error("snapshot failed", "error", err)
		os.Exit(1)
	}
	logger.Info("done", "output", path)
}
