package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all run settings, populated from environment variables with
// defaults matching the standard production runs. It is built once at process
// entry and passed read-only to each stage.
type Config struct {
	LogLevel  string
	LogFormat string

	// Radar snapshot run.
	RadarVolumeURL   string
	RadarStationID   string
	RadarStationName string
	RadarLonBuffer   float64
	RadarLatBuffer   float64
	RadarTimeout     time.Duration

	// Warning overlay feed.
	WarningsBaseURL string
	WarningsTimeout time.Duration

	// Gazetteer and boundary shapefiles. Empty paths disable the overlay.
	GazetteerPath  string
	BoundariesPath string
	MinPopulation  float64

	// Satellite animation run.
	GoesBaseURL      string
	GoesSatellite    int
	GoesProduct      string
	GoesSector       string
	GoesResolution   string
	GoesCadence      time.Duration
	GoesSearchRadius time.Duration
	GoesTimeout      time.Duration
	MapRegion        string
	FrameStart       time.Time
	FrameEnd         time.Time
	FrameInterval    time.Duration

	// Output.
	OutputDir string
	GIFPath   string

	// Status server, enabled for long animation runs.
	HTTPAddr        string
	StatusEnabled   bool
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	warningsTimeout, err := parseDuration("WARNINGS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	radarTimeout, err := parseDuration("RADAR_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	goesTimeout, err := parseDuration("GOES_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	goesCadence, err := parseDuration("GOES_CADENCE", "5m")
	if err != nil {
		return nil, err
	}
	goesSearchRadius, err := parseDuration("GOES_SEARCH_RADIUS", "30m")
	if err != nil {
		return nil, err
	}
	frameInterval, err := parseDuration("FRAME_INTERVAL", "60m")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	frameStart, err := parseTime("FRAME_START", "2025-12-01T12:00:00Z")
	if err != nil {
		return nil, err
	}
	frameEnd, err := parseTime("FRAME_END", "2025-12-02T12:30:00Z")
	if err != nil {
		return nil, err
	}

	minPopulation, err := parseFloat("MIN_POPULATION", 1000)
	if err != nil {
		return nil, err
	}
	lonBuffer, err := parseFloat("RADAR_LON_BUFFER", 4.3)
	if err != nil {
		return nil, err
	}
	latBuffer, err := parseFloat("RADAR_LAT_BUFFER", 1.7)
	if err != nil {
		return nil, err
	}
	goesSatellite, err := parseInt("GOES_SATELLITE", 19)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),

		RadarVolumeURL:   envOrDefault("RADAR_VOLUME_URL", "https://unidata-nexrad-level2.s3.amazonaws.com/2025/06/19/KMOB/KMOB20250619_220753_V06"),
		RadarStationID:   envOrDefault("RADAR_STATION_ID", "KMOB"),
		RadarStationName: envOrDefault("RADAR_STATION_NAME", "MOBILE, AL"),
		RadarLonBuffer:   lonBuffer,
		RadarLatBuffer:   latBuffer,
		RadarTimeout:     radarTimeout,

		WarningsBaseURL: envOrDefault("WARNINGS_BASE_URL", "https://mesonet.agron.iastate.edu/geojson/sbw.geojson"),
		WarningsTimeout: warningsTimeout,

		GazetteerPath:  os.Getenv("GAZETTEER_PATH"),
		BoundariesPath: os.Getenv("BOUNDARIES_PATH"),
		MinPopulation:  minPopulation,

		GoesBaseURL:      envOrDefault("GOES_BASE_URL", "https://cdn.star.nesdis.noaa.gov"),
		GoesSatellite:    goesSatellite,
		GoesProduct:      envOrDefault("GOES_PRODUCT", "GEOCOLOR"),
		GoesSector:       envOrDefault("GOES_SECTOR", "CONUS"),
		GoesResolution:   envOrDefault("GOES_RESOLUTION", "2500x1500"),
		GoesCadence:      goesCadence,
		GoesSearchRadius: goesSearchRadius,
		GoesTimeout:      goesTimeout,
		MapRegion:        envOrDefault("MAP_REGION", "CONUS"),
		FrameStart:       frameStart,
		FrameEnd:         frameEnd,
		FrameInterval:    frameInterval,

		OutputDir: envOrDefault("OUTPUT_DIR", "."),
		GIFPath:   envOrDefault("GIF_PATH", "goes_loop.gif"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		StatusEnabled:   envOrDefault("STATUS_ENABLED", "true") == "true",
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.RadarVolumeURL == "" {
		return nil, errors.New("RADAR_VOLUME_URL is required")
	}
	if cfg.RadarStationID == "" {
		return nil, errors.New("RADAR_STATION_ID is required")
	}
	if cfg.WarningsBaseURL == "" {
		return nil, errors.New("WARNINGS_BASE_URL is required")
	}
	if cfg.RadarLonBuffer <= 0 || cfg.RadarLatBuffer <= 0 {
		return nil, errors.New("radar viewport buffers must be positive")
	}
	if cfg.MinPopulation < 0 {
		return nil, errors.New("MIN_POPULATION must not be negative")
	}
	if cfg.FrameInterval <= 0 {
		return nil, errors.New("FRAME_INTERVAL must be positive")
	}
	if cfg.FrameEnd.Before(cfg.FrameStart) {
		return nil, errors.New("FRAME_END precedes FRAME_START")
	}
	if cfg.GoesCadence <= 0 || cfg.GoesSearchRadius <= 0 {
		return nil, errors.New("GOES cadence and search radius must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseTime(key, def string) (time.Time, error) {
	raw := envOrDefault(key, def)
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %q (want RFC 3339)", key, raw)
	}
	return t.UTC(), nil
}

func parseFloat(key string, def float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return f, nil
}

func parseInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}
