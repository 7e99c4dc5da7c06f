package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	assert.Equal(t, "KMOB", cfg.RadarStationID)
	assert.Equal(t, "MOBILE, AL", cfg.RadarStationName)
	assert.Contains(t, cfg.RadarVolumeURL, "unidata-nexrad-level2")
	assert.Equal(t, 4.3, cfg.RadarLonBuffer)
	assert.Equal(t, 1.7, cfg.RadarLatBuffer)

	assert.Equal(t, 60*time.Second, cfg.RadarTimeout)

	assert.Equal(t, "https://mesonet.agron.iastate.edu/geojson/sbw.geojson", cfg.WarningsBaseURL)
	assert.Equal(t, 10*time.Second, cfg.WarningsTimeout)

	assert.Empty(t, cfg.GazetteerPath)
	assert.Empty(t, cfg.BoundariesPath)
	assert.Equal(t, 1000.0, cfg.MinPopulation)

	assert.Equal(t, "https://cdn.star.nesdis.noaa.gov", cfg.GoesBaseURL)
	assert.Equal(t, 19, cfg.GoesSatellite)
	assert.Equal(t, "GEOCOLOR", cfg.GoesProduct)
	assert.Equal(t, "CONUS", cfg.GoesSector)
	assert.Equal(t, "2500x1500", cfg.GoesResolution)
	assert.Equal(t, 5*time.Minute, cfg.GoesCadence)
	assert.Equal(t, 30*time.Minute, cfg.GoesSearchRadius)
	assert.Equal(t, "CONUS", cfg.MapRegion)
	assert.Equal(t, time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC), cfg.FrameStart)
	assert.Equal(t, time.Date(2025, 12, 2, 12, 30, 0, 0, time.UTC), cfg.FrameEnd)
	assert.Equal(t, time.Hour, cfg.FrameInterval)

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "goes_loop.gif", cfg.GIFPath)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.StatusEnabled)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("RADAR_VOLUME_URL", "https://example.com/KTLX20240426_000000_V06")
	t.Setenv("RADAR_STATION_ID", "KTLX")
	t.Setenv("RADAR_STATION_NAME", "OKLAHOMA CITY, OK")
	t.Setenv("RADAR_LON_BUFFER", "3.5")
	t.Setenv("RADAR_LAT_BUFFER", "2.0")
	t.Setenv("WARNINGS_BASE_URL", "https://example.com/sbw.geojson")
	t.Setenv("WARNINGS_TIMEOUT", "5s")
	t.Setenv("GAZETTEER_PATH", "/data/ne_10m_populated_places.shp")
	t.Setenv("BOUNDARIES_PATH", "/data/ne_50m_admin_1_lines.shp")
	t.Setenv("MIN_POPULATION", "25000")
	t.Setenv("GOES_SATELLITE", "16")
	t.Setenv("GOES_SECTOR", "FD")
	t.Setenv("MAP_REGION", "Southeast")
	t.Setenv("FRAME_START", "2024-09-01T00:00:00Z")
	t.Setenv("FRAME_END", "2024-09-02T00:00:00Z")
	t.Setenv("FRAME_INTERVAL", "30m")
	t.Setenv("GIF_PATH", "dorian.gif")
	t.Setenv("STATUS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "KTLX", cfg.RadarStationID)
	assert.Equal(t, "OKLAHOMA CITY, OK", cfg.RadarStationName)
	assert.Equal(t, 3.5, cfg.RadarLonBuffer)
	assert.Equal(t, 2.0, cfg.RadarLatBuffer)
	assert.Equal(t, 5*time.Second, cfg.WarningsTimeout)
	assert.Equal(t, "/data/ne_10m_populated_places.shp", cfg.GazetteerPath)
	assert.Equal(t, "/data/ne_50m_admin_1_lines.shp", cfg.BoundariesPath)
	assert.Equal(t, 25000.0, cfg.MinPopulation)
	assert.Equal(t, 16, cfg.GoesSatellite)
	assert.Equal(t, "FD", cfg.GoesSector)
	assert.Equal(t, "Southeast", cfg.MapRegion)
	assert.Equal(t, 30*time.Minute, cfg.FrameInterval)
	assert.Equal(t, "dorian.gif", cfg.GIFPath)
	assert.False(t, cfg.StatusEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"bad warnings timeout", "WARNINGS_TIMEOUT", "soon", "WARNINGS_TIMEOUT"},
		{"bad frame interval", "FRAME_INTERVAL", "hourly", "FRAME_INTERVAL"},
		{"zero frame interval", "FRAME_INTERVAL", "0s", "FRAME_INTERVAL"},
		{"bad frame start", "FRAME_START", "12/01/2025", "FRAME_START"},
		{"bad satellite", "GOES_SATELLITE", "goes-west", "GOES_SATELLITE"},
		{"zero satellite", "GOES_SATELLITE", "0", "GOES_SATELLITE"},
		{"bad min population", "MIN_POPULATION", "many", "MIN_POPULATION"},
		{"bad lon buffer", "RADAR_LON_BUFFER", "wide", "RADAR_LON_BUFFER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_WindowValidation(t *testing.T) {
	t.Setenv("FRAME_START", "2025-12-02T00:00:00Z")
	t.Setenv("FRAME_END", "2025-12-01T00:00:00Z")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FRAME_END precedes FRAME_START")
}

func TestLoad_NegativeMinPopulation(t *testing.T) {
	t.Setenv("MIN_POPULATION", "-5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_POPULATION")
}

func TestLoad_NegativeBuffer(t *testing.T) {
	t.Setenv("RADAR_LAT_BUFFER", "-1.7")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffers")
}
