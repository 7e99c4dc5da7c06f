package domain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testViewport covers the central plains.
var testViewport = Viewport{MinLon: -100, MaxLon: -90, MinLat: 30, MaxLat: 40}

// boxRing builds a closed rectangular ring inside the given bounds.
func boxRing(minLon, minLat, maxLon, maxLat float64) orb.Ring {
	return orb.Ring{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}
}

func polyFeature(phenomenon, significance string, ring orb.Ring) WarningFeature {
	return WarningFeature{
		Phenomenon:   phenomenon,
		Significance: significance,
		Geometry:     orb.Polygon{ring},
	}
}

func TestFilterWarnings_PhenomenonOrSignificance(t *testing.T) {
	ring := boxRing(-96, 33, -95, 34)

	tests := []struct {
		name         string
		phenomenon   string
		significance string
		wantKept     bool
		wantColor    string
	}{
		{"tornado warning", "TO", "W", true, ColorTornado},
		{"severe thunderstorm", "SV", "W", true, ColorSevere},
		{"flash flood", "FF", "W", true, ColorFlashFlood},
		{"marine", "MA", "W", true, ColorMarine},
		{"recognized phenomenon, odd significance", "TO", "S", true, ColorTornado},
		// Inclusive-OR: unknown phenomenon still passes on significance alone.
		{"winter storm passes on significance", "WS", "W", true, ColorGeneric},
		{"advisory passes on significance", "WW", "Y", true, ColorGeneric},
		{"watch passes on significance", "FA", "A", true, ColorGeneric},
		{"neither condition holds", "XX", "S", false, ""},
		{"empty codes", "", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shapes := FilterWarnings([]WarningFeature{polyFeature(tt.phenomenon, tt.significance, ring)}, testViewport)
			if !tt.wantKept {
				assert.Empty(t, shapes)
				return
			}
			require.Len(t, shapes, 1)
			assert.Equal(t, tt.wantColor, shapes[0].Color)
			assert.Equal(t, WarningStrokeWidth, shapes[0].StrokeWidth)
		})
	}
}

func TestFilterWarnings_TornadoEscalation(t *testing.T) {
	ring := boxRing(-96, 33, -95, 34)

	t.Run("emergency", func(t *testing.T) {
		f := polyFeature("TO", "W", ring)
		f.IsEmergency = true
		shapes := FilterWarnings([]WarningFeature{f}, testViewport)
		require.Len(t, shapes, 1)
		assert.Equal(t, ColorTornadoEmer, shapes[0].Color)
		assert.Equal(t, "TORNADO EMERGENCY", shapes[0].Label)
	})

	t.Run("PDS", func(t *testing.T) {
		f := polyFeature("TO", "W", ring)
		f.IsPDS = true
		shapes := FilterWarnings([]WarningFeature{f}, testViewport)
		require.Len(t, shapes, 1)
		assert.Equal(t, ColorTornadoPDS, shapes[0].Color)
		assert.Equal(t, "PDS TORNADO WARNING", shapes[0].Label)
	})

	t.Run("emergency wins over PDS", func(t *testing.T) {
		f := polyFeature("TO", "W", ring)
		f.IsEmergency = true
		f.IsPDS = true
		shapes := FilterWarnings([]WarningFeature{f}, testViewport)
		require.Len(t, shapes, 1)
		assert.Equal(t, ColorTornadoEmer, shapes[0].Color)
	})

	t.Run("flags ignored for non-tornado phenomena", func(t *testing.T) {
		f := polyFeature("SV", "W", ring)
		f.IsEmergency = true
		shapes := FilterWarnings([]WarningFeature{f}, testViewport)
		require.Len(t, shapes, 1)
		assert.Equal(t, ColorSevere, shapes[0].Color)
	})
}

func TestFilterWarnings_GeometryNormalization(t *testing.T) {
	t.Run("multipolygon emits one shape per exterior ring", func(t *testing.T) {
		f := WarningFeature{
			Phenomenon:   "SV",
			Significance: "W",
			Geometry: orb.MultiPolygon{
				{boxRing(-96, 33, -95, 34)},
				{boxRing(-94, 35, -93, 36)},
			},
		}
		shapes := FilterWarnings([]WarningFeature{f}, testViewport)
		assert.Len(t, shapes, 2)
	})

	t.Run("interior rings are ignored", func(t *testing.T) {
		f := WarningFeature{
			Phenomenon:   "SV",
			Significance: "W",
			Geometry: orb.Polygon{
				boxRing(-96, 33, -95, 34),
				boxRing(-95.8, 33.2, -95.2, 33.8), // hole
			},
		}
		shapes := FilterWarnings([]WarningFeature{f}, testViewport)
		require.Len(t, shapes, 1)
		assert.Equal(t, boxRing(-96, 33, -95, 34), shapes[0].Ring)
	})

	t.Run("non-polygon geometry is skipped", func(t *testing.T) {
		features := []WarningFeature{
			{Phenomenon: "TO", Significance: "W", Geometry: orb.Point{-95, 33}},
			{Phenomenon: "TO", Significance: "W", Geometry: orb.LineString{{-96, 33}, {-95, 34}}},
			{Phenomenon: "TO", Significance: "W", Geometry: nil},
		}
		assert.Empty(t, FilterWarnings(features, testViewport))
	})

	t.Run("degenerate rings emit nothing", func(t *testing.T) {
		features := []WarningFeature{
			polyFeature("TO", "W", orb.Ring{}),
			polyFeature("TO", "W", orb.Ring{{-95, 33}}),
			polyFeature("TO", "W", orb.Ring{{-95, 33}, {-94, 34}}),
			{Phenomenon: "TO", Significance: "W", Geometry: orb.Polygon{}},
		}
		assert.Empty(t, FilterWarnings(features, testViewport))
	})
}

func TestFilterWarnings_ViewportCull(t *testing.T) {
	tests := []struct {
		name     string
		ring     orb.Ring
		wantKept bool
	}{
		{"inside viewport", boxRing(-96, 33, -95, 34), true},
		{"straddling edge", boxRing(-101, 33, -99, 34), true},
		{"touching edge", boxRing(-102, 33, -100, 34), true},
		{"west of viewport", boxRing(-110, 33, -105, 34), false},
		{"south of viewport", boxRing(-96, 20, -95, 25), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shapes := FilterWarnings([]WarningFeature{polyFeature("TO", "W", tt.ring)}, testViewport)
			if tt.wantKept {
				assert.Len(t, shapes, 1)
			} else {
				assert.Empty(t, shapes)
			}
		})
	}
}
