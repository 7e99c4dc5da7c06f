// Command genwarnings generates a synthetic storm-based warning GeoJSON
// fixture shaped like the IEM sbw feed. It uses the actual domain filter to
// report how many of the generated features would draw, so test assertions
// can be written against known counts.
//
// Usage:
//
//	go run ./cmd/genwarnings \
//	  -out testdata/sbw.geojson \
//	  -lat 30.68 -lon -88.24 -count 12
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// warningDef describes one synthetic feature to emit.
type warningDef struct {
	phenomenon   string
	significance string
	emergency    bool
	pds          bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the GeoJSON fixture")
	lat := flag.Float64("lat", 30.68, "center latitude for generated polygons")
	lon := flag.Float64("lon", -88.24, "center longitude for generated polygons")
	count := flag.Int("count", 12, "number of warning features to generate")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Fixed clock for reproducible issue/expire timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	defs := []warningDef{
		{phenomenon: "TO", significance: "W"},
		{phenomenon: "TO", significance: "W", emergency: true},
		{phenomenon: "TO", significance: "W", pds: true},
		{phenomenon: "SV", significance: "W"},
		{phenomenon: "FF", significance: "W"},
		{phenomenon: "MA", significance: "W"},
		{phenomenon: "WS", significance: "Y"}, // non-convective, kept by significance
		{phenomenon: "DS", significance: "S"}, // dropped by both predicates
	}

	fc := geojson.NewFeatureCollection()
	for i := 0; i < *count; i++ {
		def := defs[i%len(defs)]
		fc.Append(buildFeature(def, *lat, *lon, i))
	}

	features := make([]domain.WarningFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		features = append(features, domain.WarningFeature{
			Phenomenon:   f.Properties.MustString("phenomena", ""),
			Significance: f.Properties.MustString("significance", ""),
			IsEmergency:  f.Properties.MustBool("is_emergency", false),
			IsPDS:        f.Properties.MustBool("is_pds", false),
			Geometry:     f.Geometry,
		})
	}
	viewport := domain.ViewportAround(domain.Geo{Lat: *lat, Lon: *lon},
		domain.RadarLonBuffer, domain.RadarLatBuffer)
	drawable := domain.FilterWarnings(features, viewport)

	if err := writeGeoJSON(*out, fc); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}

	log.Printf("wrote %d features to %s", len(fc.Features), *out)
	log.Printf("drawable within the radar viewport: %d", len(drawable))
	return nil
}

// buildFeature places a small warning box offset from the center so features
// fan out instead of stacking.
func buildFeature(def warningDef, lat, lon float64, i int) *geojson.Feature {
	dLat := float64(i%5)*0.3 - 0.6
	dLon := float64(i/5)*0.4 - 0.4
	cLat, cLon := lat+dLat, lon+dLon

	ring := orb.Ring{
		{cLon - 0.15, cLat - 0.1},
		{cLon + 0.15, cLat - 0.1},
		{cLon + 0.15, cLat + 0.1},
		{cLon - 0.15, cLat + 0.1},
		{cLon - 0.15, cLat - 0.1},
	}
	f := geojson.NewFeature(orb.Polygon{ring})

	issue := domain.Now().UTC()
	f.Properties["phenomena"] = def.phenomenon
	f.Properties["significance"] = def.significance
	f.Properties["is_emergency"] = def.emergency
	f.Properties["is_pds"] = def.pds
	f.Properties["issue"] = issue.Format(time.RFC3339)
	f.Properties["expire"] = issue.Add(45 * time.Minute).Format(time.RFC3339)
	f.Properties["wfo"] = "MOB"
	f.Properties["eventid"] = i + 1
	return f
}

func writeGeoJSON(path string, fc *geojson.FeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
