package domain

import "fmt"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Viewport is the rectangular geographic bounding box used to cull and frame
// rendered content. Invariant: min < max on both axes.
type Viewport struct {
	MinLon float64
	MaxLon float64
	MinLat float64
	MaxLat float64
}

// Radar viewport buffers, sized so a 4.3:1.7 lon/lat box roughly matches a
// 16:9 canvas at CONUS latitudes.
const (
	RadarLonBuffer = 4.3
	RadarLatBuffer = 1.7
)

// ViewportAround builds the radar viewport: a fixed-buffer box centered on
// the radar site.
func ViewportAround(center Geo, lonBuffer, latBuffer float64) Viewport {
	return Viewport{
		MinLon: center.Lon - lonBuffer,
		MaxLon: center.Lon + lonBuffer,
		MinLat: center.Lat - latBuffer,
		MaxLat: center.Lat + latBuffer,
	}
}

// Validate reports whether the viewport is a proper box.
func (v Viewport) Validate() error {
	if v.MinLon >= v.MaxLon {
		return fmt.Errorf("viewport: min_lon %.4f >= max_lon %.4f", v.MinLon, v.MaxLon)
	}
	if v.MinLat >= v.MaxLat {
		return fmt.Errorf("viewport: min_lat %.4f >= max_lat %.4f", v.MinLat, v.MaxLat)
	}
	return nil
}

// Contains reports whether the point is strictly inside the viewport.
// Boundary points are excluded.
func (v Viewport) Contains(p Geo) bool {
	return p.Lon > v.MinLon && p.Lon < v.MaxLon &&
		p.Lat > v.MinLat && p.Lat < v.MaxLat
}

// Intersects reports whether another box overlaps this one. Touching edges
// count as overlap; this is the cheap axis-aligned reject used for warning
// polygons, not an exact clip.
func (v Viewport) Intersects(o Viewport) bool {
	return o.MaxLon >= v.MinLon && o.MinLon <= v.MaxLon &&
		o.MaxLat >= v.MinLat && o.MinLat <= v.MaxLat
}

// Width returns the longitudinal span in degrees.
func (v Viewport) Width() float64 { return v.MaxLon - v.MinLon }

// Height returns the latitudinal span in degrees.
func (v Viewport) Height() float64 { return v.MaxLat - v.MinLat }

// regionExtents maps preset region names to [min_lon, max_lon, min_lat,
// max_lat] viewports for the satellite compositor.
var regionExtents = map[string]Viewport{
	"CONUS":               {MinLon: -125, MaxLon: -65, MinLat: 20, MaxLat: 50},
	"Southeast":           {MinLon: -95, MaxLon: -75, MinLat: 25, MaxLat: 38},
	"Northeast":           {MinLon: -85, MaxLon: -65, MinLat: 35, MaxLat: 50},
	"Northwest":           {MinLon: -130, MaxLon: -105, MinLat: 38, MaxLat: 50},
	"Southwest":           {MinLon: -125, MaxLon: -100, MinLat: 25, MaxLat: 40},
	"North Central":       {MinLon: -110, MaxLon: -85, MinLat: 40, MaxLat: 50},
	"Central":             {MinLon: -105, MaxLon: -85, MinLat: 30, MaxLat: 45},
	"South Central":       {MinLon: -110, MaxLon: -90, MinLat: 25, MaxLat: 40},
	"Lower Mississippi":   {MinLon: -95, MaxLon: -85, MinLat: 28, MaxLat: 40},
	"Central Mississippi": {MinLon: -100, MaxLon: -85, MinLat: 30, MaxLat: 45},
	"Upper Mississippi":   {MinLon: -100, MaxLon: -85, MinLat: 40, MaxLat: 50},
	"Great Lakes":         {MinLon: -95, MaxLon: -75, MinLat: 38, MaxLat: 50},
	"Alaska":              {MinLon: -180, MaxLon: -130, MinLat: 50, MaxLat: 75},
}

// RegionViewport looks up a preset region. An empty name means "use the
// scene's native bounds" and returns ok=false; an unknown name is an error so
// a typo in configuration fails fast instead of silently rendering the full
// disk.
func RegionViewport(name string) (Viewport, bool, error) {
	if name == "" {
		return Viewport{}, false, nil
	}
	vp, ok := regionExtents[name]
	if !ok {
		return Viewport{}, false, fmt.Errorf("unknown map region %q", name)
	}
	return vp, true, nil
}

// RegionNames lists the preset region names, for error messages and docs.
func RegionNames() []string {
	names := make([]string, 0, len(regionExtents))
	for name := range regionExtents {
		names = append(names, name)
	}
	return names
}
