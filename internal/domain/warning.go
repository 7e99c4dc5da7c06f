package domain

import (
	"github.com/paulmach/orb"
)

// Warning display colors, matching NWS broadcast conventions.
const (
	ColorTornado     = "#FF0000"
	ColorSevere      = "#FFA500"
	ColorFlashFlood  = "#00FF00"
	ColorMarine      = "#FF00FF"
	ColorGeneric     = "#FFFF00"
	ColorTornadoEmer = "#8B008B"
	ColorTornadoPDS  = "#8B0000"
)

// WarningStrokeWidth is the fixed stroke width for warning outlines, in
// pixels at render scale.
const WarningStrokeWidth = 5.0

// warningTypes maps recognized phenomenon codes to display color and label.
var warningTypes = map[string]struct {
	color string
	label string
}{
	"TO": {ColorTornado, "Tornado Warning"},
	"SV": {ColorSevere, "Severe Thunderstorm"},
	"FF": {ColorFlashFlood, "Flash Flood Warning"},
	"MA": {ColorMarine, "Marine Warning"},
}

// significanceFilter is the set of VTEC significance codes that pass the
// secondary filter: warning, advisory, watch.
var significanceFilter = map[string]bool{"W": true, "Y": true, "A": true}

// WarningFeature is one feature from the storm-based warning feed, reduced
// to the properties and geometry the overlay filter consumes.
type WarningFeature struct {
	Phenomenon   string
	Significance string
	IsEmergency  bool
	IsPDS        bool
	Geometry     orb.Geometry
}

// WarningShape is a drawable warning outline: one exterior ring with its
// assigned color and label, no fill.
type WarningShape struct {
	Ring        orb.Ring
	Color       string
	Label       string
	StrokeWidth float64
}

// FilterWarnings selects and classifies the warning features that should be
// drawn on the given viewport. One shape is emitted per surviving exterior
// ring.
//
// A feature passes when its phenomenon is recognized OR its significance is
// in the W/Y/A set (see the package doc for why the OR is inclusive). Rings
// with fewer than 3 vertices are dropped, and rings whose bounding box does
// not overlap the viewport are culled.
func FilterWarnings(features []WarningFeature, vp Viewport) []WarningShape {
	var shapes []WarningShape

	for _, f := range features {
		_, recognized := warningTypes[f.Phenomenon]
		if !recognized && !significanceFilter[f.Significance] {
			continue
		}

		color, label := classifyWarning(f)

		for _, polygon := range normalizePolygons(f.Geometry) {
			if len(polygon) == 0 {
				continue
			}
			exterior := polygon[0]
			if len(exterior) < 3 {
				continue
			}
			if !vp.Intersects(ringBounds(exterior)) {
				continue
			}
			shapes = append(shapes, WarningShape{
				Ring:        exterior,
				Color:       color,
				Label:       label,
				StrokeWidth: WarningStrokeWidth,
			})
		}
	}

	return shapes
}

// classifyWarning assigns the display color and label for a feature that
// already passed the phenomenon/significance filter. Tornado warnings
// escalate to emergency or PDS colors; emergency takes priority when both
// flags are set.
func classifyWarning(f WarningFeature) (color, label string) {
	if wt, ok := warningTypes[f.Phenomenon]; ok {
		color, label = wt.color, wt.label
	} else {
		color, label = ColorGeneric, "Weather Warning"
	}

	if f.Phenomenon == "TO" {
		switch {
		case f.IsEmergency:
			color, label = ColorTornadoEmer, "TORNADO EMERGENCY"
		case f.IsPDS:
			color, label = ColorTornadoPDS, "PDS TORNADO WARNING"
		}
	}
	return color, label
}

// normalizePolygons reduces a geometry to a flat polygon list: a Polygon
// wraps to a single-element list, a MultiPolygon is taken as-is, and any
// other geometry type is skipped.
func normalizePolygons(g orb.Geometry) []orb.Polygon {
	switch geom := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{geom}
	case orb.MultiPolygon:
		return geom
	default:
		return nil
	}
}

// ringBounds computes the axis-aligned bounding box of a ring.
func ringBounds(ring orb.Ring) Viewport {
	b := Viewport{
		MinLon: ring[0].Lon(), MaxLon: ring[0].Lon(),
		MinLat: ring[0].Lat(), MaxLat: ring[0].Lat(),
	}
	for _, p := range ring[1:] {
		if p.Lon() < b.MinLon {
			b.MinLon = p.Lon()
		}
		if p.Lon() > b.MaxLon {
			b.MaxLon = p.Lon()
		}
		if p.Lat() < b.MinLat {
			b.MinLat = p.Lat()
		}
		if p.Lat() > b.MaxLat {
			b.MaxLat = p.Lat()
		}
	}
	return b
}
