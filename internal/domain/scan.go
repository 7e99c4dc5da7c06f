package domain

import (
	"image"
	"time"
)

// Radial is one azimuthal ray of reflectivity gates from the lowest
// elevation cut of a radar volume.
type Radial struct {
	Azimuth   float64 // degrees clockwise from north
	Elevation float64 // degrees above horizon
	FirstGate float64 // range to the center of the first gate, meters
	GateWidth float64 // gate spacing, meters
	Gates     []float64
	GateValid []bool // false where the moment was below threshold or folded
}

// RadarScan is a decoded NEXRAD Level-II volume reduced to what the renderer
// consumes: site identity and position, scan time, and the lowest-tilt
// reflectivity sweep.
type RadarScan struct {
	StationID string
	Site      Geo
	Time      time.Time
	Radials   []Radial
}

// Scene is one composited satellite raster with its resolved acquisition
// time and native geographic extent.
type Scene struct {
	Image     image.Image
	Time      time.Time
	Extent    Viewport
	Satellite int
}

// Frame is one rendered animation frame persisted to a temporary path,
// consumed in order by the GIF assembler and deleted afterwards.
type Frame struct {
	Index int
	Path  string
	Time  time.Time
}
