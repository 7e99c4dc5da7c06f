package render

import "image/color"

// The operational NWS reflectivity palette. Each stop colors values from its
// threshold up to the next stop; returns below the first stop are not drawn,
// which keeps clear-air noise off the map.
var reflectivityStops = []struct {
	dbz float64
	c   color.RGBA
}{
	{5, color.RGBA{0x00, 0xEC, 0xEC, 0xFF}},
	{10, color.RGBA{0x01, 0xA0, 0xF6, 0xFF}},
	{15, color.RGBA{0x00, 0x00, 0xF6, 0xFF}},
	{20, color.RGBA{0x00, 0xFF, 0x00, 0xFF}},
	{25, color.RGBA{0x00, 0xC8, 0x00, 0xFF}},
	{30, color.RGBA{0x00, 0x90, 0x00, 0xFF}},
	{35, color.RGBA{0xFF, 0xFF, 0x00, 0xFF}},
	{40, color.RGBA{0xE7, 0xC0, 0x00, 0xFF}},
	{45, color.RGBA{0xFF, 0x90, 0x00, 0xFF}},
	{50, color.RGBA{0xFF, 0x00, 0x00, 0xFF}},
	{55, color.RGBA{0xD6, 0x00, 0x00, 0xFF}},
	{60, color.RGBA{0xC0, 0x00, 0x00, 0xFF}},
	{65, color.RGBA{0xFF, 0x00, 0xFF, 0xFF}},
	{70, color.RGBA{0x99, 0x55, 0xC9, 0xFF}},
	{75, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
}

// Legend range and tick marks, matching the broadcast colorbar.
const (
	legendMinDBZ = -20
	legendMaxDBZ = 70
)

var legendTicks = []float64{-20, -10, 0, 10, 20, 30, 40, 50, 60, 70}

// reflectivityColor maps a dBZ value to its display color. The second return
// is false for values below the lowest stop, which are not drawn.
func reflectivityColor(dbz float64) (color.RGBA, bool) {
	if dbz < reflectivityStops[0].dbz {
		return color.RGBA{}, false
	}
	c := reflectivityStops[0].c
	for _, stop := range reflectivityStops[1:] {
		if dbz < stop.dbz {
			break
		}
		c = stop.c
	}
	return c, true
}
