package render

import (
	"image"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// Half the angular width of a rendered radial, degrees. Slightly wider than
// half the 1° super-res beam spacing so adjacent radials overlap instead of
// leaving hairline gaps.
const halfBeamWidthDeg = 0.6

// metersPerDegLat is the flat-earth conversion used to place gates. Error at
// radar display ranges is well under a gate width.
const metersPerDegLat = 111_000

// RadarFrame is everything drawn onto one radar map.
type RadarFrame struct {
	Scan        *domain.RadarScan
	Viewport    domain.Viewport
	Warnings    []domain.WarningShape
	Places      []domain.Place
	Boundaries  [][]domain.Geo
	StationName string
}

// RenderRadar composes the full radar map: base fill, reflectivity radials,
// boundaries, warning outlines, city labels, banner, legend, watermark.
// Layer order is fixed so warnings and labels always sit above echoes.
func (r *Renderer) RenderRadar(frame RadarFrame) (image.Image, error) {
	if err := frame.Viewport.Validate(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(r.width, r.height)
	dc.SetHexColor(canvasBackground)
	dc.Clear()

	mx, my, mw, mh := r.mapRect()
	dc.SetHexColor(landFill)
	dc.DrawRectangle(mx, my, mw, mh)
	dc.Fill()

	p := newProjection(frame.Viewport, mx, my, mw, mh)

	drawRadials(dc, p, frame.Scan)
	drawBoundaries(dc, p, frame.Boundaries, boundaryStroke, 2)
	drawWarnings(dc, p, frame.Warnings)
	for _, place := range frame.Places {
		x, y := p.toPixel(place.Location)
		drawHaloText(dc, r.labelFace, place.Name, x, y)
	}

	title := frame.StationName
	if title == "" {
		title = frame.Scan.StationID
	}
	r.drawBanner(dc, title, frame.Scan.Time)
	r.drawLegend(dc)
	r.drawWatermark(dc)

	return dc.Image(), nil
}

// drawRadials rasterizes each valid gate as a filled quad spanning the gate's
// range interval and the radial's beam width.
func drawRadials(dc *gg.Context, p projection, scan *domain.RadarScan) {
	if scan == nil {
		return
	}
	site := scan.Site
	cosLat := math.Cos(site.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}

	// Gates beyond the viewport corners cannot be visible; cap the range so
	// long clear-air radials cost nothing.
	maxRange := maxVisibleRange(site, p.vp)

	for _, radial := range scan.Radials {
		azLo := (radial.Azimuth - halfBeamWidthDeg) * math.Pi / 180
		azHi := (radial.Azimuth + halfBeamWidthDeg) * math.Pi / 180

		for i, dbz := range radial.Gates {
			if !radial.GateValid[i] {
				continue
			}
			c, ok := reflectivityColor(dbz)
			if !ok {
				continue
			}
			near := radial.FirstGate + float64(i)*radial.GateWidth - radial.GateWidth/2
			far := near + radial.GateWidth
			if near > maxRange {
				break
			}
			if near < 0 {
				near = 0
			}

			x1, y1 := p.toPixel(gatePosition(site, cosLat, near, azLo))
			x2, y2 := p.toPixel(gatePosition(site, cosLat, far, azLo))
			x3, y3 := p.toPixel(gatePosition(site, cosLat, far, azHi))
			x4, y4 := p.toPixel(gatePosition(site, cosLat, near, azHi))

			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 255)
			dc.MoveTo(x1, y1)
			dc.LineTo(x2, y2)
			dc.LineTo(x3, y3)
			dc.LineTo(x4, y4)
			dc.ClosePath()
			dc.Fill()
		}
	}
}

// gatePosition offsets the site by a range and azimuth. Azimuth is radians
// clockwise from north.
func gatePosition(site domain.Geo, cosLat, rangeMeters, azRad float64) domain.Geo {
	return domain.Geo{
		Lat: site.Lat + rangeMeters*math.Cos(azRad)/metersPerDegLat,
		Lon: site.Lon + rangeMeters*math.Sin(azRad)/(metersPerDegLat*cosLat),
	}
}

// maxVisibleRange returns the distance from the site to the farthest viewport
// corner, in meters.
func maxVisibleRange(site domain.Geo, vp domain.Viewport) float64 {
	cosLat := math.Cos(site.Lat * math.Pi / 180)
	max := 0.0
	for _, lon := range []float64{vp.MinLon, vp.MaxLon} {
		for _, lat := range []float64{vp.MinLat, vp.MaxLat} {
			dx := (lon - site.Lon) * metersPerDegLat * cosLat
			dy := (lat - site.Lat) * metersPerDegLat
			if d := math.Hypot(dx, dy); d > max {
				max = d
			}
		}
	}
	return max
}

// drawLegend paints the horizontal reflectivity colorbar in the bottom-right
// corner, with tick labels from -20 to 70 dBZ.
func (r *Renderer) drawLegend(dc *gg.Context) {
	w, h := float64(r.width), float64(r.height)
	barW := w * 0.30
	barH := h * 0.022
	barX := w - barW - w*0.015
	barY := h - barH - h*0.055

	// Backing panel.
	pad := barH * 0.9
	dc.SetRGBA(0, 0, 0, 0.65)
	dc.DrawRectangle(barX-pad, barY-pad*2.2, barW+2*pad, barH+pad*4)
	dc.Fill()

	// One column of color per pixel across the dBZ range. Sub-threshold
	// values render as the panel's dark gray.
	span := float64(legendMaxDBZ - legendMinDBZ)
	for px := 0.0; px < barW; px++ {
		dbz := legendMinDBZ + px/barW*span
		c, ok := reflectivityColor(dbz)
		if !ok {
			dc.SetHexColor("#303030")
		} else {
			dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 255)
		}
		dc.DrawRectangle(barX+px, barY, 1, barH)
		dc.Fill()
	}

	dc.SetFontFace(r.smallFace)
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored("REFLECTIVITY (dBZ)", barX, barY-barH*0.6, 0, 1)
	for _, tick := range legendTicks {
		x := barX + (tick-legendMinDBZ)/span*barW
		dc.DrawStringAnchored(strconv.Itoa(int(tick)), x, barY+barH*1.2, 0.5, 0)
	}
}
