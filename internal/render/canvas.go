// Package render draws radar maps and satellite frames onto fixed-size
// canvases and encodes the results as PNG stills or an animated GIF.
//
// All drawing uses an equirectangular projection: longitude maps linearly to
// x and latitude linearly to y across the map viewport. At the span of a
// single radar site or a regional satellite crop the distortion is below a
// pixel, and it keeps the projection invertible for tests.
package render

import (
	"fmt"
	"math"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// Canvas layout fractions. The banner occupies the top strip and the map
// fills the rest.
const (
	bannerHeightFrac = 0.11
	accentHeightFrac = 0.006
)

// Base map colors.
const (
	canvasBackground = "#1a1a1a"
	landFill         = "#5c7265"
	boundaryStroke   = "#ffffff"
	bannerFill       = "#0a0a0a"
	bannerAccent     = "#2ecc40"
	bannerTimeColor  = "#aaaaaa"
)

// Renderer draws frames at a fixed pixel size. It is safe to reuse across
// frames; font faces are parsed once at construction.
type Renderer struct {
	width  int
	height int

	bannerFace  font.Face
	labelFace   font.Face
	smallFace   font.Face
	captionFace font.Face

	watermark string
}

// New creates a renderer for the given canvas size.
func New(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid canvas size %dx%d", width, height)
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse regular font: %w", err)
	}

	// Font sizes scale with canvas height so the layout holds at both
	// preview and broadcast resolutions.
	scale := float64(height) / 1080.0
	newFace := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size * scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	r := &Renderer{
		width:     width,
		height:    height,
		watermark: fmt.Sprintf("©%d storm-imagery", domain.Now().UTC().Year()),
	}
	if r.bannerFace, err = newFace(bold, 34); err != nil {
		return nil, fmt.Errorf("render: banner face: %w", err)
	}
	if r.labelFace, err = newFace(bold, 16); err != nil {
		return nil, fmt.Errorf("render: label face: %w", err)
	}
	if r.smallFace, err = newFace(regular, 13); err != nil {
		return nil, fmt.Errorf("render: small face: %w", err)
	}
	if r.captionFace, err = newFace(bold, 20); err != nil {
		return nil, fmt.Errorf("render: caption face: %w", err)
	}
	return r, nil
}

// Size returns the canvas dimensions in pixels.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// projection maps geographic coordinates onto a pixel rectangle.
type projection struct {
	vp domain.Viewport
	x0 float64
	y0 float64
	w  float64
	h  float64
}

func newProjection(vp domain.Viewport, x0, y0, w, h float64) projection {
	return projection{vp: vp, x0: x0, y0: y0, w: w, h: h}
}

// toPixel converts a coordinate to canvas pixels. North is up: latitude
// increases toward smaller y.
func (p projection) toPixel(g domain.Geo) (float64, float64) {
	x := p.x0 + (g.Lon-p.vp.MinLon)/p.vp.Width()*p.w
	y := p.y0 + (p.vp.MaxLat-g.Lat)/p.vp.Height()*p.h
	return x, y
}

// mapRect returns the pixel rectangle below the banner.
func (r *Renderer) mapRect() (x0, y0, w, h float64) {
	top := math.Round(float64(r.height) * bannerHeightFrac)
	return 0, top, float64(r.width), float64(r.height) - top
}

// drawBoundaries strokes admin boundary polylines clipped to the viewport by
// a cheap per-segment endpoint test.
func drawBoundaries(dc *gg.Context, p projection, lines [][]domain.Geo, hexColor string, width float64) {
	dc.SetHexColor(hexColor)
	dc.SetLineWidth(width)
	pad := domain.Viewport{
		MinLon: p.vp.MinLon - 1, MaxLon: p.vp.MaxLon + 1,
		MinLat: p.vp.MinLat - 1, MaxLat: p.vp.MaxLat + 1,
	}
	for _, line := range lines {
		drawing := false
		for _, g := range line {
			if !pad.Contains(g) {
				if drawing {
					dc.Stroke()
					drawing = false
				}
				continue
			}
			x, y := p.toPixel(g)
			if !drawing {
				dc.MoveTo(x, y)
				drawing = true
				continue
			}
			dc.LineTo(x, y)
		}
		if drawing {
			dc.Stroke()
		}
	}
}

// drawHaloText draws text with a dark halo so labels stay readable over any
// base map.
func drawHaloText(dc *gg.Context, face font.Face, s string, x, y float64) {
	dc.SetFontFace(face)
	dc.SetHexColor("#000000")
	for _, dx := range []float64{-1, 0, 1} {
		for _, dy := range []float64{-1, 0, 1} {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawStringAnchored(s, x+dx, y+dy, 0.5, 0.5)
		}
	}
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

// drawWarnings strokes warning polygon outlines. Polygons are outlined, never
// filled, so the reflectivity underneath stays visible.
func drawWarnings(dc *gg.Context, p projection, shapes []domain.WarningShape) {
	for _, shape := range shapes {
		dc.SetHexColor(shape.Color)
		dc.SetLineWidth(shape.StrokeWidth)
		for i, pt := range shape.Ring {
			x, y := p.toPixel(domain.Geo{Lat: pt.Lat(), Lon: pt.Lon()})
			if i == 0 {
				dc.MoveTo(x, y)
				continue
			}
			dc.LineTo(x, y)
		}
		dc.ClosePath()
		dc.Stroke()
	}
}

// drawBanner paints the top strip: station or satellite title on the left,
// timestamp on the right, with a thin accent rule along the bottom edge.
func (r *Renderer) drawBanner(dc *gg.Context, title string, ts time.Time) {
	w := float64(r.width)
	top := math.Round(float64(r.height) * bannerHeightFrac)
	accent := math.Max(2, math.Round(float64(r.height)*accentHeightFrac))

	dc.SetHexColor(bannerFill)
	dc.DrawRectangle(0, 0, w, top)
	dc.Fill()
	dc.SetHexColor(bannerAccent)
	dc.DrawRectangle(0, top-accent, w, accent)
	dc.Fill()

	pad := w * 0.015
	dc.SetFontFace(r.bannerFace)
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored(title, pad, top/2, 0, 0.5)

	dc.SetFontFace(r.labelFace)
	dc.SetHexColor(bannerTimeColor)
	stamp := ts.UTC().Format("January 02, 2006  15:04:05 UTC")
	dc.DrawStringAnchored(stamp, w-pad, top/2, 1, 0.5)
}

// drawWatermark writes the attribution string in the bottom-left corner.
func (r *Renderer) drawWatermark(dc *gg.Context) {
	dc.SetFontFace(r.smallFace)
	dc.SetRGBA(1, 1, 1, 0.6)
	dc.DrawStringAnchored(r.watermark, float64(r.width)*0.01, float64(r.height)*0.985, 0, 1)
}
