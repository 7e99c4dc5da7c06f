package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// Satellite overlay colors, kept close to broadcast convention: cyan
// coastlines, red city markers.
const (
	sceneBoundaryStroke = "#00ffff"
	sceneMarkerFill     = "#ff3030"
)

// SceneFrame is everything drawn onto one satellite frame.
type SceneFrame struct {
	Scene      domain.Scene
	Viewport   domain.Viewport // zero value means the scene's native extent
	Places     []domain.Place
	Boundaries [][]domain.Geo
	Caption    string
}

// RenderScene crops the satellite raster to the requested viewport, scales it
// to the canvas, and draws boundaries, city markers, and the caption box.
func (r *Renderer) RenderScene(frame SceneFrame) (image.Image, error) {
	vp := frame.Viewport
	if vp == (domain.Viewport{}) {
		vp = frame.Scene.Extent
	}
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	if !frame.Scene.Extent.Intersects(vp) {
		return nil, fmt.Errorf("render: viewport outside scene extent")
	}

	dc := gg.NewContext(r.width, r.height)
	dc.SetHexColor("#000000")
	dc.Clear()

	scaled := cropScale(frame.Scene.Image, frame.Scene.Extent, vp, r.width, r.height)
	dc.DrawImage(scaled, 0, 0)

	p := newProjection(vp, 0, 0, float64(r.width), float64(r.height))
	drawBoundaries(dc, p, frame.Boundaries, sceneBoundaryStroke, 1)

	for _, place := range frame.Places {
		x, y := p.toPixel(place.Location)
		dc.SetHexColor(sceneMarkerFill)
		dc.DrawCircle(x, y, float64(r.height)*0.004)
		dc.Fill()
		drawHaloText(dc, r.smallFace, place.Name, x, y-float64(r.height)*0.012)
	}

	if frame.Caption != "" {
		r.drawCaption(dc, frame.Caption)
	}
	r.drawWatermark(dc)

	return dc.Image(), nil
}

// cropScale cuts the viewport window out of the source raster and resamples
// it to the canvas size with bilinear filtering.
func cropScale(src image.Image, extent, vp domain.Viewport, width, height int) image.Image {
	b := src.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())

	x0 := b.Min.X + int((vp.MinLon-extent.MinLon)/extent.Width()*sw)
	x1 := b.Min.X + int((vp.MaxLon-extent.MinLon)/extent.Width()*sw)
	y0 := b.Min.Y + int((extent.MaxLat-vp.MaxLat)/extent.Height()*sh)
	y1 := b.Min.Y + int((extent.MaxLat-vp.MinLat)/extent.Height()*sh)

	crop := image.Rect(x0, y0, x1, y1).Intersect(b)
	if crop.Empty() {
		crop = b
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, crop, xdraw.Src, nil)
	return dst
}

// drawCaption writes the broadcast-style caption in a bordered box centered
// along the bottom edge.
func (r *Renderer) drawCaption(dc *gg.Context, caption string) {
	dc.SetFontFace(r.captionFace)
	tw, th := dc.MeasureString(caption)

	cx := float64(r.width) / 2
	cy := float64(r.height) * 0.955
	padX, padY := th*0.8, th*0.45

	dc.SetRGBA(0, 0, 0, 0.8)
	dc.DrawRectangle(cx-tw/2-padX, cy-th/2-padY, tw+2*padX, th+2*padY)
	dc.Fill()
	dc.SetHexColor("#ffffff")
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(cx-tw/2-padX, cy-th/2-padY, tw+2*padX, th+2*padY)
	dc.Stroke()

	dc.DrawStringAnchored(caption, cx, cy, 0.5, 0.5)
}
