package render

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"time"
)

// GIF playback settings: 100ms per frame, looping forever.
const (
	FrameDelay = 100 * time.Millisecond
	loopRepeat = 0
)

// SavePNG writes an image to disk as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return f.Close()
}

// LoadPNG reads a PNG frame back from disk.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", path, err)
	}
	return img, nil
}

// EncodeGIF quantizes the frames to a shared palette and writes an animated
// GIF. Frames are emitted in slice order; the caller owns ordering. An empty
// frame list is an error so a fully failed run never produces an empty file.
func EncodeGIF(w io.Writer, frames []image.Image) error {
	if len(frames) == 0 {
		return fmt.Errorf("render: no frames to encode")
	}

	anim := &gif.GIF{LoopCount: loopRepeat}
	delay := int(FrameDelay / (10 * time.Millisecond))

	for _, frame := range frames {
		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, image.Point{})
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delay)
	}

	return gif.EncodeAll(w, anim)
}

// SaveGIF writes an animated GIF to disk.
func SaveGIF(path string, frames []image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	if err := EncodeGIF(f, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
