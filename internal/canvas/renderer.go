// Package canvas turns sentences and generated pictures into the fixed-size
// video artifacts clients fetch: a renderer rasterizes frames and a library
// owns the per-channel artifact files.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	_ "image/jpeg"
	_ "image/png"
)

// textOrigin is the fixed top-left placement of the sentence on the frame.
const textOrigin = 1

// Renderer rasterizes sentences onto square frames and fits externally
// generated images to the same frame size.
type Renderer struct {
	size int
	face font.Face
}

// NewRenderer builds a renderer producing size x size frames with the
// bundled regular face at fontSize points.
func NewRenderer(size int, fontSize float64) (*Renderer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid frame size %d", size)
	}
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	return &Renderer{size: size, face: face}, nil
}

// Size returns the square frame edge in pixels.
func (r *Renderer) Size() int {
	return r.size
}

// RenderSentence draws the sentence white-on-black at the fixed origin.
func (r *Renderer) RenderSentence(sentence string) image.Image {
	frame := image.NewRGBA(image.Rect(0, 0, r.size, r.size))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(color.White),
		Face: r.face,
		Dot: fixed.Point26_6{
			X: fixed.I(textOrigin),
			Y: fixed.I(textOrigin) + r.face.Metrics().Ascent,
		},
	}
	drawer.DrawString(sentence)
	return frame
}

// Fit scales src to the frame size with nearest-neighbor interpolation.
func (r *Renderer) Fit(src image.Image) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() == r.size && bounds.Dy() == r.size {
		return src
	}
	frame := image.NewRGBA(image.Rect(0, 0, r.size, r.size))
	draw.NearestNeighbor.Scale(frame, frame.Bounds(), src, bounds, draw.Src, nil)
	return frame
}

// DecodeImageFile reads and decodes a stored png or jpeg image.
func DecodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
