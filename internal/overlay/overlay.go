// Package overlay renders a shoreline trace onto its rectified raster so an
// operator can eyeball a trace without the editing surface. Coordinates are
// 0-based pixels with the origin at the top-left corner.
package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// Trace colors matching the review surfaces: yellow for a pending trace,
// green once approved.
const (
	PendingColorHex  = "#ffff00"
	ApprovedColorHex = "#00ff00"
)

// Options controls overlay rendering.
type Options struct {
	// Approved selects the trace color.
	Approved bool
	// ControlIndices, when non-empty, marks those dense-trace points with
	// square handles.
	ControlIndices []int
	// MaxWidth scales the result down to at most this width, preserving
	// aspect ratio. Zero leaves the raster at full resolution.
	MaxWidth int
	// TraceHex overrides the trace color, e.g. "#ff00ff".
	TraceHex string
}

// Decode reads a raster payload (PNG or JPEG) and returns the image and its
// pixel extent.
func Decode(r io.Reader) (image.Image, types.RasterExtent, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, types.RasterExtent{}, fmt.Errorf("decode raster: %w", err)
	}
	return img, Extent(img), nil
}

// DecodeBytes is Decode over an in-memory payload.
func DecodeBytes(data []byte) (image.Image, types.RasterExtent, error) {
	return Decode(bytes.NewReader(data))
}

// Extent returns the pixel dimensions of an image.
func Extent(img image.Image) types.RasterExtent {
	bounds := img.Bounds()
	return types.RasterExtent{Width: bounds.Dx(), Height: bounds.Dy()}
}

// Render draws the pixel-space trace as a polyline over the raster and
// returns the composited image. Control handles are drawn when requested.
// Trace points outside the raster are clipped per segment pixel.
func Render(img image.Image, trace types.Shoreline, opts Options) (image.Image, error) {
	traceColor, err := traceColor(opts)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for i := 1; i < len(trace); i++ {
		drawLine(out, trace[i-1], trace[i], traceColor)
	}
	for _, idx := range opts.ControlIndices {
		if idx < 0 || idx >= len(trace) {
			return nil, types.ErrIndexOutOfRange
		}
		drawHandle(out, trace[idx], traceColor)
	}

	if opts.MaxWidth > 0 && bounds.Dx() > opts.MaxWidth {
		return imaging.Resize(out, opts.MaxWidth, 0, imaging.Lanczos), nil
	}
	return out, nil
}

// EncodePNG writes an image as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	return nil
}

func traceColor(opts Options) (color.RGBA, error) {
	hex := opts.TraceHex
	if hex == "" {
		hex = PendingColorHex
		if opts.Approved {
			hex = ApprovedColorHex
		}
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse trace color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// drawLine rasterizes one segment by stepping at single-pixel resolution.
func drawLine(img *image.RGBA, a, b types.Point, c color.RGBA) {
	steps := int(math.Ceil(math.Hypot(b.X-a.X, b.Y-a.Y)))
	if steps < 1 {
		steps = 1
	}
	for k := 0; k <= steps; k++ {
		t := float64(k) / float64(steps)
		setPixel(img, a.X+t*(b.X-a.X), a.Y+t*(b.Y-a.Y), c)
	}
}

// drawHandle marks a control point with a 5x5 square.
func drawHandle(img *image.RGBA, p types.Point, c color.RGBA) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			setPixel(img, p.X+float64(dx), p.Y+float64(dy), c)
		}
	}
}

func setPixel(img *image.RGBA, x, y float64, c color.RGBA) {
	px := int(math.Round(x))
	py := int(math.Round(y))
	if !image.Pt(px, py).In(img.Bounds()) {
		return
	}
	img.SetRGBA(px, py, c)
}
