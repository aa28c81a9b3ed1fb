package types

import "math"

// Point is an ordered pair of real-valued coordinates. It carries no unit of
// its own; a Point is interpreted as world-space or pixel-space by context and
// the two spaces are never mixed without an explicit transform.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are finite numbers.
// Points with NaN or infinite components are rejected at the wire boundary
// before they reach the geometry code.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// RasterExtent is the width and height of a raster in pixels. Every
// coordinate transform call requires the extent of the raster the pixel
// coordinates refer to.
type RasterExtent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (e RasterExtent) Valid() bool {
	return e.Width > 0 && e.Height > 0
}
