// Package geometry implements the bidirectional mapping between the fixed
// world plane and the pixel space of a raster, plus densification of sparse
// point sequences. All functions are pure: no side effects, no hidden state.
package geometry

import (
	"math"

	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// World bounding box. Shoreline geometry is expressed in this fixed logical
// plane regardless of any particular raster's resolution.
const (
	WorldXMin = -400.0
	WorldXMax = 100.0
	WorldYMin = 0.0
	WorldYMax = 600.0
)

// ToPixel linearly maps a world-space point onto the pixel space
// [0,extent.Width] x [0,extent.Height]. Points outside the world bounding
// box map outside the raster; there is no clamping. ToPixel and ToWorld are
// exact inverses up to floating-point rounding.
func ToPixel(p types.Point, extent types.RasterExtent) types.Point {
	return types.Point{
		X: (p.X - WorldXMin) / (WorldXMax - WorldXMin) * float64(extent.Width),
		Y: (p.Y - WorldYMin) / (WorldYMax - WorldYMin) * float64(extent.Height),
	}
}

// ToWorld is the inverse of ToPixel for the same extent.
func ToWorld(p types.Point, extent types.RasterExtent) types.Point {
	return types.Point{
		X: p.X/float64(extent.Width)*(WorldXMax-WorldXMin) + WorldXMin,
		Y: p.Y/float64(extent.Height)*(WorldYMax-WorldYMin) + WorldYMin,
	}
}

// Densify inserts evenly spaced interpolated points along each consecutive
// segment so that no two consecutive output points within a segment are more
// than approximately spacing apart. Each segment of length L is subdivided
// max(1, round(L/spacing)) times, and the output always ends with the
// original last input point exactly. Input with fewer than two points is
// returned unchanged.
func Densify(points types.Shoreline, spacing float64) types.Shoreline {
	if len(points) < 2 {
		return points
	}

	out := make(types.Shoreline, 0, len(points))
	out = append(out, points[0])
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		length := math.Hypot(b.X-a.X, b.Y-a.Y)
		n := int(math.Round(length / spacing))
		if n < 1 {
			n = 1
		}
		for k := 1; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, types.Point{
				X: a.X + t*(b.X-a.X),
				Y: a.Y + t*(b.Y-a.Y),
			})
		}
		// End each segment on the original point, not an interpolation.
		out = append(out, b)
	}
	return out
}
