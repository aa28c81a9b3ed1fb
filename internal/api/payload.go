package api

import (
	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// ShorelineData is one image's dense shoreline trace and approval flag.
type ShorelineData struct {
	ImageIndex int
	// Points is the dense trace with malformed entries filtered out. World
	// coordinates unless PixelSpace is set.
	Points types.Shoreline
	// PixelSpace reports that the backend supplied the trace in the pixel
	// space of the rectified raster (the pixel_coordinates payload layout)
	// rather than in world coordinates.
	PixelSpace bool
	Approved   bool
}

// shorelinePayload mirrors the wire layout of GET /api/shoreline_data/{i}.
// The trace arrives either as shoreline_points, a list of [x, y] pairs, or
// as pixel_coordinates, parallel x and y arrays. Components are decoded as
// pointers so null entries can be detected and filtered instead of crashing
// downstream geometry.
type shorelinePayload struct {
	ImageIndex       int               `json:"image_index"`
	ShorelinePoints  [][]*float64      `json:"shoreline_points"`
	PixelCoordinates *pixelCoordinates `json:"pixel_coordinates"`
	Approved         bool              `json:"approved"`
}

type pixelCoordinates struct {
	X []*float64 `json:"x"`
	Y []*float64 `json:"y"`
}

// toShorelineData converts the wire payload to the cleaned form, dropping
// entries with missing, null, or non-finite components. An empty result from
// a payload that carried point data in neither layout is ErrMalformedPoints.
func (p *shorelinePayload) toShorelineData(imageIndex int) (*ShorelineData, error) {
	out := &ShorelineData{
		ImageIndex: imageIndex,
		Approved:   p.Approved,
	}

	switch {
	case len(p.ShorelinePoints) > 0:
		out.Points = filterPairs(p.ShorelinePoints)
	case p.PixelCoordinates != nil:
		out.Points = filterParallel(p.PixelCoordinates.X, p.PixelCoordinates.Y)
		out.PixelSpace = true
	default:
		return nil, types.ErrMalformedPoints
	}
	return out, nil
}

func filterPairs(pairs [][]*float64) types.Shoreline {
	points := make(types.Shoreline, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 || pair[0] == nil || pair[1] == nil {
			continue
		}
		p := types.Point{X: *pair[0], Y: *pair[1]}
		if !p.IsFinite() {
			continue
		}
		points = append(points, p)
	}
	return points
}

func filterParallel(xs, ys []*float64) types.Shoreline {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	points := make(types.Shoreline, 0, n)
	for i := 0; i < n; i++ {
		if xs[i] == nil || ys[i] == nil {
			continue
		}
		p := types.Point{X: *xs[i], Y: *ys[i]}
		if !p.IsFinite() {
			continue
		}
		points = append(points, p)
	}
	return points
}

// savePayload mirrors the wire layout of POST /api/save_shoreline.
type savePayload struct {
	ImageIndex      int         `json:"image_index"`
	ShorelinePoints [][]float64 `json:"shoreline_points"`
}

func encodePoints(points types.Shoreline) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = []float64{p.X, p.Y}
	}
	return out
}
