package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shoretrace/internal/api"
	"github.com/mesh-intelligence/shoretrace/internal/geometry"
	"github.com/mesh-intelligence/shoretrace/internal/statuscache"
	"github.com/mesh-intelligence/shoretrace/pkg/types"
)

// editBackend is a minimal in-memory stand-in for the shoreline endpoints an
// editing session touches.
type editBackend struct {
	points      [][]float64 // world coordinates
	approved    bool
	saved       [][]float64
	resets      int
	approveFail bool
	saveFail    bool
}

func (b *editBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/shoreline_data/"):
			if b.points == nil {
				http.NotFound(w, r)
				return
			}
			resp := map[string]any{
				"image_index":      0,
				"shoreline_points": b.points,
				"approved":         b.approved,
			}
			json.NewEncoder(w).Encode(resp)
		case r.URL.Path == "/api/save_shoreline":
			if b.saveFail {
				http.Error(w, `{"error":"save failed"}`, http.StatusInternalServerError)
				return
			}
			var body struct {
				ImageIndex      int         `json:"image_index"`
				ShorelinePoints [][]float64 `json:"shoreline_points"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			b.saved = body.ShorelinePoints
			fmt.Fprint(w, `{"message":"saved"}`)
		case strings.HasPrefix(r.URL.Path, "/api/approve_shoreline/"):
			if b.approveFail {
				http.Error(w, `{"error":"approve failed"}`, http.StatusInternalServerError)
				return
			}
			b.approved = true
			fmt.Fprint(w, `{"message":"approved"}`)
		case strings.HasPrefix(r.URL.Path, "/api/reset_shoreline/"):
			b.resets++
			fmt.Fprint(w, `{"message":"reset"}`)
		default:
			http.NotFound(w, r)
		}
	})
}

func worldRamp(n int) [][]float64 {
	// A diagonal ramp across the world bounding box.
	out := make([][]float64, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = []float64{geometry.WorldXMin + t*500, t * 600}
	}
	return out
}

func openTestSession(t *testing.T, backend *editBackend, target int) *Session {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	extent := types.RasterExtent{Width: 1000, Height: 600}
	s, err := Open(context.Background(), api.New(srv.URL), 0, extent, target)
	require.NoError(t, err)
	return s
}

func TestOpenProjectsToPixelSpace(t *testing.T) {
	backend := &editBackend{points: worldRamp(101)}
	s := openTestSession(t, backend, 20)

	dense := s.Dense()
	require.Len(t, dense, 101)
	// World (-400, 0) is pixel (0, 0); world (100, 600) is pixel (1000, 600).
	assert.InDelta(t, 0, dense[0].X, 1e-9)
	assert.InDelta(t, 0, dense[0].Y, 1e-9)
	assert.InDelta(t, 1000, dense[100].X, 1e-9)
	assert.InDelta(t, 600, dense[100].Y, 1e-9)
}

func TestOpenDerivesControlSet(t *testing.T) {
	backend := &editBackend{points: worldRamp(101)}
	s := openTestSession(t, backend, 20)

	controls := s.Controls()
	require.NoError(t, controls.Validate(101))
	assert.LessOrEqual(t, len(controls.Indices), 21)

	dense := s.Dense()
	for i, idx := range controls.Indices {
		assert.Equal(t, dense[idx], controls.Points[i], "control %d mirrors the dense trace", i)
	}
}

func TestOpenEmptyTrace(t *testing.T) {
	backend := &editBackend{points: [][]float64{}}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	_, err := Open(context.Background(), api.New(srv.URL), 0,
		types.RasterExtent{Width: 100, Height: 100}, 10)
	assert.ErrorIs(t, err, types.ErrMalformedPoints)
}

func TestOpenNotFound(t *testing.T) {
	backend := &editBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	_, err := Open(context.Background(), api.New(srv.URL), 0,
		types.RasterExtent{Width: 100, Height: 100}, 10)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMoveControlValidation(t *testing.T) {
	backend := &editBackend{points: worldRamp(50)}
	s := openTestSession(t, backend, 10)

	assert.NoError(t, s.MoveControl(0, types.Point{X: 5, Y: 5}))
	assert.ErrorIs(t, s.MoveControl(-1, types.Point{}), types.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.MoveControl(999, types.Point{}), types.ErrIndexOutOfRange)
}

func TestSaveRoundTripsWorldCoordinates(t *testing.T) {
	backend := &editBackend{points: worldRamp(101)}
	s := openTestSession(t, backend, 20)

	require.NoError(t, s.Save(context.Background()))
	require.Len(t, backend.saved, 101)

	// With no edits, the saved world trace matches the input within
	// round-trip tolerance.
	original := worldRamp(101)
	for i, pair := range backend.saved {
		assert.InDelta(t, original[i][0], pair[0], 1e-6, "point %d x", i)
		assert.InDelta(t, original[i][1], pair[1], 1e-6, "point %d y", i)
	}
}

func TestSaveCommitsReconstruction(t *testing.T) {
	backend := &editBackend{points: worldRamp(101)}
	s := openTestSession(t, backend, 20)

	controls := s.Controls()
	moved := types.Point{X: controls.Points[1].X + 40, Y: controls.Points[1].Y - 25}
	require.NoError(t, s.MoveControl(1, moved))

	require.NoError(t, s.Save(context.Background()))

	dense := s.Dense()
	assert.Equal(t, moved, dense[controls.Indices[1]], "edit committed to the dense trace")

	// Saving again without further edits persists an identical trace.
	first := append([][]float64{}, backend.saved...)
	require.NoError(t, s.Save(context.Background()))
	require.Len(t, backend.saved, len(first))
	for i := range first {
		assert.InDelta(t, first[i][0], backend.saved[i][0], 1e-9)
		assert.InDelta(t, first[i][1], backend.saved[i][1], 1e-9)
	}
}

func TestSaveBackendFailure(t *testing.T) {
	backend := &editBackend{points: worldRamp(50), saveFail: true}
	s := openTestSession(t, backend, 10)

	before := s.Dense()
	require.NoError(t, s.MoveControl(0, types.Point{X: 1, Y: 2}))

	err := s.Save(context.Background())
	require.ErrorIs(t, err, types.ErrBackendStatus)
	assert.Equal(t, before, s.Dense(), "failed save must not commit the reconstruction")
}

func TestApproveUpdatesCache(t *testing.T) {
	backend := &editBackend{points: worldRamp(50)}
	s := openTestSession(t, backend, 10)
	cache := statuscache.New(0)

	require.NoError(t, s.Approve(context.Background(), cache))

	assert.True(t, s.Approved())
	approved, ok := cache.Status(0)
	require.True(t, ok)
	assert.True(t, approved)
}

func TestApproveFailureRollsBack(t *testing.T) {
	backend := &editBackend{points: worldRamp(50), approved: true, approveFail: true}
	s := openTestSession(t, backend, 10)
	cache := statuscache.New(0)
	require.True(t, s.Approved(), "backend reported the trace as approved")

	err := s.Approve(context.Background(), cache)
	require.ErrorIs(t, err, types.ErrBackendStatus)

	assert.False(t, s.Approved(), "approval state reverted on failure")
	approved, ok := cache.Status(0)
	require.True(t, ok)
	assert.False(t, approved, "cache entry reverted on failure")
}

func TestResetReloadsTrace(t *testing.T) {
	backend := &editBackend{points: worldRamp(50)}
	s := openTestSession(t, backend, 10)

	require.NoError(t, s.MoveControl(0, types.Point{X: 123, Y: 456}))
	require.NoError(t, s.Reset(context.Background()))

	assert.Equal(t, 1, backend.resets)
	controls := s.Controls()
	dense := s.Dense()
	assert.Equal(t, dense[0], controls.Points[0], "controls rebuilt from the reloaded trace")
	assert.NotEqual(t, types.Point{X: 123, Y: 456}, controls.Points[0])
}

func TestPixelSpaceTraceSavedWithoutProjection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/shoreline_data/"):
			fmt.Fprint(w, `{"image_index":0,"pixel_coordinates":{"x":[0,10,20],"y":[0,5,10]},"approved":false}`)
		case r.URL.Path == "/api/save_shoreline":
			var body struct {
				ShorelinePoints [][]float64 `json:"shoreline_points"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, [][]float64{{0, 0}, {10, 5}, {20, 10}}, body.ShorelinePoints)
			fmt.Fprint(w, `{"message":"saved"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	s, err := Open(context.Background(), api.New(srv.URL), 0,
		types.RasterExtent{Width: 100, Height: 100}, 10)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background()))
}
